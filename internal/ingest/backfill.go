package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/XavierBriggs/Hermes/internal/config"
	"github.com/XavierBriggs/Hermes/internal/partition"
)

// DateChunk is one inclusive date window of a backfill.
type DateChunk struct {
	From time.Time
	To   time.Time
}

// Chunks splits [start, end] into consecutive windows of at most days days.
// Chunks are contiguous, non-overlapping, cover the full range, and the
// final chunk never extends past end.
func Chunks(start, end time.Time, days int) []DateChunk {
	var chunks []DateChunk
	for cur := start; !cur.After(end); cur = chunks[len(chunks)-1].To.AddDate(0, 0, 1) {
		chunkEnd := cur.AddDate(0, 0, days-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunks = append(chunks, DateChunk{From: cur, To: chunkEnd})
	}
	return chunks
}

// Backfill fetches a bounded historical range for one competition in
// fixed-size day chunks, sequentially, writing a data object plus a sibling
// manifest per chunk. The range and chunk size are validated at config
// parse time, before any I/O.
func (r *Runner) Backfill(ctx context.Context, bf config.Backfill) error {
	run := r.newRun()

	log.Printf("[ingest] backfill competition=%s range=%s..%s chunk_days=%d",
		bf.Competition, bf.Start.Format(dateLayout), bf.End.Format(dateLayout), bf.ChunkDays)

	for i, chunk := range Chunks(bf.Start, bf.End, bf.ChunkDays) {
		dateFrom := chunk.From.Format(dateLayout)
		dateTo := chunk.To.Format(dateLayout)

		log.Printf("[ingest] [%d] fetching chunk dateFrom=%s dateTo=%s", i+1, dateFrom, dateTo)

		payload, err := r.API.CompetitionMatches(ctx, bf.Competition, dateFrom, dateTo)
		if err != nil {
			return fmt.Errorf("fetch backfill chunk %s..%s: %w", dateFrom, dateTo, err)
		}

		count := payload.RecordCount("matches")
		fields := partition.Fields{
			Endpoint:    endpointMatchesBackfill,
			Competition: bf.Competition,
			DateFrom:    dateFrom,
			DateTo:      dateTo,
			DT:          run.dt,
			RunID:       run.id,
		}

		if err := r.writeWithManifest(ctx, run, fields, payload, count); err != nil {
			return err
		}
		log.Printf("[ingest] [%d] saved chunk: matches=%d", i+1, count)
	}

	log.Printf("[ingest] backfill ingestion complete")
	return nil
}
