package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/XavierBriggs/Hermes/internal/notify"
	"github.com/XavierBriggs/Hermes/internal/partition"
)

// Competitions fetches the competitions listing once and writes it to
// bronze. The snapshot has no manifest; its key carries everything a loader
// needs.
func (r *Runner) Competitions(ctx context.Context) error {
	run := r.newRun()

	payload, err := r.API.Competitions(ctx)
	if err != nil {
		return fmt.Errorf("fetch competitions: %w", err)
	}

	key := partition.Fields{
		Endpoint: endpointCompetitions,
		DT:       run.dt,
		RunID:    run.id,
	}.DataKey()

	if err := r.Store.PutJSON(ctx, key, payload); err != nil {
		return fmt.Errorf("write competitions payload: %w", err)
	}

	count := payload.RecordCount("competitions")
	log.Printf("[ingest] saved competitions payload to s3://%s/%s (competitions=%d)", r.Bucket, key, count)

	r.Notify.BronzeWritten(ctx, notify.Event{
		Endpoint:    endpointCompetitions,
		FileKey:     key,
		Bucket:      r.Bucket,
		RunID:       run.id,
		RecordCount: count,
	})
	return nil
}
