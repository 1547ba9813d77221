package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/XavierBriggs/Hermes/internal/notify"
	"github.com/XavierBriggs/Hermes/internal/partition"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

// Incremental window: yesterday through seven days ahead.
const (
	windowBackDays    = 1
	windowForwardDays = 7
)

// Incremental fetches the trailing/leading match window for each target
// competition code, in the order supplied, writing a data object plus a
// sibling manifest per code.
func (r *Runner) Incremental(ctx context.Context, targets []string) error {
	if len(targets) == 0 {
		return fmt.Errorf("no target competition codes supplied")
	}

	run := r.newRun()
	dateFrom := run.at.AddDate(0, 0, -windowBackDays).Format(dateLayout)
	dateTo := run.at.AddDate(0, 0, windowForwardDays).Format(dateLayout)

	log.Printf("[ingest] targets=%v window dateFrom=%s dateTo=%s", targets, dateFrom, dateTo)

	for _, code := range targets {
		log.Printf("[ingest] fetching matches for competition=%s", code)

		payload, err := r.API.CompetitionMatches(ctx, code, dateFrom, dateTo)
		if err != nil {
			return fmt.Errorf("fetch matches for %s: %w", code, err)
		}

		count := payload.RecordCount("matches")
		fields := partition.Fields{
			Endpoint:    endpointMatches,
			Competition: code,
			DateFrom:    dateFrom,
			DateTo:      dateTo,
			DT:          run.dt,
			RunID:       run.id,
		}

		if err := r.writeWithManifest(ctx, run, fields, payload, count); err != nil {
			return err
		}
		log.Printf("[ingest] saved %d matches to s3://%s/%s", count, r.Bucket, fields.DataKey())
	}

	log.Printf("[ingest] incremental matches ingestion complete")
	return nil
}

// writeWithManifest writes one data object and its sibling manifest.
func (r *Runner) writeWithManifest(ctx context.Context, run runInfo, fields partition.Fields, payload models.Document, count int) error {
	dataKey := fields.DataKey()

	if err := r.Store.PutJSON(ctx, dataKey, payload); err != nil {
		return fmt.Errorf("write payload %s: %w", dataKey, err)
	}

	manifest := models.Manifest{
		RunID:       run.id,
		Endpoint:    fields.Endpoint,
		Competition: fields.Competition,
		Params: models.ManifestParams{
			DateFrom: fields.DateFrom,
			DateTo:   fields.DateTo,
		},
		DTPartition:  run.dt,
		FetchedAtUTC: run.at,
		RecordCount:  count,
		Bucket:       r.Bucket,
		DataKey:      dataKey,
	}
	if err := r.Store.PutManifest(ctx, dataKey, manifest); err != nil {
		return fmt.Errorf("write manifest for %s: %w", dataKey, err)
	}

	r.Notify.BronzeWritten(ctx, notify.Event{
		Endpoint:    fields.Endpoint,
		FileKey:     dataKey,
		Bucket:      r.Bucket,
		RunID:       run.id,
		RecordCount: count,
	})
	return nil
}
