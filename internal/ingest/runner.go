// Package ingest implements the three ingestion patterns: a single-shot
// competitions snapshot, an incremental match window per target
// competition, and a chunked historical backfill. Each run gets exactly one
// run_id and one UTC capture time shared across all of its writes.
package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/XavierBriggs/Hermes/internal/notify"
	"github.com/XavierBriggs/Hermes/pkg/contracts"
)

const dateLayout = "2006-01-02"

const (
	endpointCompetitions    = "competitions"
	endpointMatches         = "matches"
	endpointMatchesBackfill = "matches_backfill"
)

// Runner composes the fetcher and bronze store into ingestion runs. Notify
// may be nil.
type Runner struct {
	API    contracts.FootballAPI
	Store  contracts.ObjectStore
	Notify *notify.Publisher
	Bucket string

	// Now and NewRunID are injectable for tests; defaults are wall clock
	// and a fresh uuid per run.
	Now      func() time.Time
	NewRunID func() string
}

// runInfo captures the shared identity of one orchestration execution.
type runInfo struct {
	id string
	at time.Time
	dt string
}

func (r *Runner) newRun() runInfo {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	newID := uuid.NewString
	if r.NewRunID != nil {
		newID = r.NewRunID
	}

	at := now().UTC()
	return runInfo{
		id: newID(),
		at: at,
		dt: at.Format(dateLayout),
	}
}
