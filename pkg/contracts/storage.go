package contracts

import (
	"context"

	"github.com/XavierBriggs/Hermes/pkg/models"
)

// ObjectStore abstracts the bronze bucket. Writes are append-only in
// practice: every key carries a fresh run_id, so callers never overwrite.
type ObjectStore interface {
	// PutJSON serializes payload as JSON and stores it at key.
	PutJSON(ctx context.Context, key string, payload any) error

	// PutManifest writes a manifest next to its data object. The manifest
	// key is derived from dataKey by swapping the .json suffix for
	// .manifest.json.
	PutManifest(ctx context.Context, dataKey string, manifest models.Manifest) error

	// GetJSON fetches and unmarshals a previously written object into out.
	// Returns bronze.ErrObjectNotFound when the key does not exist.
	GetJSON(ctx context.Context, key string, out any) error

	// List returns every key under prefix in lexicographic order. Pagination
	// is handled internally; callers never see continuation tokens.
	List(ctx context.Context, prefix string) ([]string, error)
}

// LoadState is the durable ledger of bronze keys already materialized into
// the warehouse. It is a skip optimization, not a correctness requirement:
// warehouse upserts are replace-by-key, so re-loading is always safe.
type LoadState interface {
	// AlreadyLoaded returns the set of file keys marked loaded whose value
	// starts with prefix.
	AlreadyLoaded(ctx context.Context, prefix string) (map[string]struct{}, error)

	// MarkLoaded records that key reached the warehouse. Calling it again
	// for the same key is a no-op.
	MarkLoaded(ctx context.Context, key, endpoint string) error
}

// Warehouse performs idempotent replace-inserts into the raw bronze tables.
// Each call is one transaction: delete any row with the same file key, then
// insert exactly one new row.
type Warehouse interface {
	UpsertRawCompetitions(ctx context.Context, row models.CompetitionsRow) error
	UpsertRawMatches(ctx context.Context, row models.MatchesRow) error
	UpsertRawManifest(ctx context.Context, row models.ManifestRow) error
}
