// Package warehouse loads bronze payloads into the raw warehouse tables.
// Every upsert is delete-then-insert inside one transaction, keyed by the
// bronze file key: exactly one row per key survives no matter how many
// times the same object is loaded.
package warehouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/XavierBriggs/Hermes/pkg/contracts"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

const (
	rawCompetitionsTable = "bronze.raw_competitions"
	rawMatchesTable      = "bronze.raw_matches"
	rawManifestsTable    = "bronze.raw_manifests"
)

// Loader performs idempotent replace-inserts into the raw bronze tables.
type Loader struct {
	db *sql.DB
}

var _ contracts.Warehouse = (*Loader)(nil)

// New creates a Loader on an open warehouse handle.
func New(db *sql.DB) *Loader {
	return &Loader{db: db}
}

// UpsertRawCompetitions replaces the raw_competitions row for row.FileKey.
func (l *Loader) UpsertRawCompetitions(ctx context.Context, row models.CompetitionsRow) error {
	payload, err := json.Marshal(row.Payload)
	if err != nil {
		return fmt.Errorf("marshal competitions payload: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (file_key, run_id, dt, payload)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, '')::date, $4::jsonb)
	`, rawCompetitionsTable)

	err = l.replace(ctx, rawCompetitionsTable, row.FileKey, insert,
		row.FileKey, row.RunID, row.DT, payload)
	if err != nil {
		return err
	}

	log.Printf("[warehouse] upserted raw_competitions file_key=%s", row.FileKey)
	return nil
}

// UpsertRawMatches replaces the raw_matches row for row.FileKey.
func (l *Loader) UpsertRawMatches(ctx context.Context, row models.MatchesRow) error {
	payload, err := json.Marshal(row.Payload)
	if err != nil {
		return fmt.Errorf("marshal matches payload: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (file_key, competition_code, date_from, date_to, run_id, dt, payload)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, '')::date, NULLIF($4, '')::date, NULLIF($5, ''), NULLIF($6, '')::date, $7::jsonb)
	`, rawMatchesTable)

	err = l.replace(ctx, rawMatchesTable, row.FileKey, insert,
		row.FileKey, row.CompetitionCode, row.DateFrom, row.DateTo, row.RunID, row.DT, payload)
	if err != nil {
		return err
	}

	log.Printf("[warehouse] upserted raw_matches file_key=%s", row.FileKey)
	return nil
}

// UpsertRawManifest replaces the raw_manifests row for row.FileKey.
func (l *Loader) UpsertRawManifest(ctx context.Context, row models.ManifestRow) error {
	manifest, err := json.Marshal(row.Manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (file_key, endpoint, run_id, dt, manifest)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, '')::date, $5::jsonb)
	`, rawManifestsTable)

	err = l.replace(ctx, rawManifestsTable, row.FileKey, insert,
		row.FileKey, row.Endpoint, row.RunID, row.DT, manifest)
	if err != nil {
		return err
	}

	log.Printf("[warehouse] upserted raw_manifests file_key=%s", row.FileKey)
	return nil
}

// replace runs the delete+insert pair for one file key inside a single
// transaction. Both statements commit or neither does.
func (l *Loader) replace(ctx context.Context, table, fileKey, insert string, args ...any) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	del := fmt.Sprintf(`DELETE FROM %s WHERE file_key = $1`, table)
	if _, err := tx.ExecContext(ctx, del, fileKey); err != nil {
		return fmt.Errorf("delete %s row: %w", table, err)
	}

	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return fmt.Errorf("insert %s row: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
