// Package ledger tracks which bronze keys have already been materialized
// into the warehouse. Records are append-only: presence means "durably
// loaded", and losing the table only costs a full (safe) re-load.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XavierBriggs/Hermes/pkg/contracts"
)

const loadStateTable = "bronze.load_state"

// Ledger reads and writes load-state records in the warehouse.
type Ledger struct {
	db *sql.DB
}

var _ contracts.LoadState = (*Ledger)(nil)

// New creates a Ledger on an open warehouse handle.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// AlreadyLoaded returns every file key marked loaded under prefix.
func (l *Ledger) AlreadyLoaded(ctx context.Context, prefix string) (map[string]struct{}, error) {
	query := fmt.Sprintf(`SELECT file_key FROM %s WHERE file_key LIKE $1`, loadStateTable)

	rows, err := l.db.QueryContext(ctx, query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query load state: %w", err)
	}
	defer rows.Close()

	loaded := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan load state row: %w", err)
		}
		loaded[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate load state rows: %w", err)
	}
	return loaded, nil
}

// MarkLoaded records that key reached the warehouse. An existing record for
// the same key makes this a no-op.
func (l *Ledger) MarkLoaded(ctx context.Context, key, endpoint string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (file_key, endpoint)
		VALUES ($1, $2)
		ON CONFLICT (file_key) DO NOTHING
	`, loadStateTable)

	if _, err := l.db.ExecContext(ctx, query, key, endpoint); err != nil {
		return fmt.Errorf("mark loaded %s: %w", key, err)
	}
	return nil
}
