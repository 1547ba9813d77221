// Package load moves bronze objects into the warehouse. Discovery is pure
// prefix listing: load passes share no in-process state with the
// orchestrators that wrote the objects. Every upsert is replace-by-key, so
// a pass interrupted at any point is safe to re-run.
package load

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/Hermes/internal/notify"
	"github.com/XavierBriggs/Hermes/internal/partition"
	"github.com/XavierBriggs/Hermes/pkg/contracts"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

const (
	matchesPrefix      = "endpoint=matches/"
	competitionsPrefix = "endpoint=competitions/"
)

// Pass composes the bronze store, ledger and warehouse for load runs.
// Notify may be nil.
type Pass struct {
	Store     contracts.ObjectStore
	Ledger    contracts.LoadState
	Warehouse contracts.Warehouse
	Notify    *notify.Publisher
}

// splitKeys partitions a listing into sorted data keys and a manifest-key
// set. The listing is already lexicographically ordered by the store.
func splitKeys(keys []string) (dataKeys []string, manifestKeys map[string]struct{}) {
	manifestKeys = make(map[string]struct{})
	for _, k := range keys {
		switch {
		case partition.IsManifestKey(k):
			manifestKeys[k] = struct{}{}
		case partition.IsDataKey(k):
			dataKeys = append(dataKeys, k)
		}
	}
	return dataKeys, manifestKeys
}

// loadManifest reads and upserts the manifest at manifestKey. The
// manifest's own dt_partition wins over the key-derived dt; the key value
// is only a fallback when the manifest field is absent.
func (p *Pass) loadManifest(ctx context.Context, manifestKey string, fields partition.Fields) error {
	var manifest models.Document
	if err := p.Store.GetJSON(ctx, manifestKey, &manifest); err != nil {
		return fmt.Errorf("read manifest %s: %w", manifestKey, err)
	}

	dt := fields.DT
	if v, ok := manifest["dt_partition"].(string); ok && v != "" {
		dt = v
	}
	endpoint := fields.Endpoint
	if v, ok := manifest["endpoint"].(string); ok && v != "" {
		endpoint = v
	}
	runID := fields.RunID
	if v, ok := manifest["run_id"].(string); ok && v != "" {
		runID = v
	}

	return p.Warehouse.UpsertRawManifest(ctx, models.ManifestRow{
		FileKey:  manifestKey,
		Endpoint: endpoint,
		RunID:    runID,
		DT:       dt,
		Manifest: manifest,
	})
}
