package load

import (
	"context"
	"fmt"
	"log"

	"github.com/XavierBriggs/Hermes/internal/notify"
	"github.com/XavierBriggs/Hermes/internal/partition"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

// IncrementalMatches loads every not-yet-loaded matches data object (and
// its sibling manifest) into the warehouse, consulting the ledger to skip
// keys that already made it.
func (p *Pass) IncrementalMatches(ctx context.Context) error {
	keys, err := p.Store.List(ctx, matchesPrefix)
	if err != nil {
		return fmt.Errorf("list bronze prefix %s: %w", matchesPrefix, err)
	}

	dataKeys, manifestKeys := splitKeys(keys)
	if len(dataKeys) == 0 {
		log.Printf("[load] no incremental match files found under prefix %s", matchesPrefix)
		return nil
	}

	alreadyLoaded, err := p.Ledger.AlreadyLoaded(ctx, matchesPrefix)
	if err != nil {
		return fmt.Errorf("query load state: %w", err)
	}

	var toLoad []string
	for _, k := range dataKeys {
		if _, ok := alreadyLoaded[k]; !ok {
			toLoad = append(toLoad, k)
		}
	}

	log.Printf("[load] found %d incremental data files", len(dataKeys))
	log.Printf("[load] already loaded (by prefix): %d", len(alreadyLoaded))
	log.Printf("[load] to load now: %d", len(toLoad))

	loadedData, loadedManifests := 0, 0

	for i, dataKey := range toLoad {
		log.Printf("[load] [%d/%d] loading data_key=%s", i+1, len(toLoad), dataKey)

		if err := p.loadMatches(ctx, dataKey, "matches_incremental"); err != nil {
			return err
		}
		loadedData++

		expected := partition.ManifestKeyFor(dataKey)
		if _, ok := manifestKeys[expected]; !ok {
			log.Printf("[load] warning: manifest missing for %s (expected %s)", dataKey, expected)
			continue
		}

		if err := p.loadManifest(ctx, expected, partition.Parse(dataKey)); err != nil {
			return err
		}
		if err := p.Ledger.MarkLoaded(ctx, expected, "matches_incremental_manifest"); err != nil {
			return err
		}
		loadedManifests++
	}

	log.Printf("[load] loaded incremental: data_files=%d manifests=%d", loadedData, loadedManifests)
	return nil
}

// loadMatches reads one matches data object, upserts it into raw_matches
// and marks it loaded under the given endpoint label.
func (p *Pass) loadMatches(ctx context.Context, dataKey, endpointLabel string) error {
	var payload models.Document
	if err := p.Store.GetJSON(ctx, dataKey, &payload); err != nil {
		return fmt.Errorf("read bronze object %s: %w", dataKey, err)
	}

	fields := partition.Parse(dataKey)
	err := p.Warehouse.UpsertRawMatches(ctx, models.MatchesRow{
		FileKey:         dataKey,
		CompetitionCode: fields.Competition,
		DateFrom:        fields.DateFrom,
		DateTo:          fields.DateTo,
		RunID:           fields.RunID,
		DT:              fields.DT,
		Payload:         payload,
	})
	if err != nil {
		return err
	}

	if err := p.Ledger.MarkLoaded(ctx, dataKey, endpointLabel); err != nil {
		return err
	}

	p.Notify.Loaded(ctx, notify.Event{
		Endpoint:    fields.Endpoint,
		FileKey:     dataKey,
		Table:       "bronze.raw_matches",
		RunID:       fields.RunID,
		RecordCount: payload.RecordCount("matches"),
	})
	return nil
}
