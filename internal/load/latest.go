package load

import (
	"context"
	"fmt"
	"log"

	"github.com/XavierBriggs/Hermes/internal/notify"
	"github.com/XavierBriggs/Hermes/internal/partition"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

// LatestMatches re-loads the lexicographically last matches data object
// regardless of ledger state, then marks it loaded so incremental passes
// skip it. Replace semantics make the unconditional re-upsert safe; this
// doubles as a force refresh.
func (p *Pass) LatestMatches(ctx context.Context) error {
	keys, err := p.Store.List(ctx, matchesPrefix)
	if err != nil {
		return fmt.Errorf("list bronze prefix %s: %w", matchesPrefix, err)
	}

	dataKeys, manifestKeys := splitKeys(keys)
	if len(dataKeys) == 0 {
		return fmt.Errorf("no matches JSON files found under prefix %s", matchesPrefix)
	}

	latest := dataKeys[len(dataKeys)-1]
	log.Printf("[load] latest matches key: %s", latest)

	if err := p.loadMatches(ctx, latest, "matches_latest"); err != nil {
		return err
	}

	manifestKey := partition.ManifestKeyFor(latest)
	if _, ok := manifestKeys[manifestKey]; !ok {
		log.Printf("[load] warning: manifest not found for latest matches file, expected %s", manifestKey)
		return nil
	}

	if err := p.loadManifest(ctx, manifestKey, partition.Parse(latest)); err != nil {
		return err
	}
	if err := p.Ledger.MarkLoaded(ctx, manifestKey, "matches_latest_manifest"); err != nil {
		return err
	}

	log.Printf("[load] loaded latest matches and manifest into the warehouse")
	return nil
}

// LatestCompetition re-loads the lexicographically last competitions
// snapshot into raw_competitions. Competitions snapshots carry no
// manifest.
func (p *Pass) LatestCompetition(ctx context.Context) error {
	keys, err := p.Store.List(ctx, competitionsPrefix)
	if err != nil {
		return fmt.Errorf("list bronze prefix %s: %w", competitionsPrefix, err)
	}

	dataKeys, _ := splitKeys(keys)
	if len(dataKeys) == 0 {
		return fmt.Errorf("no competitions JSON files found under prefix %s", competitionsPrefix)
	}

	latest := dataKeys[len(dataKeys)-1]
	log.Printf("[load] latest competitions key: %s", latest)

	var payload models.Document
	if err := p.Store.GetJSON(ctx, latest, &payload); err != nil {
		return fmt.Errorf("read bronze object %s: %w", latest, err)
	}

	fields := partition.Parse(latest)
	err = p.Warehouse.UpsertRawCompetitions(ctx, models.CompetitionsRow{
		FileKey: latest,
		RunID:   fields.RunID,
		DT:      fields.DT,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	if err := p.Ledger.MarkLoaded(ctx, latest, "competitions_latest"); err != nil {
		return err
	}

	p.Notify.Loaded(ctx, notify.Event{
		Endpoint:    fields.Endpoint,
		FileKey:     latest,
		Table:       "bronze.raw_competitions",
		RunID:       fields.RunID,
		RecordCount: payload.RecordCount("competitions"),
	})

	log.Printf("[load] loaded latest competitions snapshot into the warehouse")
	return nil
}
