// Package testutil provides in-memory implementations of the pipeline
// contracts for unit tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/XavierBriggs/Hermes/internal/bronze"
	"github.com/XavierBriggs/Hermes/internal/partition"
	"github.com/XavierBriggs/Hermes/pkg/contracts"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

// APICall records one fetch made against FakeAPI.
type APICall struct {
	Path     string
	Code     string
	DateFrom string
	DateTo   string
}

// FakeAPI implements contracts.FootballAPI with canned documents.
type FakeAPI struct {
	CompetitionsDoc models.Document
	MatchesDoc      func(code, dateFrom, dateTo string) models.Document
	Err             error
	Calls           []APICall
}

var _ contracts.FootballAPI = (*FakeAPI)(nil)

func (f *FakeAPI) Competitions(ctx context.Context) (models.Document, error) {
	f.Calls = append(f.Calls, APICall{Path: "/competitions"})
	if f.Err != nil {
		return nil, f.Err
	}
	return f.CompetitionsDoc, nil
}

func (f *FakeAPI) CompetitionMatches(ctx context.Context, code, dateFrom, dateTo string) (models.Document, error) {
	f.Calls = append(f.Calls, APICall{
		Path:     fmt.Sprintf("/competitions/%s/matches", code),
		Code:     code,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if f.Err != nil {
		return nil, f.Err
	}
	if f.MatchesDoc != nil {
		return f.MatchesDoc(code, dateFrom, dateTo), nil
	}
	return models.Document{"matches": []any{}}, nil
}

// MemStore implements contracts.ObjectStore in memory.
type MemStore struct {
	Objects map[string][]byte
}

var _ contracts.ObjectStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{Objects: make(map[string][]byte)}
}

func (m *MemStore) PutJSON(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.Objects[key] = data
	return nil
}

func (m *MemStore) PutManifest(ctx context.Context, dataKey string, manifest models.Manifest) error {
	return m.PutJSON(ctx, partition.ManifestKeyFor(dataKey), manifest)
}

func (m *MemStore) GetJSON(ctx context.Context, key string, out any) error {
	data, ok := m.Objects[key]
	if !ok {
		return bronze.ErrObjectNotFound
	}
	return json.Unmarshal(data, out)
}

func (m *MemStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m.Objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// MemLedger implements contracts.LoadState in memory. MarkCalls counts
// every MarkLoaded invocation, including no-ops.
type MemLedger struct {
	Records   map[string]string // file_key -> endpoint label
	MarkCalls int
}

var _ contracts.LoadState = (*MemLedger)(nil)

func NewMemLedger() *MemLedger {
	return &MemLedger{Records: make(map[string]string)}
}

func (m *MemLedger) AlreadyLoaded(ctx context.Context, prefix string) (map[string]struct{}, error) {
	loaded := make(map[string]struct{})
	for k := range m.Records {
		if strings.HasPrefix(k, prefix) {
			loaded[k] = struct{}{}
		}
	}
	return loaded, nil
}

func (m *MemLedger) MarkLoaded(ctx context.Context, key, endpoint string) error {
	m.MarkCalls++
	if _, ok := m.Records[key]; ok {
		return nil
	}
	m.Records[key] = endpoint
	return nil
}

// RecordingWarehouse implements contracts.Warehouse by appending rows.
type RecordingWarehouse struct {
	Competitions []models.CompetitionsRow
	Matches      []models.MatchesRow
	Manifests    []models.ManifestRow
	Err          error
}

var _ contracts.Warehouse = (*RecordingWarehouse)(nil)

func (w *RecordingWarehouse) UpsertRawCompetitions(ctx context.Context, row models.CompetitionsRow) error {
	if w.Err != nil {
		return w.Err
	}
	w.Competitions = append(w.Competitions, row)
	return nil
}

func (w *RecordingWarehouse) UpsertRawMatches(ctx context.Context, row models.MatchesRow) error {
	if w.Err != nil {
		return w.Err
	}
	w.Matches = append(w.Matches, row)
	return nil
}

func (w *RecordingWarehouse) UpsertRawManifest(ctx context.Context, row models.ManifestRow) error {
	if w.Err != nil {
		return w.Err
	}
	w.Manifests = append(w.Manifests, row)
	return nil
}
