package models

import "time"

// Document is a raw JSON payload as returned by the API. Payloads are kept
// verbatim all the way into the warehouse; nothing in the pipeline depends
// on their inner shape beyond the named top-level array.
type Document map[string]any

// RecordCount returns the length of the named top-level array in a payload
// (e.g. "matches" or "competitions"), or 0 when the field is absent or not
// an array.
func (d Document) RecordCount(field string) int {
	arr, ok := d[field].([]any)
	if !ok {
		return 0
	}
	return len(arr)
}

// ManifestParams holds the query window a bronze object was fetched with.
type ManifestParams struct {
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
}

// Manifest is the sidecar record written next to every windowed bronze
// object. It describes provenance: which run produced the object, what was
// asked of the API, and where the data object lives.
type Manifest struct {
	RunID        string         `json:"run_id"`
	Endpoint     string         `json:"endpoint"`
	Competition  string         `json:"competition,omitempty"`
	Params       ManifestParams `json:"params"`
	DTPartition  string         `json:"dt_partition"`
	FetchedAtUTC time.Time      `json:"fetched_at_utc"`
	RecordCount  int            `json:"record_count"`
	Bucket       string         `json:"bucket"`
	DataKey      string         `json:"data_key"`
}

// CompetitionsRow is one warehouse row for the raw_competitions table.
type CompetitionsRow struct {
	FileKey string
	RunID   string
	DT      string
	Payload Document
}

// MatchesRow is one warehouse row for the raw_matches table. Dimensional
// fields are parsed from the bronze key; empty strings mean the field was
// not present in the key and land as NULL.
type MatchesRow struct {
	FileKey         string
	CompetitionCode string
	DateFrom        string
	DateTo          string
	RunID           string
	DT              string
	Payload         Document
}

// ManifestRow is one warehouse row for the raw_manifests table.
type ManifestRow struct {
	FileKey  string
	Endpoint string
	RunID    string
	DT       string
	Manifest Document
}
