// Package partition implements the bronze key grammar. Keys are
// load-bearing: loaders and listing tools depend on the exact segment names
// and ordering (endpoint=, competition=, dateFrom=, dateTo=, dt=, run_id=).
package partition

import (
	"regexp"
	"strings"
)

const (
	dataSuffix     = ".json"
	manifestSuffix = ".manifest.json"
)

// Fields is the typed decomposition of a bronze key. Endpoint, DT and RunID
// are always present in a well-formed key; the dimensional fields are
// optional and empty when the key does not carry them.
type Fields struct {
	Endpoint    string
	Competition string
	DateFrom    string
	DateTo      string
	DT          string
	RunID       string
}

// DataKey encodes the fields into a data object key. Optional segments are
// emitted only when set, always in grammar order.
func (f Fields) DataKey() string {
	var b strings.Builder
	b.WriteString("endpoint=" + f.Endpoint + "/")
	if f.Competition != "" {
		b.WriteString("competition=" + f.Competition + "/")
	}
	if f.DateFrom != "" {
		b.WriteString("dateFrom=" + f.DateFrom + "/")
	}
	if f.DateTo != "" {
		b.WriteString("dateTo=" + f.DateTo + "/")
	}
	b.WriteString("dt=" + f.DT + "/")
	b.WriteString("run_id=" + f.RunID + dataSuffix)
	return b.String()
}

// ManifestKey encodes the fields into the sibling manifest key.
func (f Fields) ManifestKey() string {
	return ManifestKeyFor(f.DataKey())
}

// ManifestKeyFor derives the manifest key from a data key by swapping the
// .json suffix for .manifest.json. This is the only transformation loaders
// may rely on.
func ManifestKeyFor(dataKey string) string {
	return strings.TrimSuffix(dataKey, dataSuffix) + manifestSuffix
}

// IsManifestKey reports whether key names a manifest object.
func IsManifestKey(key string) bool {
	return strings.HasSuffix(key, manifestSuffix)
}

// IsDataKey reports whether key names a data object.
func IsDataKey(key string) bool {
	return strings.HasSuffix(key, dataSuffix) && !IsManifestKey(key)
}

var (
	endpointRe    = regexp.MustCompile(`^endpoint=([^/]+)/`)
	competitionRe = regexp.MustCompile(`competition=([^/]+)/`)
	dateFromRe    = regexp.MustCompile(`dateFrom=(\d{4}-\d{2}-\d{2})`)
	dateToRe      = regexp.MustCompile(`dateTo=(\d{4}-\d{2}-\d{2})`)
	dtRe          = regexp.MustCompile(`dt=(\d{4}-\d{2}-\d{2})`)
	runIDRe       = regexp.MustCompile(`run_id=([0-9a-f-]+)\.(?:manifest\.)?json$`)
)

// Parse recovers every field present in key. Absent segments decode to the
// empty string; Parse never errors and never fabricates a field the key
// does not carry.
func Parse(key string) Fields {
	var f Fields
	if m := endpointRe.FindStringSubmatch(key); m != nil {
		f.Endpoint = m[1]
	}
	if m := competitionRe.FindStringSubmatch(key); m != nil {
		f.Competition = m[1]
	}
	if m := dateFromRe.FindStringSubmatch(key); m != nil {
		f.DateFrom = m[1]
	}
	if m := dateToRe.FindStringSubmatch(key); m != nil {
		f.DateTo = m[1]
	}
	if m := dtRe.FindStringSubmatch(key); m != nil {
		f.DT = m[1]
	}
	if m := runIDRe.FindStringSubmatch(key); m != nil {
		f.RunID = m[1]
	}
	return f
}
