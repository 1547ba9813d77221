package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/Hermes/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("FOOTBALL_DATA_API_TOKEN", "token")
	t.Setenv("MINIO_ACCESS_KEY", "minio")
	t.Setenv("MINIO_SECRET_KEY", "minio-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.football-data.org/v4", cfg.APIBaseURL)
	assert.Equal(t, "http://localhost:9000", cfg.MinioEndpoint)
	assert.Equal(t, "us-east-1", cfg.MinioRegion)
	assert.Equal(t, "football-bronze", cfg.BronzeBucket)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadReportsEveryMissingVariableAtOnce(t *testing.T) {
	t.Setenv("FOOTBALL_DATA_API_TOKEN", "")
	t.Setenv("MINIO_ACCESS_KEY", "")
	t.Setenv("MINIO_SECRET_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOOTBALL_DATA_API_TOKEN")
	assert.Contains(t, err.Error(), "MINIO_ACCESS_KEY")
	assert.Contains(t, err.Error(), "MINIO_SECRET_KEY")
}

func TestLoadTargets(t *testing.T) {
	t.Setenv("TARGET_COMPETITION_CODES", " PL, SA ,BL1,")

	targets, err := config.LoadTargets()
	require.NoError(t, err)
	assert.Equal(t, []string{"PL", "SA", "BL1"}, targets)
}

func TestLoadTargetsMissing(t *testing.T) {
	t.Setenv("TARGET_COMPETITION_CODES", "")

	_, err := config.LoadTargets()
	require.Error(t, err)
}

func TestLoadBackfill(t *testing.T) {
	t.Setenv("BACKFILL_COMPETITION_CODE", "SA")
	t.Setenv("BACKFILL_START_DATE", "2021-01-01")
	t.Setenv("BACKFILL_END_DATE", "2021-02-15")
	t.Setenv("BACKFILL_CHUNK_DAYS", "14")

	bf, err := config.LoadBackfill()
	require.NoError(t, err)
	assert.Equal(t, "SA", bf.Competition)
	assert.Equal(t, 14, bf.ChunkDays)
	assert.Equal(t, "2021-01-01", bf.Start.Format("2006-01-02"))
	assert.Equal(t, "2021-02-15", bf.End.Format("2006-01-02"))
}

func TestLoadBackfillDefaults(t *testing.T) {
	t.Setenv("BACKFILL_COMPETITION_CODE", "")
	t.Setenv("BACKFILL_START_DATE", "2021-01-01")
	t.Setenv("BACKFILL_END_DATE", "2021-02-15")
	t.Setenv("BACKFILL_CHUNK_DAYS", "")

	bf, err := config.LoadBackfill()
	require.NoError(t, err)
	assert.Equal(t, "PL", bf.Competition)
	assert.Equal(t, 30, bf.ChunkDays)
}

func TestLoadBackfillInvalid(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		chunk   string
		wantAll []string
	}{
		{
			name:    "missing dates",
			wantAll: []string{"BACKFILL_START_DATE", "BACKFILL_END_DATE"},
		},
		{
			name:    "start after end",
			start:   "2021-03-01",
			end:     "2021-01-01",
			wantAll: []string{"BACKFILL_START_DATE must be <= BACKFILL_END_DATE"},
		},
		{
			name:    "chunk too large",
			start:   "2021-01-01",
			end:     "2021-02-15",
			chunk:   "61",
			wantAll: []string{"BACKFILL_CHUNK_DAYS"},
		},
		{
			name:    "chunk too small",
			start:   "2021-01-01",
			end:     "2021-02-15",
			chunk:   "0",
			wantAll: []string{"BACKFILL_CHUNK_DAYS"},
		},
		{
			name:    "unparseable everything",
			start:   "not-a-date",
			end:     "also-not",
			chunk:   "lots",
			wantAll: []string{"BACKFILL_START_DATE", "BACKFILL_END_DATE", "BACKFILL_CHUNK_DAYS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BACKFILL_START_DATE", tt.start)
			t.Setenv("BACKFILL_END_DATE", tt.end)
			t.Setenv("BACKFILL_CHUNK_DAYS", tt.chunk)

			_, err := config.LoadBackfill()
			require.Error(t, err)
			for _, want := range tt.wantAll {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
