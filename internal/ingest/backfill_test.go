package ingest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/Hermes/internal/ingest"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestChunksCoverage(t *testing.T) {
	chunks := ingest.Chunks(day("2021-01-01"), day("2021-02-15"), 30)

	require.Len(t, chunks, 2)
	assert.Equal(t, day("2021-01-01"), chunks[0].From)
	assert.Equal(t, day("2021-01-30"), chunks[0].To)
	assert.Equal(t, day("2021-01-31"), chunks[1].From)
	assert.Equal(t, day("2021-02-15"), chunks[1].To)
}

func TestChunksSingleDay(t *testing.T) {
	chunks := ingest.Chunks(day("2021-01-01"), day("2021-01-01"), 30)

	require.Len(t, chunks, 1)
	assert.Equal(t, day("2021-01-01"), chunks[0].From)
	assert.Equal(t, day("2021-01-01"), chunks[0].To)
}

func TestChunksExactMultiple(t *testing.T) {
	// 10 days in 5-day chunks: two chunks, no trailing remainder.
	chunks := ingest.Chunks(day("2021-01-01"), day("2021-01-10"), 5)

	require.Len(t, chunks, 2)
	assert.Equal(t, day("2021-01-05"), chunks[0].To)
	assert.Equal(t, day("2021-01-06"), chunks[1].From)
	assert.Equal(t, day("2021-01-10"), chunks[1].To)
}

func TestChunksContiguousNonOverlapping(t *testing.T) {
	start, end := day("2023-08-01"), day("2024-06-30")
	chunks := ingest.Chunks(start, end, 7)

	require.NotEmpty(t, chunks)
	assert.Equal(t, start, chunks[0].From)
	assert.Equal(t, end, chunks[len(chunks)-1].To)

	for i, c := range chunks {
		assert.False(t, c.From.After(c.To), "chunk %d inverted", i)
		assert.False(t, c.To.After(end), "chunk %d ends after range", i)
		if i > 0 {
			// Each chunk starts the day after the previous one ends.
			assert.Equal(t, chunks[i-1].To.AddDate(0, 0, 1), c.From, "gap before chunk %d", i)
		}
	}
}

func TestChunksStartAfterEnd(t *testing.T) {
	assert.Empty(t, ingest.Chunks(day("2021-02-01"), day("2021-01-01"), 30))
}
