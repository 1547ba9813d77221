// Package notify publishes pipeline events to Redis Streams so downstream
// consumers (silver jobs, dashboards) can react to new bronze objects and
// warehouse loads without polling the bucket.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ingestStream = "bronze.ingest"
	loadStream   = "bronze.load"
)

// Event describes one bronze write or one warehouse load.
type Event struct {
	Type        string    `json:"type"` // "bronze_written" or "warehouse_loaded"
	Endpoint    string    `json:"endpoint"`
	FileKey     string    `json:"file_key"`
	Bucket      string    `json:"bucket,omitempty"`
	Table       string    `json:"table,omitempty"`
	RunID       string    `json:"run_id,omitempty"`
	RecordCount int       `json:"record_count,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher publishes events to Redis Streams. A nil Publisher (or one
// built on a nil client) disables publishing entirely; publish failures are
// logged and never fail the run. The warehouse and bucket stay the source
// of truth.
type Publisher struct {
	redis *redis.Client
}

// NewPublisher creates a Publisher. client may be nil to disable.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{redis: client}
}

// BronzeWritten announces a new bronze object.
func (p *Publisher) BronzeWritten(ctx context.Context, evt Event) {
	evt.Type = "bronze_written"
	p.publish(ctx, ingestStream, evt)
}

// Loaded announces a completed warehouse upsert.
func (p *Publisher) Loaded(ctx context.Context, evt Event) {
	evt.Type = "warehouse_loaded"
	p.publish(ctx, loadStream, evt)
}

func (p *Publisher) publish(ctx context.Context, stream string, evt Event) {
	if p == nil || p.redis == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[notify] marshal event: %v", err)
		return
	}

	err = p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": data,
		},
	}).Err()
	if err != nil {
		log.Printf("[notify] publish to %s failed: %v", stream, err)
	}
}
