// Package publisher fans finished sync reports out to a Redis stream.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/kansen-app/kansen/internal/pipeline"
)

// DefaultStream is the stream reports are appended to
const DefaultStream = "kansen.sync.reports"

// StreamPublisher publishes month reports to a Redis stream
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewStreamPublisher creates a publisher writing to stream. An empty stream
// name selects DefaultStream.
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		client: client,
		stream: stream,
		maxLen: 10000,
	}
}

// Publish appends one report to the stream
func (p *StreamPublisher) Publish(ctx context.Context, report pipeline.MonthReport) error {
	values, err := reportValues(report)
	if err != nil {
		return err
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing report to %s: %w", p.stream, err)
	}
	return nil
}

func reportValues(report pipeline.MonthReport) (map[string]interface{}, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}

	status := "ok"
	switch {
	case report.Failed():
		status = string(report.Failure)
	case report.Empty:
		status = "empty"
	}

	return map[string]interface{}{
		"data":   string(data),
		"run_id": report.RunID,
		"month":  fmt.Sprintf("%04d-%02d", report.Year, report.Month),
		"status": status,
		"count":  strconv.Itoa(report.Reconciled),
	}, nil
}

// Close closes the Redis connection
func (p *StreamPublisher) Close() error {
	return p.client.Close()
}

// Connect opens a Redis client and verifies it with PING
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}
