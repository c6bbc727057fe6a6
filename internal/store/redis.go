package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/i474232898/weather-timeline/internal/weather"
)

// RedisPublisher fans built timelines out to widget consumers over a Redis
// stream.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisPublisher creates a publisher writing to stream.
func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = "widget-timelines"
	}
	return &RedisPublisher{client: client, stream: stream}
}

// Publish serializes a timeline and appends it to the stream.
func (p *RedisPublisher) Publish(ctx context.Context, key string, builtAt time.Time, tl weather.Timeline) error {
	data, err := json.Marshal(map[string]interface{}{
		"widget":   key,
		"builtAt":  builtAt,
		"timeline": tl,
	})
	if err != nil {
		return fmt.Errorf("serialize timeline for %s: %w", key, err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{"widget": key, "data": string(data)},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish timeline for %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
