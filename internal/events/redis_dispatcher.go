package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisDispatcher pushes events onto a Redis list consumed by the
// notification worker.
type RedisDispatcher struct {
	client   *redis.Client
	queueKey string
}

// NewRedisDispatcher creates a queue-backed dispatcher.
func NewRedisDispatcher(client *redis.Client, queueKey string) *RedisDispatcher {
	return &RedisDispatcher{client: client, queueKey: queueKey}
}

// Publish serializes the event and enqueues it.
func (d *RedisDispatcher) Publish(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return d.client.LPush(ctx, d.queueKey, raw).Err()
}
