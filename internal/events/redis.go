package events

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// ChannelPrefix namespaces event channels on the shared Redis instance.
const ChannelPrefix = "events:"

// Channel returns the Redis channel an event subject is published on.
func Channel(subject string) string {
	return ChannelPrefix + subject
}

// RedisBroker publishes events over Redis pub/sub.
type RedisBroker struct {
	rdb *redis.Client
}

// NewRedisBroker creates a broker using the provided Redis client.
func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

func (b *RedisBroker) Name() string { return "redis" }

func (b *RedisBroker) Publish(ctx context.Context, subject string, data []byte) error {
	if b.rdb == nil {
		return nil
	}
	return b.rdb.Publish(ctx, Channel(subject), data).Err()
}

// Close is a no-op; the client is owned by the cache package.
func (b *RedisBroker) Close() error { return nil }
