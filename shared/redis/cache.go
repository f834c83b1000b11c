package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache is a JSON-backed Redis cache for read model entries of type T.
// A ViewCache built on a nil client misses on every Get and ignores writes.
type ViewCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *ViewCache[T]) enabled() bool {
	return c != nil && c.client != nil
}

func (c *ViewCache[T]) key(id string) string {
	return c.prefix + id
}

// Get returns (nil, false) on a miss, a Redis error or a decode error.
func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			slog.WarnContext(ctx, "view cache read failed", "key", c.key(id), "error", err)
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.WarnContext(ctx, "view cache decode failed", "key", c.key(id), "error", err)
		return nil, false
	}
	return &v, true
}

// Set stores value under id. Write failures are logged, not returned.
func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T) {
	if !c.enabled() || value == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.ErrorContext(ctx, "view cache encode failed", "key", c.key(id), "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "view cache write failed", "key", c.key(id), "error", err)
	}
}

func (c *ViewCache[T]) Delete(ctx context.Context, id string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		slog.WarnContext(ctx, "view cache delete failed", "key", c.key(id), "error", err)
	}
}
