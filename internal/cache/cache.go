// Package cache provides the shared Redis-backed cache used by the
// dashboard aggregation layer. A cache outage degrades to "always miss":
// reads report absence and writes are logged and dropped, so callers
// always fall through to the database.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/statusdash/statusdash/internal/pkg/ctxlog"
	"github.com/statusdash/statusdash/internal/pkg/metrics"
)

// Cache is a thin facade over a Redis client. Values are JSON-encoded.
// All operations are independent; no ordering is guaranteed across keys.
type Cache struct {
	client *redis.Client
}

// New creates a cache facade around the given client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get loads the value stored under key into dest. The second return is
// false on a miss, on a decode failure, or when the cache is
// unreachable; callers must recompute in all three cases.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.CacheRequests.WithLabelValues(keyFamily(key), "miss").Inc()
			return false
		}
		ctxlog.FromContext(ctx).Warn("cache get failed, treating as miss", "key", key, "error", err)
		metrics.CacheRequests.WithLabelValues(keyFamily(key), "error").Inc()
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		ctxlog.FromContext(ctx).Warn("cache value undecodable, dropping", "key", key, "error", err)
		_ = c.client.Del(ctx, key).Err()
		metrics.CacheRequests.WithLabelValues(keyFamily(key), "error").Inc()
		return false
	}

	metrics.CacheRequests.WithLabelValues(keyFamily(key), "hit").Inc()
	return true
}

// Set stores value under key. A zero ttl means no expiration; eviction
// is then delegated to the cache server. Failures are logged, not returned.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		ctxlog.FromContext(ctx).Error("cache value not encodable", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		ctxlog.FromContext(ctx).Warn("cache set failed", "key", key, "error", err)
	}
}

// Delete removes the given keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		ctxlog.FromContext(ctx).Warn("cache delete failed", "keys", strings.Join(keys, ","), "error", err)
	}
}

// Add stores value under key only if the key does not exist yet.
// Returns true if this call created the key. Used for race-safe
// namespace initialization; an unreachable cache reports false.
func (c *Cache) Add(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		ctxlog.FromContext(ctx).Error("cache value not encodable", "key", key, "error", err)
		return false
	}
	created, err := c.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		ctxlog.FromContext(ctx).Warn("cache add failed", "key", key, "error", err)
		return false
	}
	return created
}

// keyFamily reduces a derived key to its family prefix for metrics,
// e.g. "events_41f..._20240104_20240110" -> "events".
func keyFamily(key string) string {
	if i := strings.IndexByte(key, '_'); i > 0 {
		return key[:i]
	}
	return key
}
