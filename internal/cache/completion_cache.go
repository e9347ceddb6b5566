package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CompletionKey is the single cache key covering the whole completion
// history. The full series recomputes and re-caches as one unit on a miss.
const CompletionKey = "habits:completion"

// CompletionTTL bounds how stale a cached series can get; nothing
// invalidates the key on write.
const CompletionTTL = 600 * time.Second

// CompletionCache stores the serialized completion series in Redis.
type CompletionCache struct {
	rdb *redis.Client
}

func NewCompletionCache(rdb *redis.Client) *CompletionCache {
	return &CompletionCache{rdb: rdb}
}

// Get returns the cached payload under key. ok is false on both an absent
// key and a Redis error; the error is returned so callers can log the
// forced-miss fallback.
func (c *CompletionCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetWithTTL stores payload under key with the given expiry.
func (c *CompletionCache) SetWithTTL(ctx context.Context, key, payload string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, payload, ttl).Err()
}
