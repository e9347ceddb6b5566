package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OnceGuard enforces at-most-once semantics for a keyed action via Redis
// SETNX. The reminder scheduler uses it so a restart within the day cannot
// dispatch a second mail for the same habit.
type OnceGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewOnceGuard(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *OnceGuard {
	return &OnceGuard{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce returns true if this is the first acquisition of the key.
// When Redis is unreachable the action is allowed through: a duplicate
// reminder beats a silently dropped one.
func (g *OnceGuard) AcquireOnce(ctx context.Context, scope, id string) bool {
	key := fmt.Sprintf("once:%s:%s", scope, id)

	ok, err := g.rdb.SetNX(ctx, key, 1, g.ttl).Result()
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("Redis once-guard check failed, allowing action",
				zap.String("scope", scope),
				zap.String("id", id),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && g.logger != nil {
		g.logger.Info("Skipped duplicate action",
			zap.String("scope", scope),
			zap.String("id", id),
			zap.String("key", key),
		)
	}

	return ok
}
