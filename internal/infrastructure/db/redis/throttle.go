package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter is a fixed-window counter backed by Redis.
// Key format: throttle:<scope>:<key>
type AttemptLimiter struct {
	client *redis.Client
	scope  string
	limit  int64
	window time.Duration
}

// NewAttemptLimiter allows up to limit calls per key within each window.
func NewAttemptLimiter(client *redis.Client, scope string, limit int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, scope: scope, limit: int64(limit), window: window}
}

// Allow records an attempt for key and reports whether it is within the limit.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("throttle %s: %w", l.scope, err)
	}
	return incr.Val() <= l.limit, nil
}

func (l *AttemptLimiter) key(key string) string {
	return fmt.Sprintf("throttle:%s:%s", l.scope, key)
}
