package auth

import (
	"context"
	"time"

	"auth-api/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per key (username). Allow reports
// whether another attempt may proceed.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLoginLimiter counts attempts in a fixed window shared across all API
// instances. Attempts are not refunded on success; the window expires.
type RedisLoginLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLoginLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return utils.AllowInWindow(ctx, l.rdb, "login_attempts:"+key, l.limit, l.window)
}
