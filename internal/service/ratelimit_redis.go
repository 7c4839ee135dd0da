package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisLimiterTimeout = 250 * time.Millisecond

// RedisLimiter is a fixed-window counter shared by every server instance
// pointed at the same Redis. Redis failures fail open.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewRedisLimiter connects to Redis and verifies the connection.
func NewRedisLimiter(ctx context.Context, opts *redis.Options, limit int, window time.Duration) (*RedisLimiter, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return newRedisLimiter(client, limit, window), nil
}

func newRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		client: client,
		prefix: "devconnect:ratelimit:",
		limit:  int64(limit),
		window: window,
	}
}

// Allow increments the counter for key and reports whether it is still within the limit.
func (rl *RedisLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisLimiterTimeout)
	defer cancel()

	// SET NX EX opens the window with its expiry in the same transaction as INCR.
	redisKey := rl.prefix + key
	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, redisKey, 0, rl.window)
		incr = pipe.Incr(ctx, redisKey)
		return nil
	})
	if err != nil {
		slog.Error("redis rate limiter", "op", "tx", "error", err)
		return true
	}
	return incr.Val() <= rl.limit
}

// Close releases the Redis connection pool.
func (rl *RedisLimiter) Close() {
	if err := rl.client.Close(); err != nil {
		slog.Error("close redis", "error", err)
	}
}
