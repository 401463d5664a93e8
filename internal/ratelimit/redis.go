package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the identifier's counter and stamps the
// window TTL on first increment. Returns the count and the remaining window
// in milliseconds so the decision is made on one atomic round trip.
const fixedWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`

// RedisLimiter implements the fixed-window counter on a shared Redis store
// for multi-instance deployments. Same contract as MemoryLimiter, including
// the window-boundary imprecision.
type RedisLimiter struct {
	client *redis.Client
	config Config
	script *redis.Script
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	if cfg.Requests <= 0 {
		cfg.Requests = DefaultConfig().Requests
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	return &RedisLimiter{
		client: client,
		config: cfg,
		script: redis.NewScript(fixedWindowScript),
	}
}

// Allow checks if a request from the given identifier is allowed.
func (r *RedisLimiter) Allow(ctx context.Context, identifier string) (*Result, error) {
	res, err := r.script.Run(ctx, r.client, []string{r.key(identifier)}, r.config.Window.Milliseconds()).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return nil, fmt.Errorf("unexpected rate limit script reply: %v", res)
	}
	count, _ := values[0].(int64)
	ttlMs, _ := values[1].(int64)

	resetAfter := time.Duration(ttlMs) * time.Millisecond
	if resetAfter < 0 {
		resetAfter = 0
	}

	if int(count) > r.config.Requests {
		return &Result{
			Allowed:    false,
			Remaining:  0,
			ResetAfter: resetAfter,
			Limit:      r.config.Requests,
		}, nil
	}

	return &Result{
		Allowed:    true,
		Remaining:  r.config.Requests - int(count),
		ResetAfter: resetAfter,
		Limit:      r.config.Requests,
	}, nil
}

// Reset clears the rate limit state for an identifier.
func (r *RedisLimiter) Reset(ctx context.Context, identifier string) error {
	if err := r.client.Del(ctx, r.key(identifier)).Err(); err != nil {
		return fmt.Errorf("rate limit reset failed: %w", err)
	}
	return nil
}

// Close releases resources held by the limiter. The Redis client is owned
// by the caller and is not closed here.
func (r *RedisLimiter) Close() error {
	return nil
}

func (r *RedisLimiter) key(identifier string) string {
	return "ratelimit:" + identifier
}
