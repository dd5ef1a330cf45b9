package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// hitScript increments the window counter and arms its expiry on the first hit.
// Returns {count, pttl}.
var hitScript = goredis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RedisOptions configures a RedisLimiter
type RedisOptions struct {
	Addr     string
	Prefix   string
	Settings Settings
}

// RedisLimiter shares windows between server instances through Redis
type RedisLimiter struct {
	rdb      *goredis.Client
	prefix   string
	settings Settings
}

// NewRedisLimiter connects to Redis and verifies the connection
func NewRedisLimiter(ctx context.Context, opts RedisOptions) (*RedisLimiter, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("redis rate limiter: missing address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisLimiterFromClient(rdb, opts.Prefix, opts.Settings), nil
}

// NewRedisLimiterFromClient wraps an existing client
func NewRedisLimiterFromClient(rdb *goredis.Client, prefix string, settings Settings) *RedisLimiter {
	if prefix == "" {
		prefix = "paperforge:ratelimit:"
	}
	return &RedisLimiter{
		rdb:      rdb,
		prefix:   prefix,
		settings: settings.normalized(),
	}
}

// Allow records a hit for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := hitScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.settings.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{Allowed: true, Limit: l.settings.MaxRequests}, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) != 2 {
		return Decision{Allowed: true, Limit: l.settings.MaxRequests}, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if ttl < 0 {
		ttl = l.settings.Window
	}

	remaining := l.settings.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= l.settings.MaxRequests,
		Limit:     l.settings.MaxRequests,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// Close releases the Redis connection
func (l *RedisLimiter) Close() error {
	return l.rdb.Close()
}
