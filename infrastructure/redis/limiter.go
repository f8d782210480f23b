// Package redis holds the Redis backed sliding window limiter shared by every server instance.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// slidingWindow trims the set to the window, then admits the call when there is room.
// Members are made unique with a counter so two calls in the same millisecond both count.
var slidingWindow = goredis.NewScript(`
local key = KEYS[1]
local counter_key = KEYS[2]
local now = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window_ms)
if redis.call('ZCARD', key) >= limit then
	return 0
end
local counter = redis.call('INCR', counter_key)
redis.call('ZADD', key, now, now .. ':' .. counter)
redis.call('PEXPIRE', key, window_ms)
redis.call('PEXPIRE', counter_key, window_ms)
return 1
`)

type SlidingWindowLimiter struct {
	client goredis.UniversalClient
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewSlidingWindowLimiter(client goredis.UniversalClient, limit int, window time.Duration, prefix string) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{client: client, limit: limit, window: window, prefix: prefix, now: time.Now}
}

// Allow admits at most limit calls per key over any window long span.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key
	allowed, err := slidingWindow.Run(ctx, l.client, []string{redisKey, redisKey + ":counter"},
		l.now().UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return allowed == 1, nil
}

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
