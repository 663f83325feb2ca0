// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills and consumes one bucket atomically.
// KEYS[1] = bucket key
// ARGV[1] = refill rate (tokens per second)
// ARGV[2] = capacity
// ARGV[3] = now (unix seconds, microsecond precision)
// ARGV[4] = key ttl (seconds)
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call("HMGET", key, "tokens", "last_refill")
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if not tokens or not last_refill then
    tokens = capacity
    last_refill = now
end

local elapsed = now - last_refill
if elapsed > 0 then
    tokens = math.min(capacity, tokens + elapsed * rate)
    last_refill = now
end

local allowed = 0
if tokens >= 1 then
    tokens = tokens - 1
    allowed = 1
end

redis.call("HSET", key, "tokens", tokens, "last_refill", last_refill)
redis.call("EXPIRE", key, ttl)

return allowed
`)

// Redis is a token bucket shared by every instance using the same Redis.
type Redis struct {
	client redis.UniversalClient
	prefix string
	rate   float64
	burst  int
	ttl    int
}

// NewRedis allows perMinute requests per key with bursts of burst.
func NewRedis(client redis.UniversalClient, perMinute, burst int) *Redis {
	rate := float64(perMinute) / 60
	if rate <= 0 {
		rate = 1.0 / 60
	}
	// Long enough for an empty bucket to refill completely.
	ttl := int(float64(burst)/rate) + 1

	return &Redis{client: client, prefix: "veo:ratelimit:", rate: rate, burst: burst, ttl: ttl}
}

// Close closes the underlying Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	now := float64(time.Now().UnixMicro()) / 1e6

	allowed, err := tokenBucketScript.Run(ctx, r.client, []string{r.prefix + key}, r.rate, r.burst, now, r.ttl).Int()
	if err != nil {
		return false, fmt.Errorf("redis limiter: %w", err)
	}
	return allowed == 1, nil
}
