// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit throttles login and registration per client.

Memory keeps a golang.org/x/time/rate bucket per key in process. Redis runs
the same token bucket as a Lua script so several instances share one budget:

	var l ratelimit.Limiter = ratelimit.NewMemory(10, 5)
	if cfg.RedisAddr != "" {
		l = ratelimit.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), 10, 5)
	}
	ok, err := l.Allow(ctx, clientIP)
*/
package ratelimit
