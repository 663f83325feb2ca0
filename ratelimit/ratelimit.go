// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed.
// Close releases background work and connections held by the limiter.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// Memory keeps one token bucket per key in process memory.
type Memory struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	stop     chan struct{}
	once     sync.Once
}

// visitor tracks the bucket and last seen time for a key.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemory allows perMinute requests per key with bursts of burst.
// Keys idle for three minutes are forgotten. Close stops the sweeper.
func NewMemory(perMinute, burst int) *Memory {
	m := &Memory{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idle:     3 * time.Minute,
		stop:     make(chan struct{}),
	}
	go m.cleanupVisitors(time.Minute)
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	return m.getVisitor(key).Allow(), nil
}

func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) getVisitor(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, exists := m.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(m.limit, m.burst)
		m.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (m *Memory) cleanupVisitors(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Memory) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.idle {
			delete(m.visitors, key)
		}
	}
}
