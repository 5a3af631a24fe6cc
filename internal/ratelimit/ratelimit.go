// Package ratelimit provides per-key request limiters. The in-memory limiter
// serves a single process; the redis limiter is shared by every replica.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key is allowed now
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory keeps a token bucket per key and forgets idle keys
type Memory struct {
	limit  rate.Limit
	burst  int
	maxAge time.Duration

	mu    sync.Mutex
	store map[string]*memoryEntry
}

type memoryEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

func NewMemory(perSecond float64, burst int) *Memory {
	return &Memory{
		limit:  rate.Limit(perSecond),
		burst:  burst,
		maxAge: 10 * time.Minute,
		store:  make(map[string]*memoryEntry),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry, ok := m.store[key]
	if !ok {
		for k, e := range m.store {
			if now.Sub(e.updated) > m.maxAge {
				delete(m.store, k)
			}
		}
		entry = &memoryEntry{limiter: rate.NewLimiter(m.limit, m.burst), updated: now}
		m.store[key] = entry
	}
	entry.updated = now
	return entry.limiter.AllowN(now, 1), nil
}

// Redis counts requests per key in fixed windows sized so that burst
// requests fit in one window at the configured rate.
type Redis struct {
	client *redis.Client
	prefix string
	burst  int64
	window time.Duration
}

func NewRedis(client *redis.Client, perSecond float64, burst int) *Redis {
	window := time.Second
	if perSecond > 0 {
		window = time.Duration(math.Ceil(float64(burst)/perSecond)) * time.Second
	}
	return &Redis{client: client, prefix: "ratelimit:", burst: int64(burst), window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis_ratelimit_failed: %w", err)
	}
	return incr.Val() <= r.burst, nil
}
