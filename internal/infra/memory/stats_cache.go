package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"seenjeem-admin/internal/domain"
)

// StatsLoader computes dashboard counts from the backing store.
type StatsLoader interface {
	LoadStats(ctx context.Context) (domain.DashboardStats, error)
}

// StatsCache caches dashboard counts with TTL to avoid six count queries per page view.
type StatsCache struct {
	loader StatsLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	entry *cachedStats
	// gen is bumped by Invalidate; a load started under an older gen is not stored.
	gen uint64
}

type cachedStats struct {
	stats     domain.DashboardStats
	expiresAt time.Time
}

const statsKey = "dashboard"

func NewStatsCache(loader StatsLoader, ttl time.Duration) *StatsCache {
	return &StatsCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *StatsCache) cached(now time.Time) (domain.DashboardStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry != nil && c.entry.expiresAt.After(now) {
		return c.entry.stats, true
	}
	return domain.DashboardStats{}, false
}

func (c *StatsCache) GetStats(ctx context.Context) (domain.DashboardStats, error) {
	if stats, ok := c.cached(c.clock()); ok {
		return stats, nil
	}

	result, err, _ := c.sf.Do(statsKey, func() (interface{}, error) {
		now := c.clock()
		if stats, ok := c.cached(now); ok {
			return stats, nil
		}

		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		stats, err := c.loader.LoadStats(ctx)
		if err != nil {
			return domain.DashboardStats{}, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.entry = &cachedStats{stats: stats, expiresAt: now.Add(c.ttlWithJitter())}
		}
		c.mu.Unlock()
		return stats, nil
	})
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return result.(domain.DashboardStats), nil
}

// Invalidate drops the cached counts so the next read reloads them.
func (c *StatsCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	c.entry = nil
	c.gen++
	c.mu.Unlock()
}

func (c *StatsCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
