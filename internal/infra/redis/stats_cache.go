package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"seenjeem-admin/internal/domain"
)

// StatsLoader computes dashboard counts from the backing store.
type StatsLoader interface {
	LoadStats(ctx context.Context) (domain.DashboardStats, error)
}

// StatsKey holds the JSON encoded dashboard counts.
const StatsKey = "admin:stats:dashboard"

// StatsGenKey is bumped by every invalidation. A load that started under an older
// generation does not write its counts back.
const StatsGenKey = "admin:stats:gen"

// StatsCache caches dashboard counts in Redis and falls back to a loader on cache miss.
// The cache is shared between console instances, so an invalidation on one is seen by all.
type StatsCache struct {
	client *redis.Client
	loader StatsLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewStatsCache(client *redis.Client, loader StatsLoader, ttl time.Duration) *StatsCache {
	return &StatsCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *StatsCache) GetStats(ctx context.Context) (domain.DashboardStats, error) {
	if stats, ok := c.cached(ctx); ok {
		return stats, nil
	}

	result, err, _ := c.sf.Do(StatsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if stats, ok := c.cached(ctx); ok {
			return stats, nil
		}

		gen, _ := c.client.Get(ctx, StatsGenKey).Int64()

		stats, err := c.loader.LoadStats(ctx)
		if err != nil {
			return domain.DashboardStats{}, err
		}
		if raw, err := json.Marshal(stats); err == nil {
			_ = c.store(ctx, gen, raw)
		}
		return stats, nil
	})
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return result.(domain.DashboardStats), nil
}

func (c *StatsCache) cached(ctx context.Context) (domain.DashboardStats, bool) {
	raw, err := c.client.Get(ctx, StatsKey).Bytes()
	if err != nil {
		// redis.Nil and transport errors both fall through to the loader.
		return domain.DashboardStats{}, false
	}
	var stats domain.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return domain.DashboardStats{}, false
	}
	return stats, true
}

// store writes raw only if no invalidation happened since gen was read.
func (c *StatsCache) store(ctx context.Context, gen int64, raw []byte) error {
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, StatsGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, StatsKey, raw, c.ttlWithJitter())
			return nil
		})
		return err
	}, StatsGenKey)
}

// Invalidate deletes the cached counts. Failures are ignored; the TTL bounds staleness.
func (c *StatsCache) Invalidate(ctx context.Context) {
	_, _ = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, StatsGenKey)
		pipe.Del(ctx, StatsKey)
		return nil
	})
}

func (c *StatsCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
