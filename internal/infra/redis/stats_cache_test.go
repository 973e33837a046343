package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"seenjeem-admin/internal/domain"
)

func TestStatsCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{stats: domain.DashboardStats{TotalQuestions: 7, ActiveQuestions: 5}}
	cache := NewStatsCache(newClient(mr), loader, time.Minute)

	stats, err := cache.GetStats(context.Background())
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.ActiveQuestions != 5 {
		t.Fatalf("expected 5 active questions, got %d", stats.ActiveQuestions)
	}
	if !mr.Exists(StatsKey) {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL(StatsKey); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	_, _ = cache.GetStats(context.Background())
	if loader.Calls() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.Calls())
	}
}

func TestStatsCacheInvalidateDeletesKey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{}
	cache := NewStatsCache(newClient(mr), loader, time.Minute)

	_, _ = cache.GetStats(context.Background())
	cache.Invalidate(context.Background())
	if mr.Exists(StatsKey) {
		t.Fatalf("expected redis key to be removed")
	}
	_, _ = cache.GetStats(context.Background())
	if loader.Calls() != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.Calls())
	}
}

func TestStatsCacheInvalidateDuringLoadWins(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{}
	cache := NewStatsCache(newClient(mr), loader, time.Minute)
	invalidated := false
	loader.during = func() {
		if !invalidated {
			invalidated = true
			cache.Invalidate(context.Background())
		}
	}

	if _, err := cache.GetStats(context.Background()); err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if mr.Exists(StatsKey) {
		t.Fatalf("expected counts loaded before the invalidation not to be stored")
	}
	if _, err := cache.GetStats(context.Background()); err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if !mr.Exists(StatsKey) {
		t.Fatalf("expected second load to be stored")
	}
	if loader.Calls() != 2 {
		t.Fatalf("expected reload, loader calls=%d", loader.Calls())
	}
}

func TestStatsCacheFallsBackWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	loader := &countingLoader{stats: domain.DashboardStats{TotalUsers: 2}}
	cache := NewStatsCache(client, loader, time.Minute)

	stats, err := cache.GetStats(context.Background())
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Fatalf("expected loader result, got %+v", stats)
	}
}

type countingLoader struct {
	mu    sync.Mutex
	calls int
	stats domain.DashboardStats
	// during runs inside LoadStats, standing in for a write that lands mid-load.
	during func()
}

func (l *countingLoader) LoadStats(context.Context) (domain.DashboardStats, error) {
	if l.during != nil {
		l.during()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.stats, nil
}

func (l *countingLoader) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
