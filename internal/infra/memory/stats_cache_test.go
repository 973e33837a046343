package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"seenjeem-admin/internal/domain"
)

func TestStatsCacheCaches(t *testing.T) {
	loader := &countingLoader{stats: domain.DashboardStats{TotalQuestions: 3}}
	cache := NewStatsCache(loader, time.Minute)

	stats, err := cache.GetStats(context.Background())
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.TotalQuestions != 3 {
		t.Fatalf("expected 3 questions, got %d", stats.TotalQuestions)
	}
	if _, err := cache.GetStats(context.Background()); err != nil {
		t.Fatalf("get stats 2: %v", err)
	}
	if loader.Calls() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.Calls())
	}
}

func TestStatsCacheExpires(t *testing.T) {
	loader := &countingLoader{}
	cache := NewStatsCache(loader, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	if _, err := cache.GetStats(context.Background()); err != nil {
		t.Fatalf("get stats: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := cache.GetStats(context.Background()); err != nil {
		t.Fatalf("get stats after ttl: %v", err)
	}
	if loader.Calls() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.Calls())
	}
}

func TestStatsCacheInvalidate(t *testing.T) {
	loader := &countingLoader{}
	cache := NewStatsCache(loader, time.Hour)

	if _, err := cache.GetStats(context.Background()); err != nil {
		t.Fatalf("get stats: %v", err)
	}
	cache.Invalidate(context.Background())
	if _, err := cache.GetStats(context.Background()); err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if loader.Calls() != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.Calls())
	}
}

func TestStatsCacheInvalidateDuringLoadWins(t *testing.T) {
	loader := &countingLoader{}
	cache := NewStatsCache(loader, time.Hour)
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
	if _, ok := cache.cached(time.Now()); ok {
		t.Fatalf("expected counts loaded before the invalidation to be dropped")
	}
	if _, err := cache.GetStats(context.Background()); err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if loader.Calls() != 2 {
		t.Fatalf("expected reload after mid-load invalidate, loader calls %d", loader.Calls())
	}
	if _, ok := cache.cached(time.Now()); !ok {
		t.Fatalf("expected second load to be cached")
	}
}

func TestStatsCacheDoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{err: errors.New("boom")}
	cache := NewStatsCache(loader, time.Hour)

	if _, err := cache.GetStats(context.Background()); err == nil {
		t.Fatalf("expected loader error")
	}
	if _, err := cache.GetStats(context.Background()); err == nil {
		t.Fatalf("expected loader error")
	}
	if loader.Calls() != 2 {
		t.Fatalf("expected errors not cached, loader calls %d", loader.Calls())
	}
}

type countingLoader struct {
	mu    sync.Mutex
	calls int
	stats domain.DashboardStats
	err   error
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
	return l.stats, l.err
}

func (l *countingLoader) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
