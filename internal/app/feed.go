package app

import (
	"context"
	"sync"

	"seenjeem-admin/internal/domain"
)

const recentActivityLimit = 20

// Feed fans catalog activity out to live dashboard subscribers.
type Feed struct {
	mu          sync.Mutex
	recent      []domain.Activity
	subscribers map[chan domain.Activity]struct{}
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[chan domain.Activity]struct{})}
}

// Listener adapts the feed to a CatalogService change listener.
func (f *Feed) Listener() ChangeListener {
	return func(_ context.Context, a domain.Activity) { f.Publish(a) }
}

// Publish records the activity and delivers it to every subscriber without blocking.
func (f *Feed) Publish(a domain.Activity) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recent = append(f.recent, a)
	if len(f.recent) > recentActivityLimit {
		f.recent = f.recent[len(f.recent)-recentActivityLimit:]
	}
	for ch := range f.subscribers {
		select {
		case ch <- a:
		default:
			// drop the oldest pending update so a slow reader never blocks writers
			select {
			case <-ch:
			default:
			}
			ch <- a
		}
	}
}

// Recent returns the latest activities, oldest first.
func (f *Feed) Recent() []domain.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Activity, len(f.recent))
	copy(out, f.recent)
	return out
}

// Subscribe returns a channel of future activities. The caller must invoke cancel.
func (f *Feed) Subscribe() (<-chan domain.Activity, func()) {
	ch := make(chan domain.Activity, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers reports how many readers are attached.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
