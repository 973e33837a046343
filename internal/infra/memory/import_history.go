package memory

import (
	"context"
	"sort"
	"sync"

	"seenjeem-admin/internal/domain"
)

// DefaultHistoryLimit bounds how many summaries are kept per import kind.
const DefaultHistoryLimit = 50

// ImportHistory is an in-memory implementation of app.ImportHistory.
type ImportHistory struct {
	mu      sync.RWMutex
	limit   int
	batches map[domain.ImportKind][]domain.ImportSummary
}

func NewImportHistory(limit int) *ImportHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ImportHistory{
		limit:   limit,
		batches: make(map[domain.ImportKind][]domain.ImportSummary),
	}
}

// Append stores the summary newest first, dropping the oldest beyond the limit.
func (h *ImportHistory) Append(_ context.Context, summary domain.ImportSummary) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := append([]domain.ImportSummary{summary}, h.batches[summary.Kind]...)
	if len(list) > h.limit {
		list = list[:h.limit]
	}
	h.batches[summary.Kind] = list
	return nil
}

// List returns up to limit summaries of kind, newest first. An empty kind lists every kind.
func (h *ImportHistory) List(_ context.Context, kind domain.ImportKind, limit int) ([]domain.ImportSummary, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []domain.ImportSummary
	if kind != "" {
		out = append(out, h.batches[kind]...)
	} else {
		for _, k := range domain.ImportKinds {
			out = append(out, h.batches[k]...)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
