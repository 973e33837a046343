package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"seenjeem-admin/internal/domain"
)

// DefaultHistoryLimit bounds how many summaries are kept per import kind.
const DefaultHistoryLimit = 50

// ImportHistory keeps import summaries in one Redis list per kind, newest first:
//
//	LPUSH admin:imports:{kind} {summary json}
type ImportHistory struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

func NewImportHistory(client *redis.Client, limit int, ttl time.Duration) *ImportHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ImportHistory{client: client, limit: limit, ttl: ttl}
}

func (h *ImportHistory) Append(ctx context.Context, summary domain.ImportSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode import summary: %w", err)
	}
	key := h.key(summary.Kind)
	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, int64(h.limit-1))
	if h.ttl > 0 {
		pipe.Expire(ctx, key, h.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append import history: %w", err)
	}
	return nil
}

// List returns up to limit summaries of kind, newest first. An empty kind lists every kind.
func (h *ImportHistory) List(ctx context.Context, kind domain.ImportKind, limit int) ([]domain.ImportSummary, error) {
	kinds := []domain.ImportKind{kind}
	if kind == "" {
		kinds = domain.ImportKinds
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	var out []domain.ImportSummary
	for _, k := range kinds {
		raws, err := h.client.LRange(ctx, h.key(k), 0, stop).Result()
		if err != nil {
			return nil, fmt.Errorf("list import history: %w", err)
		}
		for _, raw := range raws {
			var s domain.ImportSummary
			if err := json.Unmarshal([]byte(raw), &s); err != nil {
				continue
			}
			out = append(out, s)
		}
	}
	if len(kinds) > 1 {
		sort.SliceStable(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (h *ImportHistory) key(kind domain.ImportKind) string {
	return "admin:imports:" + string(kind)
}
