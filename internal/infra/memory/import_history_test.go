package memory

import (
	"context"
	"testing"
	"time"

	"seenjeem-admin/internal/domain"
)

func TestImportHistoryNewestFirstAndBounded(t *testing.T) {
	h := NewImportHistory(2)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		err := h.Append(ctx, domain.ImportSummary{
			Kind:         domain.ImportQuestions,
			SuccessCount: i,
			FinishedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := h.List(ctx, domain.ImportQuestions, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 kept summaries, got %d", len(got))
	}
	if got[0].SuccessCount != 3 || got[1].SuccessCount != 2 {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestImportHistoryAllKinds(t *testing.T) {
	h := NewImportHistory(0)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = h.Append(ctx, domain.ImportSummary{Kind: domain.ImportMainCategories, FinishedAt: base})
	_ = h.Append(ctx, domain.ImportSummary{Kind: domain.ImportQuestions, FinishedAt: base.Add(time.Hour)})

	got, err := h.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Kind != domain.ImportQuestions {
		t.Fatalf("expected newest questions batch, got %+v", got)
	}
}
