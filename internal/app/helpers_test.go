package app_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
	"seenjeem-admin/internal/infra/memory"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// tickingClock returns strictly increasing timestamps so creation order is stable.
func tickingClock() func() time.Time {
	at := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func newCatalog(t *testing.T, store *memory.Store, opts ...app.CatalogOption) *app.CatalogService {
	t.Helper()
	opts = append([]app.CatalogOption{app.WithLogger(quietLogger()), app.WithClock(tickingClock())}, opts...)
	return app.NewCatalogService(store, store, opts...)
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func tierPtr(p domain.PointTier) *domain.PointTier { return &p }

func mustMain(t *testing.T, c *app.CatalogService, name string) domain.MainCategory {
	t.Helper()
	m, err := c.CreateMainCategory(context.Background(), app.MainCategoryInput{NameAr: name})
	require.NoError(t, err)
	return m
}

func mustSub(t *testing.T, c *app.CatalogService, mainID, name string) domain.SubCategory {
	t.Helper()
	sc, err := c.CreateSubCategory(context.Background(), app.SubCategoryInput{
		MainCategoryID: mainID,
		NameAr:         name,
		MediaURL:       "https://cdn.test/" + name + ".png",
	})
	require.NoError(t, err)
	return sc
}

func mustQuestion(t *testing.T, c *app.CatalogService, subID string, points domain.PointTier, text string) domain.Question {
	t.Helper()
	q, err := c.CreateQuestion(context.Background(), app.QuestionInput{
		SubCategoryID:  subID,
		QuestionTextAr: text,
		AnswerTextAr:   "answer to " + text,
		Points:         points,
	})
	require.NoError(t, err)
	return q
}
