package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
	"seenjeem-admin/internal/infra/memory"
)

type importFixture struct {
	store    *memory.Store
	catalog  *app.CatalogService
	importer *app.Importer
	history  *memory.ImportHistory
	main     domain.MainCategory
	sub      domain.SubCategory
}

// newImportFixture seeds Geography/Capitals with a 200 point question.
func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	store := memory.NewStore()
	c := newCatalog(t, store)
	main := mustMain(t, c, "Geography")
	sub := mustSub(t, c, main.ID, "Capitals")
	mustQuestion(t, c, sub.ID, domain.Points200, "Capital of France?")
	history := memory.NewImportHistory(10)
	return &importFixture{
		store:    store,
		catalog:  c,
		importer: app.NewImporter(c, app.WithImportHistory(history)),
		history:  history,
		main:     main,
		sub:      sub,
	}
}

func questionRow(main, sub string, points any) app.RawRow {
	return app.RawRow{
		"main_category_name_ar": main,
		"sub_category_name_ar":  sub,
		"question_text_ar":      fmt.Sprintf("question for %v", points),
		"answer_text_ar":        "answer",
		"points":                points,
	}
}

func TestImportQuestionsMixedBatch(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	summary, err := f.importer.Import(ctx, domain.ImportQuestions, []app.RawRow{
		questionRow("Geography", "Capitals", 200.0),
		questionRow("Geography", "Capitals", "400"),
		questionRow("History", "Wars", 200.0),
	}, app.ImportOptions{})
	require.NoError(t, err)

	require.Equal(t, 1, summary.SuccessCount)
	require.Equal(t, 1, summary.SkippedCount)
	require.Equal(t, 1, summary.ErrorCount)
	require.Equal(t, []string{`row 3: Main category "History" not found`}, summary.Errors)
	require.Equal(t, domain.RowSkipped, summary.Rows[0].Outcome)
	require.Equal(t, domain.RowCreated, summary.Rows[1].Outcome)

	created, err := f.store.FindByTier(ctx, f.sub.ID, domain.Points400)
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, domain.QuestionActive, created[0].Status)

	history, err := f.history.List(ctx, domain.ImportQuestions, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Nil(t, history[0].Rows)
}

func TestImportMainCategorySkipsExistingName(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	summary, err := f.importer.Import(ctx, domain.ImportMainCategories, []app.RawRow{
		{"name_ar": "Geography", "display_order": 5.0},
		{"name_ar": "History", "is_active": "true"},
		{"name_ar": "Science", "is_active": "TRUE"},
	}, app.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.SuccessCount)
	require.Equal(t, 1, summary.SkippedCount)
	require.Equal(t, f.main.ID, summary.Rows[0].ID)

	mains, err := f.store.ListMainCategories(ctx)
	require.NoError(t, err)
	byName := map[string]domain.MainCategory{}
	for _, m := range mains {
		byName[m.NameAr] = m
	}
	require.Len(t, byName, 3)
	require.True(t, byName["History"].IsActive)
	require.False(t, byName["Science"].IsActive, "only the exact string true activates")
	// missing display_order falls back to the snapshot size
	require.Equal(t, 1, byName["History"].DisplayOrder)
}

func TestImportSubCategoryErrors(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	summary, err := f.importer.Import(ctx, domain.ImportSubCategories, []app.RawRow{
		{"main_category_name_ar": "Nowhere", "name_ar": "Ghost", "media_url": "https://cdn.test/g.png"},
		{"main_category_name_ar": "Geography", "name_ar": "Rivers"},
		{"main_category_name_ar": "Geography", "name_ar": "Capitals"},
		{"main_category_name_ar": "Geography", "name_ar": "Mountains", "media_url": "https://cdn.test/m.png"},
	}, app.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, summary.SuccessCount)
	require.Equal(t, 1, summary.SkippedCount)
	require.Equal(t, 2, summary.ErrorCount)
	require.Contains(t, summary.Errors[0], `"Nowhere"`)
	require.Contains(t, summary.Errors[1], "Media URL is required")

	subs, err := f.store.ListSubCategories(ctx, "")
	require.NoError(t, err)
	names := make([]string, 0, len(subs))
	for _, sc := range subs {
		names = append(names, sc.NameAr)
	}
	require.ElementsMatch(t, []string{"Capitals", "Mountains"}, names)
}

func TestImportStaleSnapshotCreatesBothRows(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	rows := []app.RawRow{
		questionRow("Geography", "Capitals", 600.0),
		questionRow("Geography", "Capitals", 600.0),
	}
	summary, err := f.importer.Import(ctx, domain.ImportQuestions, rows, app.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.SuccessCount)
	require.Zero(t, summary.SkippedCount)

	same, err := f.store.FindByTier(ctx, f.sub.ID, domain.Points600)
	require.NoError(t, err)
	require.Len(t, same, 2)
}

func TestImportStaleSnapshotCreatesRepeatedMainCategory(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	summary, err := f.importer.Import(ctx, domain.ImportMainCategories, []app.RawRow{
		{"name_ar": "X"},
		{"name_ar": "X"},
	}, app.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.SuccessCount)
	require.Zero(t, summary.SkippedCount)

	mains, err := f.store.ListMainCategories(ctx)
	require.NoError(t, err)
	named := 0
	for _, m := range mains {
		if m.NameAr == "X" {
			named++
		}
	}
	require.Equal(t, 2, named)
}

type failingMainList struct {
	*memory.Store
}

func (failingMainList) ListMainCategories(context.Context) ([]domain.MainCategory, error) {
	return nil, errors.New("store unavailable")
}

func TestImportSnapshotFailureAbortsBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	c := app.NewCatalogService(failingMainList{store}, store, app.WithLogger(quietLogger()))
	history := memory.NewImportHistory(10)
	rec := outcomeRecorder{}
	im := app.NewImporter(c, app.WithImportHistory(history), app.WithRowObserver(rec))

	summary, err := im.Import(ctx, domain.ImportMainCategories, []app.RawRow{
		{"name_ar": "Geography"},
	}, app.ImportOptions{})
	require.ErrorContains(t, err, "store unavailable")
	require.Empty(t, summary.Rows)
	require.Zero(t, summary.SuccessCount)
	require.Empty(t, rec)

	n, err := store.Count(ctx, app.CollectionMainCategories)
	require.NoError(t, err)
	require.Zero(t, n)

	runs, err := history.List(ctx, "", 0)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestImportTrackCreatedSkipsInBatchRepeats(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	summary, err := f.importer.Import(ctx, domain.ImportQuestions, []app.RawRow{
		questionRow("Geography", "Capitals", 600.0),
		questionRow("Geography", "Capitals", 600.0),
	}, app.ImportOptions{TrackCreated: true})
	require.NoError(t, err)
	require.Equal(t, 1, summary.SuccessCount)
	require.Equal(t, 1, summary.SkippedCount)

	summary, err = f.importer.Import(ctx, domain.ImportMainCategories, []app.RawRow{
		{"name_ar": "Movies"},
		{"name_ar": "Movies"},
	}, app.ImportOptions{TrackCreated: true})
	require.NoError(t, err)
	require.Equal(t, 1, summary.SuccessCount)
	require.Equal(t, 1, summary.SkippedCount)
}

func TestImportDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	summary, err := f.importer.Import(ctx, domain.ImportQuestions, []app.RawRow{
		questionRow("Geography", "Capitals", 400.0),
		{"main_category_name_ar": "Geography", "sub_category_name_ar": "Capitals", "points": 600.0},
	}, app.ImportOptions{DryRun: true})
	require.NoError(t, err)
	require.True(t, summary.DryRun)
	require.Equal(t, 1, summary.SuccessCount)
	require.Equal(t, 1, summary.ErrorCount)
	require.Contains(t, summary.Errors[0], "question_text_ar")

	n, err := f.store.Count(ctx, app.CollectionQuestions)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	history, err := f.history.List(ctx, "", 0)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestImportInvalidPoints(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	summary, err := f.importer.Import(ctx, domain.ImportQuestions, []app.RawRow{
		questionRow("Geography", "Capitals", 300.0),
		questionRow("Geography", "Capitals", "lots"),
	}, app.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.ErrorCount)
	require.Equal(t, `row 1: Invalid points value "300" for question. Must be 200, 400, or 600`, summary.Errors[0])
}

func TestImportCapsReportedErrors(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	rows := make([]app.RawRow, 8)
	for i := range rows {
		rows[i] = app.RawRow{"main_category_name_ar": "Missing", "name_ar": fmt.Sprintf("sub %d", i)}
	}
	summary, err := f.importer.Import(ctx, domain.ImportSubCategories, rows, app.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 8, summary.ErrorCount)
	require.Equal(t, 8, summary.TotalErrors)
	require.Len(t, summary.Errors, domain.MaxReportedErrors)
	require.True(t, strings.HasPrefix(summary.Errors[4], "row 5:"))
	require.Contains(t, summary.Message(), "Showing first 5 errors:")
}

type failingQuestions struct {
	*memory.Store
	failText string
}

func (f failingQuestions) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if q.QuestionTextAr == f.failText {
		return domain.Question{}, errors.New("store unavailable")
	}
	return f.Store.CreateQuestion(ctx, q)
}

func TestImportRowStoreFailureDoesNotStopBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed := newCatalog(t, store)
	main := mustMain(t, seed, "Geography")
	mustSub(t, seed, main.ID, "Capitals")

	c := app.NewCatalogService(store, failingQuestions{Store: store, failText: "question for 200"}, app.WithLogger(quietLogger()))
	im := app.NewImporter(c)

	summary, err := im.Import(ctx, domain.ImportQuestions, []app.RawRow{
		questionRow("Geography", "Capitals", 200.0),
		questionRow("Geography", "Capitals", 400.0),
	}, app.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, summary.ErrorCount)
	require.Equal(t, 1, summary.SuccessCount)
	require.Equal(t, "row 1: Question error: store unavailable", summary.Errors[0])
}

func TestImportUnknownKind(t *testing.T) {
	f := newImportFixture(t)
	_, err := f.importer.Import(context.Background(), domain.ImportKind("games"), nil, app.ImportOptions{})
	require.ErrorIs(t, err, domain.ErrUnknownImportKind)
}

type outcomeRecorder map[domain.RowOutcome]int

func (r outcomeRecorder) ObserveImportRow(_ domain.ImportKind, outcome domain.RowOutcome) {
	r[outcome]++
}

func TestImportReportsRowOutcomes(t *testing.T) {
	f := newImportFixture(t)
	rec := outcomeRecorder{}
	im := app.NewImporter(f.catalog, app.WithRowObserver(rec))

	_, err := im.Import(context.Background(), domain.ImportQuestions, []app.RawRow{
		questionRow("Geography", "Capitals", 200.0),
		questionRow("Geography", "Capitals", 400.0),
		questionRow("Geography", "Nope", 400.0),
	}, app.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, outcomeRecorder{domain.RowSkipped: 1, domain.RowCreated: 1, domain.RowErrored: 1}, rec)
}
