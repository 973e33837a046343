package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"seenjeem-admin/internal/domain"
)

// ImportOptions tune a single batch.
type ImportOptions struct {
	// DryRun reconciles every row without writing.
	DryRun bool
	// TrackCreated adds each created entity to the working snapshot so later rows in
	// the same batch see it. When false, duplicates are detected only against the
	// state loaded before the first row.
	TrackCreated bool
}

// RowObserver receives one call per reconciled row.
type RowObserver interface {
	ObserveImportRow(kind domain.ImportKind, outcome domain.RowOutcome)
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImportHistory records every finished batch.
func WithImportHistory(h ImportHistory) ImporterOption {
	return func(im *Importer) { im.history = h }
}

// WithRowObserver reports row outcomes, typically to metrics.
func WithRowObserver(o RowObserver) ImporterOption {
	return func(im *Importer) { im.observer = o }
}

// Importer reconciles spreadsheet rows against the catalog.
type Importer struct {
	catalog  *CatalogService
	history  ImportHistory
	observer RowObserver
}

func NewImporter(catalog *CatalogService, opts ...ImporterOption) *Importer {
	im := &Importer{catalog: catalog}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// snapshot is the catalog state the batch resolves against.
type snapshot struct {
	mains     []domain.MainCategory
	subs      []domain.SubCategory
	questions []domain.Question
}

func (s *snapshot) mainByName(name string) (domain.MainCategory, bool) {
	for _, m := range s.mains {
		if m.NameAr == name {
			return m, true
		}
	}
	return domain.MainCategory{}, false
}

func (s *snapshot) subByName(mainID, name string) (domain.SubCategory, bool) {
	for _, sc := range s.subs {
		if sc.MainCategoryID == mainID && sc.NameAr == name {
			return sc, true
		}
	}
	return domain.SubCategory{}, false
}

func (s *snapshot) questionAt(subID string, points domain.PointTier) (domain.Question, bool) {
	for _, q := range s.questions {
		if q.SubCategoryID == subID && q.Points == points {
			return q, true
		}
	}
	return domain.Question{}, false
}

// Import processes rows in order. A failing row never stops the batch and created rows
// are not rolled back. The returned error is set only when nothing could be processed.
func (im *Importer) Import(ctx context.Context, kind domain.ImportKind, rows []RawRow, opts ImportOptions) (domain.ImportSummary, error) {
	// Once started, a batch runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	snap, err := im.loadSnapshot(ctx, kind)
	if err != nil {
		return domain.ImportSummary{}, fmt.Errorf("load import snapshot: %w", err)
	}

	log := im.catalog.log.WithFields(logrus.Fields{"kind": kind, "rows": len(rows), "dry_run": opts.DryRun})
	log.Info("import started")

	summary := domain.ImportSummary{Kind: kind, DryRun: opts.DryRun, Errors: []string{}, StartedAt: im.catalog.now()}
	for i, row := range rows {
		var res domain.RowResult
		switch kind {
		case domain.ImportMainCategories:
			res = im.importMainCategory(ctx, snap, row, opts)
		case domain.ImportSubCategories:
			res = im.importSubCategory(ctx, snap, row, opts)
		case domain.ImportQuestions:
			res = im.importQuestion(ctx, snap, row, opts)
		}
		res.Row = i + 1
		if res.Outcome == domain.RowErrored {
			log.WithField("row", res.Row).Warn(res.Message)
		}
		if im.observer != nil {
			im.observer.ObserveImportRow(kind, res.Outcome)
		}
		summary.Record(res)
	}
	summary.FinishedAt = im.catalog.now()

	log.WithFields(logrus.Fields{
		"created": summary.SuccessCount,
		"skipped": summary.SkippedCount,
		"errors":  summary.ErrorCount,
	}).Info("import finished")

	if !opts.DryRun {
		if im.history != nil {
			if err := im.history.Append(ctx, summary.WithoutRows()); err != nil {
				log.WithError(err).Warn("record import history failed")
			}
		}
		im.catalog.notify(ctx, "import", string(kind), "",
			fmt.Sprintf("created=%d skipped=%d errors=%d", summary.SuccessCount, summary.SkippedCount, summary.ErrorCount))
	}
	return summary, nil
}

func (im *Importer) loadSnapshot(ctx context.Context, kind domain.ImportKind) (*snapshot, error) {
	snap := &snapshot{}
	var err error
	switch kind {
	case domain.ImportMainCategories, domain.ImportSubCategories, domain.ImportQuestions:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownImportKind, kind)
	}

	if snap.mains, err = im.catalog.categories.ListMainCategories(ctx); err != nil {
		return nil, err
	}
	if kind == domain.ImportMainCategories {
		return snap, nil
	}
	if snap.subs, err = im.catalog.categories.ListSubCategories(ctx, ""); err != nil {
		return nil, err
	}
	if kind == domain.ImportSubCategories {
		return snap, nil
	}
	if snap.questions, err = im.catalog.questions.ListQuestions(ctx, QuestionQuery{}); err != nil {
		return nil, err
	}
	return snap, nil
}

func (im *Importer) importMainCategory(ctx context.Context, snap *snapshot, row RawRow, opts ImportOptions) domain.RowResult {
	name := LooseString(row["name_ar"])
	if existing, ok := snap.mainByName(name); ok {
		return domain.RowResult{Outcome: domain.RowSkipped, ID: existing.ID}
	}

	order, present, err := LooseInt(row["display_order"])
	if err != nil {
		return errored("Row error: display_order: %v", err)
	}
	if !present || order == 0 {
		order = len(snap.mains)
	}
	active := LooseBool(row["is_active"])
	in := MainCategoryInput{
		NameAr:       name,
		DisplayOrder: &order,
		IsActive:     &active,
		MediaURL:     LooseString(row["media_url"]),
	}

	var created domain.MainCategory
	if opts.DryRun {
		if err := validateStruct(im.catalog.validate, in); err != nil {
			return errored("Row error: %v", err)
		}
		created = domain.MainCategory{NameAr: name, DisplayOrder: order, IsActive: active}
	} else {
		created, err = im.catalog.insertMainCategory(ctx, in)
		if err != nil {
			return errored("Row error: %v", err)
		}
	}
	if opts.TrackCreated {
		snap.mains = append(snap.mains, created)
	}
	return domain.RowResult{Outcome: domain.RowCreated, ID: created.ID}
}

func (im *Importer) importSubCategory(ctx context.Context, snap *snapshot, row RawRow, opts ImportOptions) domain.RowResult {
	mainName := LooseString(row["main_category_name_ar"])
	name := LooseString(row["name_ar"])

	main, ok := snap.mainByName(mainName)
	if !ok {
		return errored("Main category %q not found for sub-category %q", mainName, name)
	}
	if existing, ok := snap.subByName(main.ID, name); ok {
		return domain.RowResult{Outcome: domain.RowSkipped, ID: existing.ID}
	}
	mediaURL := LooseString(row["media_url"])
	if mediaURL == "" {
		return errored("Media URL is required for sub-category %q", name)
	}

	order, _, err := LooseInt(row["display_order"])
	if err != nil {
		return errored("Row error: display_order: %v", err)
	}
	active := LooseBool(row["is_active"])
	in := SubCategoryInput{
		MainCategoryID: main.ID,
		NameAr:         name,
		DisplayOrder:   order,
		IsActive:       &active,
		MediaURL:       mediaURL,
	}

	var created domain.SubCategory
	if opts.DryRun {
		if err := validateStruct(im.catalog.validate, in); err != nil {
			return errored("Row error: %v", err)
		}
		created = domain.SubCategory{MainCategoryID: main.ID, NameAr: name}
	} else {
		created, err = im.catalog.insertSubCategory(ctx, in)
		if err != nil {
			return errored("Row error: %v", err)
		}
	}
	if opts.TrackCreated {
		snap.subs = append(snap.subs, created)
	}
	return domain.RowResult{Outcome: domain.RowCreated, ID: created.ID}
}

func (im *Importer) importQuestion(ctx context.Context, snap *snapshot, row RawRow, opts ImportOptions) domain.RowResult {
	mainName := LooseString(row["main_category_name_ar"])
	subName := LooseString(row["sub_category_name_ar"])

	main, ok := snap.mainByName(mainName)
	if !ok {
		return errored("Main category %q not found", mainName)
	}
	sub, ok := snap.subByName(main.ID, subName)
	if !ok {
		return errored("Sub category %q not found in main category %q", subName, mainName)
	}

	raw := row["points"]
	n, _, err := LooseInt(raw)
	points := domain.PointTier(n)
	if err != nil || !points.Valid() {
		return errored("Invalid points value %q for question. Must be 200, 400, or 600", LooseString(raw))
	}
	if existing, ok := snap.questionAt(sub.ID, points); ok {
		return domain.RowResult{Outcome: domain.RowSkipped, ID: existing.ID}
	}

	status := domain.QuestionStatus(LooseString(row["status"]))
	if status == "" {
		status = domain.QuestionActive
	}
	in := QuestionInput{
		SubCategoryID:    sub.ID,
		QuestionTextAr:   LooseString(row["question_text_ar"]),
		AnswerTextAr:     LooseString(row["answer_text_ar"]),
		QuestionMediaURL: LooseString(row["question_media_url"]),
		AnswerMediaURL:   LooseString(row["answer_media_url"]),
		Points:           points,
		Status:           status,
	}

	var created domain.Question
	if opts.DryRun {
		if err := validateStruct(im.catalog.validate, in); err != nil {
			return errored("Question error: %v", err)
		}
		created = domain.Question{SubCategoryID: sub.ID, Points: points}
	} else {
		created, err = im.catalog.insertQuestion(ctx, in)
		if err != nil {
			return errored("Question error: %v", err)
		}
	}
	if opts.TrackCreated {
		snap.questions = append(snap.questions, created)
	}
	return domain.RowResult{Outcome: domain.RowCreated, ID: created.ID}
}

func errored(format string, args ...any) domain.RowResult {
	return domain.RowResult{Outcome: domain.RowErrored, Message: fmt.Sprintf(format, args...)}
}
