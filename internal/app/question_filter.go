package app

import (
	"context"
	"strings"

	"seenjeem-admin/internal/domain"
)

// QuestionFilter is the compound filter of the question list. Zero values match everything.
type QuestionFilter struct {
	MainCategoryID string
	SubCategoryID  string
	Points         domain.PointTier
	Status         domain.QuestionStatus
	Search         string
}

// ListQuestions fetches questions narrowed by points and status, joins their categories, and
// applies the remaining filters in memory.
func (s *CatalogService) ListQuestions(ctx context.Context, f QuestionFilter) ([]domain.QuestionView, error) {
	questions, err := s.questions.ListQuestions(ctx, QuestionQuery{Points: f.Points, Status: f.Status})
	if err != nil {
		return nil, err
	}
	subs, err := s.categories.ListSubCategories(ctx, "")
	if err != nil {
		return nil, err
	}
	mains, err := s.categories.ListMainCategories(ctx)
	if err != nil {
		return nil, err
	}
	return FilterQuestions(JoinQuestions(questions, subs, mains), f), nil
}

// JoinQuestions attaches sub-category and main category names to each question.
func JoinQuestions(questions []domain.Question, subs []domain.SubCategory, mains []domain.MainCategory) []domain.QuestionView {
	subByID := make(map[string]domain.SubCategory, len(subs))
	for _, sc := range subs {
		subByID[sc.ID] = sc
	}
	mainNames := make(map[string]string, len(mains))
	for _, m := range mains {
		mainNames[m.ID] = m.NameAr
	}

	views := make([]domain.QuestionView, 0, len(questions))
	for _, q := range questions {
		v := domain.QuestionView{Question: q}
		if sc, ok := subByID[q.SubCategoryID]; ok {
			v.SubCategoryName = sc.NameAr
			v.MainCategoryID = sc.MainCategoryID
			v.MainCategoryName = mainNames[sc.MainCategoryID]
		}
		views = append(views, v)
	}
	return views
}

// FilterQuestions applies every filter field to already joined questions, preserving order.
func FilterQuestions(views []domain.QuestionView, f QuestionFilter) []domain.QuestionView {
	search := strings.ToLower(f.Search)
	out := make([]domain.QuestionView, 0, len(views))
	for _, v := range views {
		if f.Points != 0 && v.Points != f.Points {
			continue
		}
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.SubCategoryID != "" && v.SubCategoryID != f.SubCategoryID {
			continue
		}
		if f.MainCategoryID != "" && v.MainCategoryID != f.MainCategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(v.QuestionTextAr), search) &&
			!strings.Contains(strings.ToLower(v.AnswerTextAr), search) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// SubCategoryCoverage reports how many questions a sub-category holds at each tier.
func (s *CatalogService) SubCategoryCoverage(ctx context.Context, subCategoryID string) (map[domain.PointTier]int, error) {
	views, err := s.ListQuestions(ctx, QuestionFilter{SubCategoryID: subCategoryID})
	if err != nil {
		return nil, err
	}
	return TierCoverage(views, subCategoryID), nil
}

// TierCoverage counts questions per tier for a sub-category.
func TierCoverage(questions []domain.QuestionView, subCategoryID string) map[domain.PointTier]int {
	coverage := map[domain.PointTier]int{domain.Points200: 0, domain.Points400: 0, domain.Points600: 0}
	for _, q := range questions {
		if q.SubCategoryID == subCategoryID {
			coverage[q.Points]++
		}
	}
	return coverage
}
