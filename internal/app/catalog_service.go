package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"seenjeem-admin/internal/domain"
)

// MainCategoryInput creates a main category. Nil pointers take defaults.
type MainCategoryInput struct {
	NameAr       string `json:"name_ar" validate:"required"`
	DisplayOrder *int   `json:"display_order" validate:"omitempty,gte=0"`
	IsActive     *bool  `json:"is_active"`
	MediaURL     string `json:"media_url"`
}

// MainCategoryPatch updates the fields that are set.
type MainCategoryPatch struct {
	NameAr       *string `json:"name_ar" validate:"omitempty,min=1"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"is_active"`
	MediaURL     *string `json:"media_url"`
}

// SubCategoryInput creates a sub-category. Media is mandatory.
type SubCategoryInput struct {
	MainCategoryID string `json:"main_category_id" validate:"required"`
	NameAr         string `json:"name_ar" validate:"required"`
	DisplayOrder   int    `json:"display_order" validate:"gte=0"`
	IsActive       *bool  `json:"is_active"`
	MediaURL       string `json:"media_url" validate:"required"`
}

// SubCategoryPatch updates the fields that are set. Media cannot be cleared.
type SubCategoryPatch struct {
	MainCategoryID *string `json:"main_category_id" validate:"omitempty,min=1"`
	NameAr         *string `json:"name_ar" validate:"omitempty,min=1"`
	DisplayOrder   *int    `json:"display_order" validate:"omitempty,gte=0"`
	IsActive       *bool   `json:"is_active"`
	MediaURL       *string `json:"media_url" validate:"omitempty,min=1"`
}

// QuestionInput creates a question. Status defaults to active.
type QuestionInput struct {
	SubCategoryID    string                `json:"sub_category_id" validate:"required"`
	QuestionTextAr   string                `json:"question_text_ar" validate:"required"`
	AnswerTextAr     string                `json:"answer_text_ar" validate:"required"`
	QuestionMediaURL string                `json:"question_media_url"`
	AnswerMediaURL   string                `json:"answer_media_url"`
	Points           domain.PointTier      `json:"points" validate:"oneof=200 400 600"`
	Status           domain.QuestionStatus `json:"status" validate:"omitempty,oneof=active disabled draft"`
}

// QuestionPatch updates the fields that are set.
type QuestionPatch struct {
	SubCategoryID    *string                `json:"sub_category_id" validate:"omitempty,min=1"`
	QuestionTextAr   *string                `json:"question_text_ar" validate:"omitempty,min=1"`
	AnswerTextAr     *string                `json:"answer_text_ar" validate:"omitempty,min=1"`
	QuestionMediaURL *string                `json:"question_media_url"`
	AnswerMediaURL   *string                `json:"answer_media_url"`
	Points           *domain.PointTier      `json:"points" validate:"omitempty,oneof=200 400 600"`
	Status           *domain.QuestionStatus `json:"status" validate:"omitempty,oneof=active disabled draft"`
}

func (p QuestionPatch) apply(q domain.Question) domain.Question {
	if p.SubCategoryID != nil {
		q.SubCategoryID = *p.SubCategoryID
	}
	if p.QuestionTextAr != nil {
		q.QuestionTextAr = *p.QuestionTextAr
	}
	if p.AnswerTextAr != nil {
		q.AnswerTextAr = *p.AnswerTextAr
	}
	if p.QuestionMediaURL != nil {
		q.QuestionMediaURL = *p.QuestionMediaURL
	}
	if p.AnswerMediaURL != nil {
		q.AnswerMediaURL = *p.AnswerMediaURL
	}
	if p.Points != nil {
		q.Points = *p.Points
	}
	if p.Status != nil {
		q.Status = *p.Status
	}
	return q
}

// ChangeListener is notified after every successful catalog write.
type ChangeListener func(ctx context.Context, activity domain.Activity)

// CatalogOption configures a CatalogService.
type CatalogOption func(*CatalogService)

// WithUpdateGuard selects the duplicate re-check policy for question updates.
func WithUpdateGuard(g UpdateGuard) CatalogOption {
	return func(s *CatalogService) { s.guard = g }
}

// WithChangeListener registers a listener for catalog writes.
func WithChangeListener(l ChangeListener) CatalogOption {
	return func(s *CatalogService) { s.listeners = append(s.listeners, l) }
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) CatalogOption {
	return func(s *CatalogService) { s.now = now }
}

// WithLogger sets the logger used for write events.
func WithLogger(log logrus.FieldLogger) CatalogOption {
	return func(s *CatalogService) { s.log = log }
}

// CatalogService owns categories and questions and enforces the one-question-per-tier rule.
type CatalogService struct {
	categories CategoryRepository
	questions  QuestionRepository
	validate   *validator.Validate
	guard      UpdateGuard
	listeners  []ChangeListener
	now        func() time.Time
	log        logrus.FieldLogger

	// tierMu serializes the duplicate check with the write that follows it.
	tierMu sync.Mutex
}

func NewCatalogService(categories CategoryRepository, questions QuestionRepository, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		categories: categories,
		questions:  questions,
		validate:   newValidator(),
		guard:      GuardEffectiveTier,
		now:        time.Now,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListMainCategories returns main categories in display order.
func (s *CatalogService) ListMainCategories(ctx context.Context) ([]domain.MainCategory, error) {
	return s.categories.ListMainCategories(ctx)
}

// CreateMainCategory persists a new main category. DisplayOrder defaults to the current count.
func (s *CatalogService) CreateMainCategory(ctx context.Context, in MainCategoryInput) (domain.MainCategory, error) {
	if in.DisplayOrder == nil {
		existing, err := s.categories.ListMainCategories(ctx)
		if err != nil {
			return domain.MainCategory{}, fmt.Errorf("list main categories: %w", err)
		}
		order := len(existing)
		in.DisplayOrder = &order
	}
	created, err := s.insertMainCategory(ctx, in)
	if err != nil {
		return domain.MainCategory{}, err
	}
	s.notify(ctx, "main-category", "created", created.ID, created.NameAr)
	return created, nil
}

func (s *CatalogService) insertMainCategory(ctx context.Context, in MainCategoryInput) (domain.MainCategory, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return domain.MainCategory{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	order := 0
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	}
	now := s.now()
	return s.categories.CreateMainCategory(ctx, domain.MainCategory{
		NameAr:       in.NameAr,
		DisplayOrder: order,
		IsActive:     active,
		Status:       domain.CategoryStatusFor(active),
		MediaURL:     in.MediaURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// UpdateMainCategory applies a patch to a main category.
func (s *CatalogService) UpdateMainCategory(ctx context.Context, id string, patch MainCategoryPatch) (domain.MainCategory, error) {
	if err := validateStruct(s.validate, patch); err != nil {
		return domain.MainCategory{}, err
	}
	current, err := s.categories.GetMainCategory(ctx, id)
	if err != nil {
		return domain.MainCategory{}, err
	}
	if patch.NameAr != nil {
		current.NameAr = *patch.NameAr
	}
	if patch.DisplayOrder != nil {
		current.DisplayOrder = *patch.DisplayOrder
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
		current.Status = domain.CategoryStatusFor(current.IsActive)
	}
	if patch.MediaURL != nil {
		current.MediaURL = *patch.MediaURL
	}
	current.UpdatedAt = s.now()
	updated, err := s.categories.UpdateMainCategory(ctx, current)
	if err != nil {
		return domain.MainCategory{}, err
	}
	s.notify(ctx, "main-category", "updated", updated.ID, updated.NameAr)
	return updated, nil
}

// ToggleMainCategory flips the active flag and its mirrored status.
func (s *CatalogService) ToggleMainCategory(ctx context.Context, id string) (domain.MainCategory, error) {
	current, err := s.categories.GetMainCategory(ctx, id)
	if err != nil {
		return domain.MainCategory{}, err
	}
	active := !current.IsActive
	return s.UpdateMainCategory(ctx, id, MainCategoryPatch{IsActive: &active})
}

// DeleteMainCategory removes a main category document.
func (s *CatalogService) DeleteMainCategory(ctx context.Context, id string) error {
	if err := s.categories.DeleteMainCategory(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, "main-category", "deleted", id, "")
	return nil
}

// ListSubCategories returns sub-categories joined with their main category name.
func (s *CatalogService) ListSubCategories(ctx context.Context, mainCategoryID string) ([]domain.SubCategory, error) {
	subs, err := s.categories.ListSubCategories(ctx, mainCategoryID)
	if err != nil {
		return nil, err
	}
	mains, err := s.categories.ListMainCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(mains))
	for _, m := range mains {
		names[m.ID] = m.NameAr
	}
	for i := range subs {
		subs[i].MainCategoryName = names[subs[i].MainCategoryID]
	}
	return subs, nil
}

// CreateSubCategory persists a sub-category under an existing main category.
func (s *CatalogService) CreateSubCategory(ctx context.Context, in SubCategoryInput) (domain.SubCategory, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return domain.SubCategory{}, err
	}
	if _, err := s.categories.GetMainCategory(ctx, in.MainCategoryID); err != nil {
		return domain.SubCategory{}, mainCategoryRef(err)
	}
	created, err := s.insertSubCategory(ctx, in)
	if err != nil {
		return domain.SubCategory{}, err
	}
	s.notify(ctx, "sub-category", "created", created.ID, created.NameAr)
	return created, nil
}

func (s *CatalogService) insertSubCategory(ctx context.Context, in SubCategoryInput) (domain.SubCategory, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return domain.SubCategory{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := s.now()
	return s.categories.CreateSubCategory(ctx, domain.SubCategory{
		MainCategoryID: in.MainCategoryID,
		NameAr:         in.NameAr,
		DisplayOrder:   in.DisplayOrder,
		IsActive:       active,
		MediaURL:       in.MediaURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// UpdateSubCategory applies a patch to a sub-category.
func (s *CatalogService) UpdateSubCategory(ctx context.Context, id string, patch SubCategoryPatch) (domain.SubCategory, error) {
	if err := validateStruct(s.validate, patch); err != nil {
		return domain.SubCategory{}, err
	}
	current, err := s.categories.GetSubCategory(ctx, id)
	if err != nil {
		return domain.SubCategory{}, err
	}
	if patch.MainCategoryID != nil && *patch.MainCategoryID != current.MainCategoryID {
		if _, err := s.categories.GetMainCategory(ctx, *patch.MainCategoryID); err != nil {
			return domain.SubCategory{}, mainCategoryRef(err)
		}
		current.MainCategoryID = *patch.MainCategoryID
	}
	if patch.NameAr != nil {
		current.NameAr = *patch.NameAr
	}
	if patch.DisplayOrder != nil {
		current.DisplayOrder = *patch.DisplayOrder
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}
	if patch.MediaURL != nil {
		current.MediaURL = *patch.MediaURL
	}
	current.UpdatedAt = s.now()
	updated, err := s.categories.UpdateSubCategory(ctx, current)
	if err != nil {
		return domain.SubCategory{}, err
	}
	s.notify(ctx, "sub-category", "updated", updated.ID, updated.NameAr)
	return updated, nil
}

// ToggleSubCategory flips the active flag.
func (s *CatalogService) ToggleSubCategory(ctx context.Context, id string) (domain.SubCategory, error) {
	current, err := s.categories.GetSubCategory(ctx, id)
	if err != nil {
		return domain.SubCategory{}, err
	}
	active := !current.IsActive
	return s.UpdateSubCategory(ctx, id, SubCategoryPatch{IsActive: &active})
}

// DeleteSubCategory removes a sub-category document.
func (s *CatalogService) DeleteSubCategory(ctx context.Context, id string) error {
	if err := s.categories.DeleteSubCategory(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, "sub-category", "deleted", id, "")
	return nil
}

// CheckDuplicate reports whether a question other than excludeID already holds the tier.
func (s *CatalogService) CheckDuplicate(ctx context.Context, subCategoryID string, points domain.PointTier, excludeID string) (bool, error) {
	existing, err := s.questions.FindByTier(ctx, subCategoryID, points)
	if err != nil {
		return false, fmt.Errorf("check duplicate: %w", err)
	}
	for _, q := range existing {
		if excludeID == "" || q.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// CreateQuestion persists a question unless its tier is already taken in the sub-category.
func (s *CatalogService) CreateQuestion(ctx context.Context, in QuestionInput) (domain.Question, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return domain.Question{}, err
	}
	s.tierMu.Lock()
	defer s.tierMu.Unlock()
	dup, err := s.CheckDuplicate(ctx, in.SubCategoryID, in.Points, "")
	if err != nil {
		return domain.Question{}, err
	}
	if dup {
		return domain.Question{}, &domain.DuplicateTierError{SubCategoryID: in.SubCategoryID, Points: in.Points}
	}
	created, err := s.insertQuestion(ctx, in)
	if err != nil {
		return domain.Question{}, err
	}
	s.notify(ctx, "question", "created", created.ID, fmt.Sprintf("%d points", created.Points))
	return created, nil
}

// insertQuestion validates and writes without consulting the tier guard.
func (s *CatalogService) insertQuestion(ctx context.Context, in QuestionInput) (domain.Question, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return domain.Question{}, err
	}
	status := in.Status
	if status == "" {
		status = domain.QuestionActive
	}
	now := s.now()
	return s.questions.CreateQuestion(ctx, domain.Question{
		SubCategoryID:    in.SubCategoryID,
		QuestionTextAr:   in.QuestionTextAr,
		AnswerTextAr:     in.AnswerTextAr,
		QuestionMediaURL: in.QuestionMediaURL,
		AnswerMediaURL:   in.AnswerMediaURL,
		Points:           in.Points,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

// UpdateQuestion applies a patch. Whether the tier rule is re-checked depends on the UpdateGuard.
func (s *CatalogService) UpdateQuestion(ctx context.Context, id string, patch QuestionPatch) (domain.Question, error) {
	if err := validateStruct(s.validate, patch); err != nil {
		return domain.Question{}, err
	}
	s.tierMu.Lock()
	defer s.tierMu.Unlock()
	current, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	next := patch.apply(current)
	if s.guard.requiresCheck(current, patch, next) {
		dup, err := s.CheckDuplicate(ctx, next.SubCategoryID, next.Points, id)
		if err != nil {
			return domain.Question{}, err
		}
		if dup {
			return domain.Question{}, &domain.DuplicateTierError{SubCategoryID: next.SubCategoryID, Points: next.Points}
		}
	}
	next.UpdatedAt = s.now()
	updated, err := s.questions.UpdateQuestion(ctx, next)
	if err != nil {
		return domain.Question{}, err
	}
	s.notify(ctx, "question", "updated", updated.ID, string(updated.Status))
	return updated, nil
}

// ToggleQuestionStatus switches an active question to disabled and anything else to active.
func (s *CatalogService) ToggleQuestionStatus(ctx context.Context, id string) (domain.Question, error) {
	current, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	next := domain.QuestionActive
	if current.Status == domain.QuestionActive {
		next = domain.QuestionDisabled
	}
	return s.UpdateQuestion(ctx, id, QuestionPatch{Status: &next})
}

// DeleteQuestion removes a question document.
func (s *CatalogService) DeleteQuestion(ctx context.Context, id string) error {
	if err := s.questions.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, "question", "deleted", id, "")
	return nil
}

func (s *CatalogService) notify(ctx context.Context, kind, action, id, detail string) {
	activity := domain.Activity{Kind: kind, Action: action, EntityID: id, Detail: detail, At: s.now()}
	s.log.WithFields(logrus.Fields{"kind": kind, "action": action, "id": id}).Debug("catalog change")
	for _, l := range s.listeners {
		l(ctx, activity)
	}
}

func mainCategoryRef(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("main_category_id", "main category not found")
	}
	return err
}
