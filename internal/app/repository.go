package app

import (
	"context"

	"seenjeem-admin/internal/domain"
)

// CategoryRepository persists the two-level taxonomy.
// Create methods assign the ID when it is empty.
type CategoryRepository interface {
	ListMainCategories(ctx context.Context) ([]domain.MainCategory, error)
	GetMainCategory(ctx context.Context, id string) (domain.MainCategory, error)
	CreateMainCategory(ctx context.Context, c domain.MainCategory) (domain.MainCategory, error)
	UpdateMainCategory(ctx context.Context, c domain.MainCategory) (domain.MainCategory, error)
	DeleteMainCategory(ctx context.Context, id string) error

	// ListSubCategories returns all sub-categories when mainCategoryID is empty.
	ListSubCategories(ctx context.Context, mainCategoryID string) ([]domain.SubCategory, error)
	GetSubCategory(ctx context.Context, id string) (domain.SubCategory, error)
	CreateSubCategory(ctx context.Context, c domain.SubCategory) (domain.SubCategory, error)
	UpdateSubCategory(ctx context.Context, c domain.SubCategory) (domain.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id string) error
}

// QuestionQuery narrows the store fetch. Zero values match everything.
type QuestionQuery struct {
	Points domain.PointTier
	Status domain.QuestionStatus
}

// QuestionRepository persists questions. ListQuestions orders by creation time, newest first.
type QuestionRepository interface {
	ListQuestions(ctx context.Context, q QuestionQuery) ([]domain.Question, error)
	FindByTier(ctx context.Context, subCategoryID string, points domain.PointTier) ([]domain.Question, error)
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
}

// Collection names of the document store.
const (
	CollectionMainCategories = "main_categories"
	CollectionSubCategories  = "sub_categories"
	CollectionQuestions      = "questions"
	CollectionGames          = "games"
	CollectionGamePlayers    = "game_players"
	CollectionPayments       = "payments"
	CollectionUsers          = "users"
)

// ReportRepository reads the records produced by the game and payment systems.
type ReportRepository interface {
	ListGames(ctx context.Context) ([]domain.Game, error)
	ListGamePlayers(ctx context.Context, gameID string) ([]domain.GamePlayer, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context, collection string) (int, error)
	CountQuestionsByStatus(ctx context.Context, status domain.QuestionStatus) (int, error)
}

// ImportHistory keeps recent import summaries for the console.
type ImportHistory interface {
	Append(ctx context.Context, summary domain.ImportSummary) error
	List(ctx context.Context, kind domain.ImportKind, limit int) ([]domain.ImportSummary, error)
}

// StatsProvider returns dashboard counts, possibly from a cache.
type StatsProvider interface {
	GetStats(ctx context.Context) (domain.DashboardStats, error)
	Invalidate(ctx context.Context)
}
