package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"seenjeem-admin/internal/domain"
)

// LatestQuestionsLimit is how many active questions the dashboard shows.
const LatestQuestionsLimit = 10

// StatsCounter computes dashboard counts straight from the store.
type StatsCounter struct {
	reports ReportRepository
}

func NewStatsCounter(reports ReportRepository) *StatsCounter {
	return &StatsCounter{reports: reports}
}

// LoadStats runs the six counts concurrently.
func (c *StatsCounter) LoadStats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	g, ctx := errgroup.WithContext(ctx)
	count := func(collection string, dst *int) {
		g.Go(func() error {
			n, err := c.reports.Count(ctx, collection)
			if err != nil {
				return fmt.Errorf("count %s: %w", collection, err)
			}
			*dst = n
			return nil
		})
	}
	count(CollectionMainCategories, &stats.TotalMainCategories)
	count(CollectionSubCategories, &stats.TotalSubCategories)
	count(CollectionQuestions, &stats.TotalQuestions)
	count(CollectionGames, &stats.TotalGames)
	count(CollectionUsers, &stats.TotalUsers)
	g.Go(func() error {
		n, err := c.reports.CountQuestionsByStatus(ctx, domain.QuestionActive)
		if err != nil {
			return fmt.Errorf("count active questions: %w", err)
		}
		stats.ActiveQuestions = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}
	return stats, nil
}

// Dashboard is the payload of the dashboard screen.
type Dashboard struct {
	Stats           domain.DashboardStats `json:"stats"`
	LatestQuestions []domain.QuestionView `json:"latestQuestions"`
}

// ReportService serves the read-only screens.
type ReportService struct {
	reports ReportRepository
	stats   StatsProvider
	catalog *CatalogService
}

func NewReportService(reports ReportRepository, stats StatsProvider, catalog *CatalogService) *ReportService {
	return &ReportService{reports: reports, stats: stats, catalog: catalog}
}

// Stats returns the (possibly cached) dashboard counts.
func (s *ReportService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return s.stats.GetStats(ctx)
}

// Dashboard returns counts plus the newest active questions.
func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	stats, err := s.stats.GetStats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	latest, err := s.catalog.ListQuestions(ctx, QuestionFilter{Status: domain.QuestionActive})
	if err != nil {
		return Dashboard{}, err
	}
	if len(latest) > LatestQuestionsLimit {
		latest = latest[:LatestQuestionsLimit]
	}
	return Dashboard{Stats: stats, LatestQuestions: latest}, nil
}

func (s *ReportService) ListGames(ctx context.Context) ([]domain.Game, error) {
	return s.reports.ListGames(ctx)
}

// ListGamePlayers returns a game's players, highest score first.
func (s *ReportService) ListGamePlayers(ctx context.Context, gameID string) ([]domain.GamePlayer, error) {
	return s.reports.ListGamePlayers(ctx, gameID)
}

func (s *ReportService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.reports.ListPayments(ctx)
}

func (s *ReportService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.reports.ListUsers(ctx)
}
