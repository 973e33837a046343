package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
)

// Store is an in-memory document store implementing the app repositories.
type Store struct {
	mu          sync.RWMutex
	mains       map[string]domain.MainCategory
	subs        map[string]domain.SubCategory
	questions   map[string]domain.Question
	games       map[string]domain.Game
	gamePlayers map[string]domain.GamePlayer
	payments    map[string]domain.Payment
	users       map[string]domain.User
}

func NewStore() *Store {
	return &Store{
		mains:       make(map[string]domain.MainCategory),
		subs:        make(map[string]domain.SubCategory),
		questions:   make(map[string]domain.Question),
		games:       make(map[string]domain.Game),
		gamePlayers: make(map[string]domain.GamePlayer),
		payments:    make(map[string]domain.Payment),
		users:       make(map[string]domain.User),
	}
}

var (
	_ app.CategoryRepository = (*Store)(nil)
	_ app.QuestionRepository = (*Store)(nil)
	_ app.ReportRepository   = (*Store)(nil)
)

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func (s *Store) ListMainCategories(_ context.Context) ([]domain.MainCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MainCategory, 0, len(s.mains))
	for _, m := range s.mains {
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetMainCategory(_ context.Context, id string) (domain.MainCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mains[id]
	if !ok {
		return domain.MainCategory{}, domain.ErrNotFound
	}
	return m, nil
}

func (s *Store) CreateMainCategory(_ context.Context, c domain.MainCategory) (domain.MainCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = newID(c.ID)
	s.mains[c.ID] = c
	return c, nil
}

func (s *Store) UpdateMainCategory(_ context.Context, c domain.MainCategory) (domain.MainCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mains[c.ID]; !ok {
		return domain.MainCategory{}, domain.ErrNotFound
	}
	s.mains[c.ID] = c
	return c, nil
}

func (s *Store) DeleteMainCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mains[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.mains, id)
	return nil
}

func (s *Store) ListSubCategories(_ context.Context, mainCategoryID string) ([]domain.SubCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SubCategory, 0, len(s.subs))
	for _, sc := range s.subs {
		if mainCategoryID != "" && sc.MainCategoryID != mainCategoryID {
			continue
		}
		out = append(out, sc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetSubCategory(_ context.Context, id string) (domain.SubCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.subs[id]
	if !ok {
		return domain.SubCategory{}, domain.ErrNotFound
	}
	return sc, nil
}

func (s *Store) CreateSubCategory(_ context.Context, c domain.SubCategory) (domain.SubCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = newID(c.ID)
	c.MainCategoryName = ""
	s.subs[c.ID] = c
	return c, nil
}

func (s *Store) UpdateSubCategory(_ context.Context, c domain.SubCategory) (domain.SubCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[c.ID]; !ok {
		return domain.SubCategory{}, domain.ErrNotFound
	}
	c.MainCategoryName = ""
	s.subs[c.ID] = c
	return c, nil
}

func (s *Store) DeleteSubCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.subs, id)
	return nil
}

func (s *Store) ListQuestions(_ context.Context, q app.QuestionQuery) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.questions))
	for _, question := range s.questions {
		if q.Points != 0 && question.Points != q.Points {
			continue
		}
		if q.Status != "" && question.Status != q.Status {
			continue
		}
		out = append(out, question)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) FindByTier(_ context.Context, subCategoryID string, points domain.PointTier) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for _, q := range s.questions {
		if q.SubCategoryID == subCategoryID && q.Points == points {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *Store) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrNotFound
	}
	return q, nil
}

func (s *Store) CreateQuestion(_ context.Context, q domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = newID(q.ID)
	s.questions[q.ID] = q
	return q, nil
}

func (s *Store) UpdateQuestion(_ context.Context, q domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return domain.Question{}, domain.ErrNotFound
	}
	s.questions[q.ID] = q
	return q, nil
}

func (s *Store) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

// PutGame stores a game record. The game client owns these; the console only reads them.
func (s *Store) PutGame(g domain.Game) domain.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = newID(g.ID)
	s.games[g.ID] = g
	return g
}

func (s *Store) PutGamePlayer(p domain.GamePlayer) domain.GamePlayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID(p.ID)
	s.gamePlayers[p.ID] = p
	return p
}

func (s *Store) PutPayment(p domain.Payment) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID(p.ID)
	s.payments[p.ID] = p
	return p
}

func (s *Store) PutUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = newID(u.ID)
	s.users[u.ID] = u
	return u
}

func (s *Store) ListGames(_ context.Context) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListGamePlayers(_ context.Context, gameID string) ([]domain.GamePlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.GamePlayer
	for _, p := range s.gamePlayers {
		if p.GameID == gameID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *Store) ListPayments(_ context.Context) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch collection {
	case app.CollectionMainCategories:
		return len(s.mains), nil
	case app.CollectionSubCategories:
		return len(s.subs), nil
	case app.CollectionQuestions:
		return len(s.questions), nil
	case app.CollectionGames:
		return len(s.games), nil
	case app.CollectionGamePlayers:
		return len(s.gamePlayers), nil
	case app.CollectionPayments:
		return len(s.payments), nil
	case app.CollectionUsers:
		return len(s.users), nil
	}
	return 0, domain.ErrNotFound
}

func (s *Store) CountQuestionsByStatus(_ context.Context, status domain.QuestionStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, q := range s.questions {
		if q.Status == status {
			n++
		}
	}
	return n, nil
}
