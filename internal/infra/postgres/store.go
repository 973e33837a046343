package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
)

// Store keeps every collection as a JSONB document table (id, data, created_at).
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var (
	_ app.CategoryRepository = (*Store)(nil)
	_ app.QuestionRepository = (*Store)(nil)
	_ app.ReportRepository   = (*Store)(nil)
)

var collections = map[string]struct{}{
	app.CollectionMainCategories: {},
	app.CollectionSubCategories:  {},
	app.CollectionQuestions:      {},
	app.CollectionGames:          {},
	app.CollectionGamePlayers:    {},
	app.CollectionPayments:       {},
	app.CollectionUsers:          {},
}

func (s *Store) insert(ctx context.Context, table, id string, createdAt time.Time, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", table, err)
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+table+` (id, data, created_at) VALUES ($1, $2::jsonb, $3)`,
		id, string(raw), createdAt)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (s *Store) replace(ctx context.Context, table, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", table, err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE `+table+` SET data = $2::jsonb WHERE id = $1`, id, string(raw))
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) remove(ctx context.Context, table, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func getDoc[T any](ctx context.Context, pool *pgxpool.Pool, table, id string) (T, error) {
	var (
		raw []byte
		v   T
	)
	err := pool.QueryRow(ctx, `SELECT data FROM `+table+` WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return v, domain.ErrNotFound
	}
	if err != nil {
		return v, fmt.Errorf("load %s: %w", table, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("unmarshal %s: %w", table, err)
	}
	return v, nil
}

func queryDocs[T any](ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func assignID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func (s *Store) ListMainCategories(ctx context.Context) ([]domain.MainCategory, error) {
	out, err := queryDocs[domain.MainCategory](ctx, s.pool,
		`SELECT data FROM main_categories ORDER BY (data->>'display_order')::int, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list main categories: %w", err)
	}
	return out, nil
}

func (s *Store) GetMainCategory(ctx context.Context, id string) (domain.MainCategory, error) {
	return getDoc[domain.MainCategory](ctx, s.pool, app.CollectionMainCategories, id)
}

func (s *Store) CreateMainCategory(ctx context.Context, c domain.MainCategory) (domain.MainCategory, error) {
	c.ID = assignID(c.ID)
	if err := s.insert(ctx, app.CollectionMainCategories, c.ID, c.CreatedAt, c); err != nil {
		return domain.MainCategory{}, err
	}
	return c, nil
}

func (s *Store) UpdateMainCategory(ctx context.Context, c domain.MainCategory) (domain.MainCategory, error) {
	if err := s.replace(ctx, app.CollectionMainCategories, c.ID, c); err != nil {
		return domain.MainCategory{}, err
	}
	return c, nil
}

func (s *Store) DeleteMainCategory(ctx context.Context, id string) error {
	return s.remove(ctx, app.CollectionMainCategories, id)
}

func (s *Store) ListSubCategories(ctx context.Context, mainCategoryID string) ([]domain.SubCategory, error) {
	out, err := queryDocs[domain.SubCategory](ctx, s.pool,
		`SELECT data FROM sub_categories
		 WHERE ($1::text = '' OR data->>'main_category_id' = $1::text)
		 ORDER BY (data->>'display_order')::int, created_at`, mainCategoryID)
	if err != nil {
		return nil, fmt.Errorf("list sub categories: %w", err)
	}
	return out, nil
}

func (s *Store) GetSubCategory(ctx context.Context, id string) (domain.SubCategory, error) {
	return getDoc[domain.SubCategory](ctx, s.pool, app.CollectionSubCategories, id)
}

func (s *Store) CreateSubCategory(ctx context.Context, c domain.SubCategory) (domain.SubCategory, error) {
	c.ID = assignID(c.ID)
	c.MainCategoryName = ""
	if err := s.insert(ctx, app.CollectionSubCategories, c.ID, c.CreatedAt, c); err != nil {
		return domain.SubCategory{}, err
	}
	return c, nil
}

func (s *Store) UpdateSubCategory(ctx context.Context, c domain.SubCategory) (domain.SubCategory, error) {
	c.MainCategoryName = ""
	if err := s.replace(ctx, app.CollectionSubCategories, c.ID, c); err != nil {
		return domain.SubCategory{}, err
	}
	return c, nil
}

func (s *Store) DeleteSubCategory(ctx context.Context, id string) error {
	return s.remove(ctx, app.CollectionSubCategories, id)
}

func (s *Store) ListQuestions(ctx context.Context, q app.QuestionQuery) ([]domain.Question, error) {
	out, err := queryDocs[domain.Question](ctx, s.pool,
		`SELECT data FROM questions
		 WHERE ($1::int = 0 OR (data->>'points')::int = $1::int)
		   AND ($2::text = '' OR data->>'status' = $2::text)
		 ORDER BY created_at DESC, id`, int(q.Points), string(q.Status))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return out, nil
}

func (s *Store) FindByTier(ctx context.Context, subCategoryID string, points domain.PointTier) ([]domain.Question, error) {
	out, err := queryDocs[domain.Question](ctx, s.pool,
		`SELECT data FROM questions
		 WHERE data->>'sub_category_id' = $1 AND (data->>'points')::int = $2::int`,
		subCategoryID, int(points))
	if err != nil {
		return nil, fmt.Errorf("find questions by tier: %w", err)
	}
	return out, nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	return getDoc[domain.Question](ctx, s.pool, app.CollectionQuestions, id)
}

func (s *Store) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	q.ID = assignID(q.ID)
	if err := s.insert(ctx, app.CollectionQuestions, q.ID, q.CreatedAt, q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if err := s.replace(ctx, app.CollectionQuestions, q.ID, q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	return s.remove(ctx, app.CollectionQuestions, id)
}

func (s *Store) ListGames(ctx context.Context) ([]domain.Game, error) {
	out, err := queryDocs[domain.Game](ctx, s.pool, `SELECT data FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

func (s *Store) ListGamePlayers(ctx context.Context, gameID string) ([]domain.GamePlayer, error) {
	out, err := queryDocs[domain.GamePlayer](ctx, s.pool,
		`SELECT data FROM game_players WHERE data->>'game_id' = $1 ORDER BY (data->>'score')::int DESC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list game players: %w", err)
	}
	return out, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	out, err := queryDocs[domain.Payment](ctx, s.pool, `SELECT data FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	out, err := queryDocs[domain.User](ctx, s.pool, `SELECT data FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	if _, ok := collections[collection]; !ok {
		return 0, domain.ErrNotFound
	}
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM `+collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *Store) CountQuestionsByStatus(ctx context.Context, status domain.QuestionStatus) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM questions WHERE data->>'status' = $1`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions by status: %w", err)
	}
	return n, nil
}

// Seed writes records owned by other systems (games, players, payments, users).
// It is used by tests and local fixtures.
func (s *Store) Seed(ctx context.Context, collection, id string, createdAt time.Time, doc any) error {
	if _, ok := collections[collection]; !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	return s.insert(ctx, collection, assignID(id), createdAt, doc)
}
