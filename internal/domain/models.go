package domain

import "time"

// PointTier is the board value of a question. Only 200, 400 and 600 are valid.
type PointTier int

const (
	Points200 PointTier = 200
	Points400 PointTier = 400
	Points600 PointTier = 600
)

// PointTiers lists the valid tiers in board order.
var PointTiers = []PointTier{Points200, Points400, Points600}

// Valid reports whether p is one of the board tiers.
func (p PointTier) Valid() bool {
	switch p {
	case Points200, Points400, Points600:
		return true
	}
	return false
}

// QuestionStatus is the lifecycle state of a question.
type QuestionStatus string

const (
	QuestionActive   QuestionStatus = "active"
	QuestionDisabled QuestionStatus = "disabled"
	QuestionDraft    QuestionStatus = "draft"
)

// CategoryStatus mirrors MainCategory.IsActive for clients that read the status field.
type CategoryStatus string

const (
	CategoryActive   CategoryStatus = "active"
	CategoryDisabled CategoryStatus = "disabled"
)

// CategoryStatusFor maps the active flag to its status string.
func CategoryStatusFor(active bool) CategoryStatus {
	if active {
		return CategoryActive
	}
	return CategoryDisabled
}

// MainCategory is the top level of the taxonomy. NameAr is the import key.
type MainCategory struct {
	ID           string         `json:"id"`
	NameAr       string         `json:"name_ar"`
	DisplayOrder int            `json:"display_order"`
	IsActive     bool           `json:"is_active"`
	Status       CategoryStatus `json:"status"`
	MediaURL     string         `json:"media_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SubCategory belongs to exactly one MainCategory and always carries media.
type SubCategory struct {
	ID             string    `json:"id"`
	MainCategoryID string    `json:"main_category_id"`
	NameAr         string    `json:"name_ar"`
	DisplayOrder   int       `json:"display_order"`
	IsActive       bool      `json:"is_active"`
	MediaURL       string    `json:"media_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// MainCategoryName is filled on listing, never persisted.
	MainCategoryName string `json:"main_category_name_ar,omitempty"`
}

// Question is a board question. At most one question exists per (SubCategoryID, Points).
type Question struct {
	ID               string         `json:"id"`
	SubCategoryID    string         `json:"sub_category_id"`
	QuestionTextAr   string         `json:"question_text_ar"`
	AnswerTextAr     string         `json:"answer_text_ar"`
	QuestionMediaURL string         `json:"question_media_url,omitempty"`
	AnswerMediaURL   string         `json:"answer_media_url,omitempty"`
	Points           PointTier      `json:"points"`
	Status           QuestionStatus `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// QuestionView is a question joined with its owning categories for listing.
type QuestionView struct {
	Question
	SubCategoryName  string `json:"sub_category_name_ar,omitempty"`
	MainCategoryID   string `json:"main_category_id,omitempty"`
	MainCategoryName string `json:"main_category_name_ar,omitempty"`
}

// GameStatus is the lifecycle of a played game.
type GameStatus string

const (
	GameWaiting    GameStatus = "waiting"
	GameInProgress GameStatus = "in_progress"
	GameCompleted  GameStatus = "completed"
)

// Game is a session recorded by the game client.
type Game struct {
	ID          string     `json:"id"`
	Status      GameStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// GamePlayer is a participant of a game with their final score.
type GamePlayer struct {
	ID         string `json:"id"`
	GameID     string `json:"game_id"`
	UserID     string `json:"user_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Position   int    `json:"position"`
}

// Payment is a record written by the payment provider integration.
type Payment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// User is a registered player account.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardStats are the aggregate counts shown on the dashboard.
type DashboardStats struct {
	TotalMainCategories int `json:"totalMainCategories"`
	TotalSubCategories  int `json:"totalSubCategories"`
	TotalQuestions      int `json:"totalQuestions"`
	ActiveQuestions     int `json:"activeQuestions"`
	TotalGames          int `json:"totalGames"`
	TotalUsers          int `json:"totalUsers"`
}

// Activity is published on the live feed whenever the catalog changes.
type Activity struct {
	Kind     string    `json:"kind"`
	Action   string    `json:"action"`
	EntityID string    `json:"entityId,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}
