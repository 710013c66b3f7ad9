package domain

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Category groups transactions and budgets. System categories (UserID nil)
// are seeded and shared; user categories belong to one account.
type Category struct {
	ID     int64  `json:"id" gorm:"primaryKey"`
	UserID *int64 `json:"user_id,omitempty" gorm:"index"`
	Name   string `json:"name" gorm:"not null"`
	Kind   string `json:"kind" gorm:"not null;default:expense"`
	Icon   string `json:"icon,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type Transaction struct {
	ID         int64           `json:"id" gorm:"primaryKey"`
	UserID     int64           `json:"user_id" gorm:"index;not null"`
	CategoryID *int64          `json:"category_id,omitempty" gorm:"index"`
	Type       TransactionType `json:"type" gorm:"not null"`
	Amount     float64         `json:"amount" gorm:"not null"`
	Note       string          `json:"note,omitempty"`
	OccurredAt time.Time       `json:"occurred_at" gorm:"index;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID         int64   `json:"id" gorm:"primaryKey"`
	UserID     int64   `json:"user_id" gorm:"index;not null"`
	CategoryID int64   `json:"category_id" gorm:"index;not null"`
	Amount     float64 `json:"amount" gorm:"not null"`
	Month      string  `json:"month" gorm:"size:7;index;not null"` // YYYY-MM

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Goal struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	UserID       int64      `json:"user_id" gorm:"index;not null"`
	Name         string     `json:"name" gorm:"not null"`
	TargetAmount float64    `json:"target_amount" gorm:"not null"`
	SavedAmount  float64    `json:"saved_amount" gorm:"not null;default:0"`
	Deadline     *time.Time `json:"deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Video is a piece of course content, optionally gated by a plan.
type Video struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url" gorm:"not null"`
	PlanID      *int64 `json:"plan_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Plan is a paid tier unlocking premium content.
type Plan struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents" gorm:"not null"`
	Features    string `json:"features,omitempty"` // JSON-encoded list
	IsActive    bool   `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
}
