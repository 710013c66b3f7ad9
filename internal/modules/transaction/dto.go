package transaction

import "time"

type CreateRequest struct {
	CategoryID *int64    `json:"category_id"`
	Type       string    `json:"type" binding:"required,oneof=income expense"`
	Amount     float64   `json:"amount" binding:"required,gt=0"`
	Note       string    `json:"note" binding:"omitempty,max=500"`
	OccurredAt time.Time `json:"occurred_at" binding:"required"`
}

type UpdateRequest struct {
	CategoryID *int64     `json:"category_id"`
	Type       string     `json:"type" binding:"omitempty,oneof=income expense"`
	Amount     *float64   `json:"amount" binding:"omitempty,gt=0"`
	Note       *string    `json:"note" binding:"omitempty,max=500"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// SummaryResponse aggregates a period: income, expenses, net and the
// per-category expense breakdown.
type SummaryResponse struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Income     float64         `json:"income"`
	Expenses   float64         `json:"expenses"`
	Net        float64         `json:"net"`
	ByCategory []CategoryShare `json:"by_category"`
}

type CategoryShare struct {
	CategoryID *int64  `json:"category_id"`
	Total      float64 `json:"total"`
}
