package budget

import "fintrack/internal/domain"

type SetRequest struct {
	CategoryID int64   `json:"category_id" binding:"required,gt=0"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Month      string  `json:"month" binding:"required"`
}

type ProgressResponse struct {
	Budget    *domain.Budget `json:"budget"`
	Spent     float64        `json:"spent"`
	Remaining float64        `json:"remaining"`
}
