package goal

import "time"

type CreateRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=128"`
	TargetAmount float64    `json:"target_amount" binding:"required,gt=0"`
	Deadline     *time.Time `json:"deadline"`
}

type UpdateRequest struct {
	Name         string     `json:"name" binding:"omitempty,min=1,max=128"`
	TargetAmount *float64   `json:"target_amount" binding:"omitempty,gt=0"`
	Deadline     *time.Time `json:"deadline"`
}

type ContributeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
