package content

type VideoRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	URL         string `json:"url" binding:"required,url"`
	PlanID      *int64 `json:"plan_id"`
}

type PlanRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	Features    string `json:"features" binding:"omitempty"`
}
