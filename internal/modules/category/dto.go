package category

type CreateRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
	Kind string `json:"kind" binding:"omitempty,oneof=income expense"`
	Icon string `json:"icon" binding:"omitempty,max=64"`
}

type UpdateRequest struct {
	Name string  `json:"name" binding:"omitempty,min=1,max=64"`
	Icon *string `json:"icon" binding:"omitempty"`
}
