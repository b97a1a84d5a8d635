package types

type SubscribeInput struct {
	Email string `json:"email" binding:"required,email"`
}

type InterestedInput struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Email  string `json:"email" binding:"omitempty,email"`
	UnitID string `json:"unitId"`
}

type ConsultationInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// MarkReadInput selects notifications to mark as read. An empty list marks all.
type MarkReadInput struct {
	IDs []uint `json:"ids"`
}
