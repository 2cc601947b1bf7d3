package usecase

import "github.com/shandysiswandi/faultline/internal/users/entity"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CreateInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"required,min=2,max=100"`
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Email *string `json:"email" validate:"omitempty,email,max=254"`
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
}

type ListInput struct {
	Page     int `json:"page" validate:"min=1"`
	PageSize int `json:"page_size" validate:"min=1"`
}

type ListResult struct {
	Users    []entity.User
	Page     int
	PageSize int
	Total    int
}
