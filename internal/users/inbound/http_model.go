package inbound

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shandysiswandi/faultline/internal/users/entity"
)

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UpdateUserRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toHTTPUser(u entity.User) User {
	return User{
		ID:        strconv.FormatInt(u.ID, 10),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type CreateUserResponse struct {
	User
}

func (CreateUserResponse) StatusCode() int {
	return http.StatusCreated
}

func (CreateUserResponse) Message() string {
	return "user created"
}

type ListUsersResponse struct {
	Users    []User `json:"users"`
	page     int
	pageSize int
	total    int
}

func (r ListUsersResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}
