package inbound

import (
	"context"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/faultline/internal/users/entity"
	"github.com/shandysiswandi/faultline/internal/users/usecase"
)

type uc interface {
	Create(ctx context.Context, in usecase.CreateInput) (entity.User, error)
	Get(ctx context.Context, id int64) (entity.User, error)
	List(ctx context.Context, in usecase.ListInput) (usecase.ListResult, error)
	Update(ctx context.Context, id int64, in usecase.UpdateInput) (entity.User, error)
	Delete(ctx context.Context, id int64) error
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/users", end.Create)
	r.GET("/users", end.List) // ?page=&page_size=
	r.GET("/users/:id", end.Get)
	r.PATCH("/users/:id", end.Update)
	r.DELETE("/users/:id", end.Delete)
}
