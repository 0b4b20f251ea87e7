package user

import (
	"context"

	"rollbook/backend/internal/repository/postgres/user"
)

type User interface {
	GetList(ctx context.Context, filter user.Filter) ([]user.GetListResponse, int, error)
	Create(ctx context.Context, request user.CreateRequest) (user.CreateResponse, error)
	Delete(ctx context.Context, id int) error
}
