package leave

import (
	"context"

	"rollbook/backend/internal/repository/postgres/leave"
)

type Leave interface {
	Create(ctx context.Context, request leave.CreateRequest) (leave.CreateResponse, error)
	GetList(ctx context.Context, filter leave.Filter) ([]leave.GetListResponse, int, error)
	Decide(ctx context.Context, request leave.DecideRequest) error
	Delete(ctx context.Context, id int) error
}
