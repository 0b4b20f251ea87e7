package subject

import (
	"context"

	"rollbook/backend/internal/repository/postgres/subject"
)

type Subject interface {
	GetList(ctx context.Context, filter subject.Filter) ([]subject.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (subject.GetDetailByIdResponse, error)
}
