package student

import (
	"context"

	"rollbook/backend/internal/entity"
	"rollbook/backend/internal/repository/postgres/student"
)

type Student interface {
	GetList(ctx context.Context, filter student.Filter) ([]student.GetListResponse, int, error)
	GetByCode(ctx context.Context, code string) (entity.Student, error)
	BadgeList(ctx context.Context, classGroupID *int) ([]student.BadgeEntry, error)
}
