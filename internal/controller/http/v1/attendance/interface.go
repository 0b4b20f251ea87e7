package attendance

import (
	"context"

	"rollbook/backend/internal/entity"
	"rollbook/backend/internal/repository/postgres/record"
)

type Record interface {
	GetList(ctx context.Context, filter record.Filter) ([]record.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (record.GetDetailByIdResponse, error)
	UpdateColumns(ctx context.Context, request record.UpdateRequest) error
	Delete(ctx context.Context, id int) error

	MarkEvent(ctx context.Context, request record.MarkEventRequest) (record.MarkEventResponse, error)
	MarkBulkAbsent(ctx context.Context, request record.BulkAbsentRequest) ([]record.BulkAbsentResult, error)
}

type Student interface {
	GetByCode(ctx context.Context, code string) (entity.Student, error)
}
