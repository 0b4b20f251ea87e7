package auth

import (
	"context"

	"rollbook/backend/internal/entity"
)

type User interface {
	GetByLogin(ctx context.Context, login string) (entity.User, error)
}
