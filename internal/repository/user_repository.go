package repository

import (
	"context"

	"lume/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
