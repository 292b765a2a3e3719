package repository

import (
	"context"

	"lume/internal/domain/model"
)

type FavoriteRepository interface {
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	// Create is a no-op returning false when the pair already exists.
	Create(ctx context.Context, userID, productID int64) (bool, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, userID, productID int64) (bool, error)
	ListProductsByUser(ctx context.Context, userID int64) ([]model.Product, error)
}
