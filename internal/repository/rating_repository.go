package repository

import (
	"context"

	"lume/internal/domain/model"
)

type RatingRepository interface {
	Create(ctx context.Context, r model.Rating) (model.Rating, error)
	// newest first, ties broken by id desc
	ListRecentByProduct(ctx context.Context, productID int64, limit int) ([]model.RatingWithAuthor, error)
}
