package repository

import (
	"context"

	"lume/internal/domain/model"
)

type ProductRepository interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	// hard delete; ErrForeignKey while order lines still reference it
	Delete(ctx context.Context, id int64) error
}
