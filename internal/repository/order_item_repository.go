package repository

import (
	"context"

	"lume/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ExistsByProductID(ctx context.Context, productID int64) (bool, error)
}
