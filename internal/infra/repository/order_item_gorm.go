package repository

import (
	"context"

	"lume/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// CreateBulk inserts one row per item so a failing line stops the batch.
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, items []model.OrderItem) error {
	for i := range items {
		if err := r.db.WithContext(ctx).Create(&items[i]).Error; err != nil {
			return translateError(err)
		}
	}
	return nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error; err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.OrderItem{}).Where("product_id = ?", productID).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
