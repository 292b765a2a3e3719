package repository

import (
	"context"

	"lume/internal/domain/model"

	"gorm.io/gorm"
)

type RatingGormRepository struct {
	db *gorm.DB
}

func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

func (r *RatingGormRepository) Create(ctx context.Context, rt model.Rating) (model.Rating, error) {
	if err := r.db.WithContext(ctx).Create(&rt).Error; err != nil {
		return model.Rating{}, translateError(err)
	}
	return rt, nil
}

func (r *RatingGormRepository) ListRecentByProduct(ctx context.Context, productID int64, limit int) ([]model.RatingWithAuthor, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []model.RatingWithAuthor
	err := r.db.WithContext(ctx).
		Table("ratings").
		Select("ratings.*, users.name AS user_name").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.product_id = ?", productID).
		Order("ratings.created_at desc").
		Order("ratings.id desc").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return []model.RatingWithAuthor{}, err
	}
	return out, nil
}
