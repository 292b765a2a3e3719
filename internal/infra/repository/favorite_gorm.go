package repository

import (
	"context"

	"lume/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteGormRepository struct {
	db *gorm.DB
}

func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{db: db}
}

func (r *FavoriteGormRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ON CONFLICT DO NOTHING keeps a lost race from aborting the surrounding tx.
func (r *FavoriteGormRepository) Create(ctx context.Context, userID, productID int64) (bool, error) {
	f := model.Favorite{UserID: userID, ProductID: productID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&f)
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *FavoriteGormRepository) Delete(ctx context.Context, userID, productID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *FavoriteGormRepository) ListProductsByUser(ctx context.Context, userID int64) ([]model.Product, error) {
	var out []model.Product
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("products.*").
		Joins("JOIN favorites ON favorites.product_id = products.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at desc").
		Order("favorites.id desc").
		Find(&out).Error
	if err != nil {
		return []model.Product{}, err
	}
	return out, nil
}
