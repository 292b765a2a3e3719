package repository

import (
	"context"

	"lume/internal/domain/model"

	"gorm.io/gorm"
)

type OptionGormRepository struct {
	db *gorm.DB
}

func NewOptionGormRepository(db *gorm.DB) *OptionGormRepository {
	return &OptionGormRepository{db: db}
}

func (r *OptionGormRepository) ListMaterials(ctx context.Context) ([]model.Material, error) {
	var out []model.Material
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return []model.Material{}, err
	}
	return out, nil
}

func (r *OptionGormRepository) FindMaterial(ctx context.Context, id int64) (model.Material, error) {
	var m model.Material
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return model.Material{}, translateError(err)
	}
	return m, nil
}

func (r *OptionGormRepository) ListStones(ctx context.Context) ([]model.Stone, error) {
	var out []model.Stone
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return []model.Stone{}, err
	}
	return out, nil
}

func (r *OptionGormRepository) FindStone(ctx context.Context, id int64) (model.Stone, error) {
	var s model.Stone
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return model.Stone{}, translateError(err)
	}
	return s, nil
}

func (r *OptionGormRepository) ListSizes(ctx context.Context) ([]model.Size, error) {
	var out []model.Size
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return []model.Size{}, err
	}
	return out, nil
}

func (r *OptionGormRepository) SizeExists(ctx context.Context, label string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Size{}).Where("label = ?", label).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
