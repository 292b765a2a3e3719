package repository

import (
	"context"

	"lume/internal/domain/model"
)

// OptionRepository reads the customization catalog: materials, stones and sizes.
type OptionRepository interface {
	ListMaterials(ctx context.Context) ([]model.Material, error)
	FindMaterial(ctx context.Context, id int64) (model.Material, error)
	ListStones(ctx context.Context) ([]model.Stone, error)
	FindStone(ctx context.Context, id int64) (model.Stone, error)
	ListSizes(ctx context.Context) ([]model.Size, error)
	SizeExists(ctx context.Context, label string) (bool, error)
}
