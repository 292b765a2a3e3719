package usecase

import (
	"context"
	"errors"

	"lume/internal/domain/model"
	repo "lume/internal/repository"

	"github.com/shopspring/decimal"
)

// PricingUsecase prices a product configuration. It never writes.
type PricingUsecase struct {
	products repo.ProductRepository
	options  repo.OptionRepository
}

func NewPricingUsecase(products repo.ProductRepository, options repo.OptionRepository) *PricingUsecase {
	return &PricingUsecase{products: products, options: options}
}

type QuoteInput struct {
	ProductID  int64 `json:"product_id"`
	MaterialID int64 `json:"material_id"`
	StoneID    int64 `json:"stone_id"`
}

type QuoteOutput struct {
	ProductID  int64  `json:"product_id"`
	MaterialID int64  `json:"material_id"`
	StoneID    int64  `json:"stone_id"`
	UnitPrice  string `json:"unit_price"`
	Formatted  string `json:"formatted"`
}

type pricedConfig struct {
	product  model.Product
	material model.Material
	stone    model.Stone
	unit     decimal.Decimal
}

func (u *PricingUsecase) Quote(ctx context.Context, in QuoteInput) (QuoteOutput, error) {
	pc, err := u.resolve(ctx, in.ProductID, in.MaterialID, in.StoneID)
	if err != nil {
		return QuoteOutput{}, err
	}
	return QuoteOutput{
		ProductID:  pc.product.ID,
		MaterialID: pc.material.ID,
		StoneID:    pc.stone.ID,
		UnitPrice:  formatAmount(pc.unit),
		Formatted:  FormatBRL(pc.unit),
	}, nil
}

// resolve loads the three references; any miss is NotFound.
func (u *PricingUsecase) resolve(ctx context.Context, productID, materialID, stoneID int64) (pricedConfig, error) {
	if productID <= 0 || materialID <= 0 || stoneID <= 0 {
		return pricedConfig{}, notFound("product, material or stone not found")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return pricedConfig{}, notFound("product not found")
	}
	if err != nil {
		return pricedConfig{}, dbError(ctx, "pricing.product", err)
	}

	m, err := u.options.FindMaterial(ctx, materialID)
	if errors.Is(err, repo.ErrNotFound) {
		return pricedConfig{}, notFound("material not found")
	}
	if err != nil {
		return pricedConfig{}, dbError(ctx, "pricing.material", err)
	}

	s, err := u.options.FindStone(ctx, stoneID)
	if errors.Is(err, repo.ErrNotFound) {
		return pricedConfig{}, notFound("stone not found")
	}
	if err != nil {
		return pricedConfig{}, dbError(ctx, "pricing.stone", err)
	}

	return pricedConfig{
		product:  p,
		material: m,
		stone:    s,
		unit:     model.UnitPrice(p.BasePrice, m.AdditionalPrice, s.AdditionalPrice),
	}, nil
}
