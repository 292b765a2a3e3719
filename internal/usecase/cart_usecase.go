package usecase

import (
	"context"
	"strings"

	"lume/internal/domain/model"
	repo "lume/internal/repository"
)

// MaxLineQuantity is the largest quantity a single add accepts.
const MaxLineQuantity = 10

type CartUsecase struct {
	pricing *PricingUsecase
	options repo.OptionRepository
	store   repo.CartStore
}

func NewCartUsecase(pricing *PricingUsecase, options repo.OptionRepository, store repo.CartStore) *CartUsecase {
	return &CartUsecase{pricing: pricing, options: options, store: store}
}

type AddCartInput struct {
	ProductID  int64  `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	Size       string `json:"size"`
	MaterialID int64  `json:"material_id"`
	StoneID    int64  `json:"stone_id"`
}

type CartLineOutput struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	Size        string `json:"size"`
	Material    string `json:"material"`
	Stone       string `json:"stone"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type CartOutput struct {
	Lines []CartLineOutput `json:"lines"`
	Count int              `json:"count"`
	Total string           `json:"total"`
}

type AddCartOutput struct {
	Count int            `json:"count"`
	Line  CartLineOutput `json:"line"`
}

// Add prices the configuration now and appends it as a new line.
func (u *CartUsecase) Add(ctx context.Context, sessionID string, in AddCartInput) (AddCartOutput, error) {
	if sessionID == "" {
		return AddCartOutput{}, invalidInput("missing session")
	}
	if in.Quantity < 1 || in.Quantity > MaxLineQuantity {
		return AddCartOutput{}, invalidInput("quantity must be between 1 and 10")
	}
	size := strings.TrimSpace(in.Size)
	if size == "" {
		return AddCartOutput{}, invalidInput("size is required")
	}
	ok, err := u.options.SizeExists(ctx, size)
	if err != nil {
		return AddCartOutput{}, dbError(ctx, "cart.size", err)
	}
	if !ok {
		return AddCartOutput{}, invalidInput("unknown size")
	}

	pc, err := u.pricing.resolve(ctx, in.ProductID, in.MaterialID, in.StoneID)
	if err != nil {
		return AddCartOutput{}, err
	}
	if !pc.product.IsActive {
		return AddCartOutput{}, notFound("product not found")
	}

	line := model.NewCartLine(pc.product, pc.material, pc.stone, size, in.Quantity)

	var count int
	err = u.store.Update(ctx, sessionID, func(c *model.Cart) error {
		c.Append(line)
		count = len(c.Lines)
		return nil
	})
	if err != nil {
		return AddCartOutput{}, dbError(ctx, "cart.update", err)
	}

	return AddCartOutput{Count: count, Line: toCartLineOutput(line)}, nil
}

// View returns the lines as stored; it never re-prices.
func (u *CartUsecase) View(ctx context.Context, sessionID string) (CartOutput, error) {
	if sessionID == "" {
		return toCartOutput(model.Cart{}), nil
	}
	c, err := u.store.Load(ctx, sessionID)
	if err != nil {
		return CartOutput{}, dbError(ctx, "cart.load", err)
	}
	return toCartOutput(c), nil
}

func (u *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := u.store.Clear(ctx, sessionID); err != nil {
		return dbError(ctx, "cart.clear", err)
	}
	return nil
}

func toCartLineOutput(l model.CartLine) CartLineOutput {
	return CartLineOutput{
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		Size:        l.Size,
		Material:    l.Material,
		Stone:       l.Stone,
		UnitPrice:   formatAmount(l.UnitPrice),
		Subtotal:    formatAmount(l.Subtotal),
	}
}

func toCartOutput(c model.Cart) CartOutput {
	lines := make([]CartLineOutput, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, toCartLineOutput(l))
	}
	return CartOutput{Lines: lines, Count: len(lines), Total: formatAmount(c.Total())}
}
