package usecase

import (
	"context"
	"errors"
	"time"

	"lume/internal/domain/model"
	repo "lume/internal/repository"
)

const recentRatingsLimit = 10

// ProductUsecase serves storefront reads.
type ProductUsecase struct {
	products  repo.ProductRepository
	options   repo.OptionRepository
	ratings   repo.RatingRepository
	favorites repo.FavoriteRepository
}

func NewProductUsecase(
	products repo.ProductRepository,
	options repo.OptionRepository,
	ratings repo.RatingRepository,
	favorites repo.FavoriteRepository,
) *ProductUsecase {
	return &ProductUsecase{
		products:  products,
		options:   options,
		ratings:   ratings,
		favorites: favorites,
	}
}

type ProductOutput struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BasePrice   string    `json:"base_price"`
	Formatted   string    `json:"formatted_price"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type OptionOutput struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	AdditionalPrice string `json:"additional_price"`
}

type OptionsOutput struct {
	Materials []OptionOutput `json:"materials"`
	Stones    []OptionOutput `json:"stones"`
	Sizes     []string       `json:"sizes"`
}

type ProductDetailOutput struct {
	Product   ProductOutput  `json:"product"`
	Options   OptionsOutput  `json:"options"`
	Ratings   []RatingOutput `json:"ratings"`
	Favorited bool           `json:"favorited"`
}

func (u *ProductUsecase) ListActive(ctx context.Context) ([]ProductOutput, error) {
	ps, err := u.products.ListActive(ctx)
	if err != nil {
		return []ProductOutput{}, dbError(ctx, "products.list_active", err)
	}
	return toProductOutputs(ps), nil
}

// Detail finds a product by id whether or not it is active. viewerID is 0
// for anonymous visitors.
func (u *ProductUsecase) Detail(ctx context.Context, productID int64, viewerID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, invalidInput("invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, notFound("product not found")
	}
	if err != nil {
		return ProductDetailOutput{}, dbError(ctx, "products.detail", err)
	}

	opts, err := u.Options(ctx)
	if err != nil {
		return ProductDetailOutput{}, err
	}

	rs, err := u.ratings.ListRecentByProduct(ctx, productID, recentRatingsLimit)
	if err != nil {
		return ProductDetailOutput{}, dbError(ctx, "products.ratings", err)
	}

	favorited := false
	if viewerID > 0 {
		if favorited, err = u.favorites.Exists(ctx, viewerID, productID); err != nil {
			return ProductDetailOutput{}, dbError(ctx, "products.favorited", err)
		}
	}

	return ProductDetailOutput{
		Product:   toProductOutput(p),
		Options:   opts,
		Ratings:   toRatingOutputs(rs),
		Favorited: favorited,
	}, nil
}

func (u *ProductUsecase) Options(ctx context.Context) (OptionsOutput, error) {
	ms, err := u.options.ListMaterials(ctx)
	if err != nil {
		return OptionsOutput{}, dbError(ctx, "options.materials", err)
	}
	ss, err := u.options.ListStones(ctx)
	if err != nil {
		return OptionsOutput{}, dbError(ctx, "options.stones", err)
	}
	sizes, err := u.options.ListSizes(ctx)
	if err != nil {
		return OptionsOutput{}, dbError(ctx, "options.sizes", err)
	}

	out := OptionsOutput{
		Materials: make([]OptionOutput, 0, len(ms)),
		Stones:    make([]OptionOutput, 0, len(ss)),
		Sizes:     make([]string, 0, len(sizes)),
	}
	for _, m := range ms {
		out.Materials = append(out.Materials, OptionOutput{ID: m.ID, Name: m.Name, AdditionalPrice: formatAmount(m.AdditionalPrice)})
	}
	for _, s := range ss {
		out.Stones = append(out.Stones, OptionOutput{ID: s.ID, Name: s.Name, AdditionalPrice: formatAmount(s.AdditionalPrice)})
	}
	for _, s := range sizes {
		out.Sizes = append(out.Sizes, s.Label)
	}
	return out, nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   formatAmount(p.BasePrice),
		Formatted:   FormatBRL(p.BasePrice),
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductOutputs(ps []model.Product) []ProductOutput {
	out := make([]ProductOutput, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductOutput(p))
	}
	return out
}
