package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"lume/internal/domain/model"
	repo "lume/internal/repository"
)

type RatingUsecase struct {
	products repo.ProductRepository
	ratings  repo.RatingRepository
	metrics  Metrics
}

func NewRatingUsecase(products repo.ProductRepository, ratings repo.RatingRepository, metrics Metrics) *RatingUsecase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &RatingUsecase{products: products, ratings: ratings, metrics: metrics}
}

type RatingInput struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

type RatingOutput struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Add appends a rating. A user may rate the same product any number of times.
func (u *RatingUsecase) Add(ctx context.Context, userID, productID int64, in RatingInput) (RatingOutput, error) {
	if userID <= 0 {
		return RatingOutput{}, unauthorized()
	}
	if in.Score < model.RatingMinScore || in.Score > model.RatingMaxScore {
		return RatingOutput{}, invalidInput("score must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if len([]rune(comment)) > model.RatingMaxCommentLen {
		return RatingOutput{}, invalidInput("comment too long")
	}
	if productID <= 0 {
		return RatingOutput{}, notFound("product not found")
	}

	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return RatingOutput{}, notFound("product not found")
		}
		return RatingOutput{}, dbError(ctx, "ratings.product", err)
	}

	r, err := u.ratings.Create(ctx, model.Rating{
		ProductID: productID,
		UserID:    userID,
		Score:     in.Score,
		Comment:   comment,
	})
	if errors.Is(err, repo.ErrForeignKey) {
		return RatingOutput{}, notFound("product not found")
	}
	if err != nil {
		return RatingOutput{}, dbError(ctx, "ratings.create", err)
	}

	u.metrics.RatingCreated()
	return toRatingOutput(model.RatingWithAuthor{Rating: r}), nil
}

// Recent returns the newest ratings of a product, at most ten.
func (u *RatingUsecase) Recent(ctx context.Context, productID int64) ([]RatingOutput, error) {
	rs, err := u.ratings.ListRecentByProduct(ctx, productID, recentRatingsLimit)
	if err != nil {
		return []RatingOutput{}, dbError(ctx, "ratings.recent", err)
	}
	return toRatingOutputs(rs), nil
}

func toRatingOutput(r model.RatingWithAuthor) RatingOutput {
	return RatingOutput{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func toRatingOutputs(rs []model.RatingWithAuthor) []RatingOutput {
	out := make([]RatingOutput, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRatingOutput(r))
	}
	return out
}
