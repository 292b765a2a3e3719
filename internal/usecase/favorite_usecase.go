package usecase

import (
	"context"
	"errors"

	repo "lume/internal/repository"
)

type FavoriteUsecase struct {
	tx        repo.TransactionManager
	favorites repo.FavoriteRepository
	metrics   Metrics
}

func NewFavoriteUsecase(tx repo.TransactionManager, favorites repo.FavoriteRepository, metrics Metrics) *FavoriteUsecase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &FavoriteUsecase{tx: tx, favorites: favorites, metrics: metrics}
}

type FavoriteOutput struct {
	ProductID int64 `json:"product_id"`
	Favorited bool  `json:"favorited"`
}

// Toggle removes the favorite if present, otherwise adds it. When two
// toggles race to add, the loser's insert is ignored and both report true.
func (u *FavoriteUsecase) Toggle(ctx context.Context, userID, productID int64) (FavoriteOutput, error) {
	if userID <= 0 {
		return FavoriteOutput{}, unauthorized()
	}
	if productID <= 0 {
		return FavoriteOutput{}, invalidInput("invalid product id")
	}

	var favorited bool
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return notFound("product not found")
			}
			return err
		}

		removed, err := r.Favorites().Delete(ctx, userID, productID)
		if err != nil {
			return err
		}
		if removed {
			favorited = false
			return nil
		}

		// inserted=false means a concurrent toggle got there first
		if _, err := r.Favorites().Create(ctx, userID, productID); err != nil {
			if errors.Is(err, repo.ErrForeignKey) {
				return notFound("product not found")
			}
			if !errors.Is(err, repo.ErrDuplicate) {
				return err
			}
		}
		favorited = true
		return nil
	})
	if err != nil {
		return FavoriteOutput{}, passThrough(ctx, "favorites.toggle", err)
	}

	u.metrics.FavoriteToggled(favorited)
	return FavoriteOutput{ProductID: productID, Favorited: favorited}, nil
}

func (u *FavoriteUsecase) ListMine(ctx context.Context, userID int64) ([]ProductOutput, error) {
	if userID <= 0 {
		return []ProductOutput{}, unauthorized()
	}
	ps, err := u.favorites.ListProductsByUser(ctx, userID)
	if err != nil {
		return []ProductOutput{}, dbError(ctx, "favorites.list", err)
	}
	return toProductOutputs(ps), nil
}
