package usecase

import (
	"context"
	"errors"

	repo "lume/internal/repository"
)

// AdminGate is checked at the start of every admin operation. It reads the
// admin flag from storage, so a revoked admin is refused even with a token
// issued before the change.
type AdminGate struct {
	users repo.UserRepository
}

func NewAdminGate(users repo.UserRepository) *AdminGate {
	return &AdminGate{users: users}
}

func (g *AdminGate) Require(ctx context.Context, actorID int64) error {
	if actorID <= 0 {
		return unauthorized()
	}
	u, err := g.users.FindByID(ctx, actorID)
	if errors.Is(err, repo.ErrNotFound) {
		return forbidden()
	}
	if err != nil {
		return dbError(ctx, "admin_gate", err)
	}
	if !u.IsAdmin {
		return forbidden()
	}
	return nil
}
