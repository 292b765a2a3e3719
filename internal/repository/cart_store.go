package repository

import (
	"context"

	"lume/internal/domain/model"
)

// CartStore keeps one cart per session id.
// A missing or expired session loads as an empty cart.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (model.Cart, error)
	// Update applies fn to the current cart and saves it atomically.
	// If fn returns an error nothing is saved.
	Update(ctx context.Context, sessionID string, fn func(c *model.Cart) error) error
	Clear(ctx context.Context, sessionID string) error
	// Consume hands the current lines to fn while holding the session's
	// checkout lease. On success exactly those lines are removed; lines added
	// while fn runs stay. A second Consume on the same session while the
	// lease is held fails with ErrCheckoutInProgress.
	Consume(ctx context.Context, sessionID string, fn func(lines []model.CartLine) error) error
}
