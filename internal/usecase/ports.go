package usecase

import (
	"context"

	"lume/internal/domain/model"
)

// OrderEventPublisher sends order lifecycle events to the outside world.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt model.OrderEvent) error
}

type Metrics interface {
	OrderPlaced()
	CheckoutFailed(reason string)
	FavoriteToggled(favorited bool)
	RatingCreated()
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderEvent(context.Context, model.OrderEvent) error { return nil }

type nopMetrics struct{}

func (nopMetrics) OrderPlaced()          {}
func (nopMetrics) CheckoutFailed(string) {}
func (nopMetrics) FavoriteToggled(bool)  {}
func (nopMetrics) RatingCreated()        {}
