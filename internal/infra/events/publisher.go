package events

import (
	"context"

	"lume/internal/domain/model"
)

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, model.OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
