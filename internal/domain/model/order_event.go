package model

import "time"

const (
	OrderEventPlaced        = "order.placed"
	OrderEventStatusChanged = "order.status_changed"
)

// OrderEvent is published after an order commits or changes status.
type OrderEvent struct {
	Type       string      `json:"type"`
	OrderID    int64       `json:"order_id"`
	UserID     int64       `json:"user_id"`
	Status     OrderStatus `json:"status"`
	PrevStatus OrderStatus `json:"prev_status,omitempty"`
	Total      string      `json:"total"`
	OccurredAt time.Time   `json:"occurred_at"`
}
