package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lume/internal/domain/model"
)

// ErrContention is returned when an optimistic update keeps losing races.
var ErrContention = errors.New("session update contention")

// checkoutLease bounds how long a crashed checkout can hold a cart.
const checkoutLease = 30 * time.Second

func encodeCart(c model.Cart) ([]byte, error) {
	if c.Lines == nil {
		c.Lines = []model.CartLine{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return b, nil
}

func decodeCart(b []byte) (model.Cart, error) {
	var c model.Cart
	if len(b) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return model.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}
