package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is priced once, when added. Catalog edits afterwards do not
// touch it.
type CartLine struct {
	ID          string          `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Size        string          `json:"size"`
	Material    string          `json:"material"`
	Stone       string          `json:"stone"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewCartLine prices a configured product.
func NewCartLine(p Product, m Material, s Stone, size string, qty int64) CartLine {
	unit := UnitPrice(p.BasePrice, m.AdditionalPrice, s.AdditionalPrice)
	return CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		Size:        size,
		Material:    m.Name,
		Stone:       s.Name,
		UnitPrice:   unit,
		Subtotal:    LineSubtotal(unit, qty),
	}
}

// Cart is the per-session cart; it lives in the session store, not in
// relational tables.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal)
	}
	return total.Round(2)
}

// Append adds a line; lines are never merged, two identical configurations
// stay as two lines. Each stored line gets its own id.
func (c *Cart) Append(l CartLine) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	c.Lines = append(c.Lines, l)
}

// Remove drops the given lines by id and keeps everything else, including
// lines added after taken was read.
func (c *Cart) Remove(taken []CartLine) {
	if len(taken) == 0 {
		return
	}
	gone := make(map[string]struct{}, len(taken))
	for _, l := range taken {
		gone[l.ID] = struct{}{}
	}
	kept := c.Lines[:0:0]
	for _, l := range c.Lines {
		if _, ok := gone[l.ID]; !ok {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
}

// Session is a server-side session row used by the database cart store.
// CheckoutUntil is set while a checkout holds the cart.
type Session struct {
	ID            string     `gorm:"type:varchar(64);primaryKey"`
	Data          string     `gorm:"type:text;not null"`
	ExpiresAt     time.Time  `gorm:"not null;index"`
	CheckoutUntil *time.Time `gorm:"default:null"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime"`
}
