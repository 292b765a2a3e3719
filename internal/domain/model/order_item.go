package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem copies everything it needs from the cart line, so later catalog
// edits never change a placed order.
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductID           int64           `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(200);not null" json:"product_name_snapshot"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
	Size                string          `gorm:"type:varchar(10)" json:"size"`
	Material            string          `gorm:"type:varchar(100)" json:"material"`
	Stone               string          `gorm:"type:varchar(100)" json:"stone"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
