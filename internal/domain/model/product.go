package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// A product is the base piece; materials and stones add to its base price.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`

	// order lines keep the product alive; ratings and favorites go with it
	OrderItems []OrderItem `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
	Ratings    []Rating    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites  []Favorite  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}
