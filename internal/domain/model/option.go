package model

import "github.com/shopspring/decimal"

type Material struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"type:varchar(100);not null" json:"name"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"additional_price"`
}

type Stone struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"type:varchar(100);not null" json:"name"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"additional_price"`
}

// Size is a ring size label ("10".."20"); it never changes the price.
type Size struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Label string `gorm:"type:varchar(10);not null;uniqueIndex" json:"label"`
}
