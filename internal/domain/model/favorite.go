package model

import "time"

// (user_id, product_id) is unique.
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_favorites_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:uq_favorites_user_product;index" json:"product_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
