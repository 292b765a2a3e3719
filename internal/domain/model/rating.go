package model

import "time"

const (
	RatingMinScore      = 1
	RatingMaxScore      = 5
	RatingMaxCommentLen = 500
)

type Rating struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Score     int       `gorm:"not null" json:"score"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

// RatingWithAuthor is a rating joined with the author's display name.
type RatingWithAuthor struct {
	Rating
	UserName string `json:"user_name"`
}
