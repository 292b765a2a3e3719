package model

import "time"

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Email        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Phone        string `gorm:"type:varchar(20)" json:"phone"`
	IsAdmin      bool   `gorm:"not null" json:"is_admin"`
	//ログアウトで加算し、古いトークンを無効にする
	TokenVersion int       `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Orders    []Order    `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Ratings   []Rating   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
