package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"` // Unique index on Email
	Password     string `gorm:"not null"`
	Status       string `gorm:"default:'active'"`
	LastLoginAt  time.Time
	TokenVersion int `gorm:"default:1"`
}

type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
