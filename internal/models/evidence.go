package models

import (
	"time"

	"gorm.io/gorm"
)

// Evidence is a drafted or submitted dispute response. Rows are append
// only; history accumulates and is listed most recent first.
type Evidence struct {
	gorm.Model
	DisputeID         uint `gorm:"not null;index"`
	UserID            uint `gorm:"not null;index"`
	Content           string
	SubmittedToStripe bool `gorm:"default:false"`
	StripeEvidenceID  string
	SubmittedAt       *time.Time
}
