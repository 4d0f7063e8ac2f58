package models

import (
	"time"

	"gorm.io/gorm"
)

// StripeAccount is one merchant's connected Stripe account. Tokens are
// stored encrypted (hex(iv):hex(ciphertext) blobs); plaintext exists only
// in memory during the OAuth exchange and decrypt-for-use.
type StripeAccount struct {
	gorm.Model
	UserID                uint   `gorm:"not null;index"`
	StripeAccountID       string `gorm:"uniqueIndex;not null"` // upsert key
	StripeEmail           string
	AccessTokenEncrypted  string `gorm:"not null"`
	RefreshTokenEncrypted string `gorm:"not null"`
	TokenExpiresAt        time.Time
	LastSyncedAt          *time.Time
}
