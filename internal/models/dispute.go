package models

import (
	"time"

	"gorm.io/gorm"
)

// Dispute statuses mirrored from Stripe. Status is authoritative from
// Stripe except for the local transition to under_review on submission.
const (
	DisputeStatusNeedsResponse = "needs_response"
	DisputeStatusUnderReview   = "under_review"
	DisputeStatusWon           = "won"
	DisputeStatusLost          = "lost"
)

// Dispute is a mirrored Stripe chargeback, created and updated only by
// the sync routine, keyed by StripeDisputeID.
type Dispute struct {
	gorm.Model
	UserID               uint   `gorm:"not null;index"`
	StripeAccountID      string `gorm:"not null;index"`
	StripeDisputeID      string `gorm:"uniqueIndex;not null"` // upsert key
	ChargeID             string
	Reason               string
	Amount               int64 `gorm:"not null"` // minor currency units
	Currency             string
	Status               string
	EvidenceDeadline     *time.Time
	PaymentMethodDetails JSON `gorm:"type:jsonb"`
	SyncedAt             time.Time
}

// CardBrand returns the card brand from the payment method snapshot,
// or "card" when the snapshot is missing or shaped unexpectedly.
func (d *Dispute) CardBrand() string {
	if card, ok := d.PaymentMethodDetails["card"].(map[string]interface{}); ok {
		if brand, ok := card["brand"].(string); ok && brand != "" {
			return brand
		}
	}
	return "card"
}

// CardLast4 returns the last four digits from the payment method
// snapshot, or "****" when unavailable.
func (d *Dispute) CardLast4() string {
	if card, ok := d.PaymentMethodDetails["card"].(map[string]interface{}); ok {
		if last4, ok := card["last4"].(string); ok && last4 != "" {
			return last4
		}
	}
	return "****"
}
