package repositories

import (
	"errors"
	"time"

	"disputekit/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAccountNotFound = errors.New("stripe account not found")

type StripeAccountRepository interface {
	Upsert(account *models.StripeAccount) error
	GetByUserID(userID uint) (*models.StripeAccount, error)
	GetByAccountID(userID uint, stripeAccountID string) (*models.StripeAccount, error)
	DeleteByUserID(userID uint) error
	UpdateLastSynced(stripeAccountID string, at time.Time) error
	UpdateTokens(stripeAccountID, accessEnc, refreshEnc string, expiresAt time.Time) error
}

type stripeAccountRepository struct {
	db *gorm.DB
}

func NewStripeAccountRepository(db *gorm.DB) StripeAccountRepository {
	return &stripeAccountRepository{db: db}
}

// Upsert inserts or updates the connection keyed by stripe_account_id,
// so a reconnect refreshes tokens instead of duplicating the row.
func (r *stripeAccountRepository) Upsert(account *models.StripeAccount) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"stripe_email",
			"access_token_encrypted",
			"refresh_token_encrypted",
			"token_expires_at",
			"updated_at",
		}),
	}).Create(account).Error
}

func (r *stripeAccountRepository) GetByUserID(userID uint) (*models.StripeAccount, error) {
	var account models.StripeAccount
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *stripeAccountRepository) GetByAccountID(userID uint, stripeAccountID string) (*models.StripeAccount, error) {
	var account models.StripeAccount
	err := r.db.Where("user_id = ? AND stripe_account_id = ?", userID, stripeAccountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// DeleteByUserID removes the user's connection. Deleting an absent row
// is not an error; disconnect is idempotent.
func (r *stripeAccountRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.StripeAccount{}).Error
}

func (r *stripeAccountRepository) UpdateLastSynced(stripeAccountID string, at time.Time) error {
	return r.db.Model(&models.StripeAccount{}).
		Where("stripe_account_id = ?", stripeAccountID).
		UpdateColumn("last_synced_at", at).Error
}

func (r *stripeAccountRepository) UpdateTokens(stripeAccountID, accessEnc, refreshEnc string, expiresAt time.Time) error {
	return r.db.Model(&models.StripeAccount{}).
		Where("stripe_account_id = ?", stripeAccountID).
		Updates(map[string]interface{}{
			"access_token_encrypted":  accessEnc,
			"refresh_token_encrypted": refreshEnc,
			"token_expires_at":        expiresAt,
		}).Error
}
