package repositories

import (
	"errors"
	"time"

	"disputekit/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDisputeNotFound = errors.New("dispute not found")

// DisputeRepository persists disputes mirrored from Stripe. Every read is
// scoped by the owning user id; tenant isolation lives at the query site.
type DisputeRepository interface {
	Upsert(dispute *models.Dispute) error
	FindByUserID(userID uint) ([]models.Dispute, error)
	FindByIDForUser(id, userID uint) (*models.Dispute, error)
	UpdateStatus(id uint, status string) error
	CountByStatus(userID uint) (map[string]int64, error)
}

type disputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

// Upsert is keyed by stripe_dispute_id so repeated syncs with unchanged
// remote data leave rows unchanged in effective content.
func (r *disputeRepository) Upsert(dispute *models.Dispute) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_dispute_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"stripe_account_id",
			"charge_id",
			"reason",
			"amount",
			"currency",
			"status",
			"evidence_deadline",
			"payment_method_details",
			"synced_at",
			"updated_at",
		}),
	}).Create(dispute).Error
}

func (r *disputeRepository) FindByUserID(userID uint) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&disputes).Error
	return disputes, err
}

func (r *disputeRepository) FindByIDForUser(id, userID uint) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&dispute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *disputeRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Dispute{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *disputeRepository) CountByStatus(userID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.Dispute{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
