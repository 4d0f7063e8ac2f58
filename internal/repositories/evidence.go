package repositories

import (
	"disputekit/internal/models"

	"gorm.io/gorm"
)

// EvidenceRepository holds drafted and submitted responses. Rows are
// never updated or deleted; each save or submit appends a new one.
type EvidenceRepository interface {
	Create(evidence *models.Evidence) error
	FindByDisputeID(disputeID, userID uint) ([]models.Evidence, error)
}

type evidenceRepository struct {
	db *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) EvidenceRepository {
	return &evidenceRepository{db: db}
}

func (r *evidenceRepository) Create(evidence *models.Evidence) error {
	return r.db.Create(evidence).Error
}

func (r *evidenceRepository) FindByDisputeID(disputeID, userID uint) ([]models.Evidence, error) {
	var evidence []models.Evidence
	err := r.db.Where("dispute_id = ? AND user_id = ?", disputeID, userID).
		Order("created_at DESC").
		Find(&evidence).Error
	return evidence, err
}
