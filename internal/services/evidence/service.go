// Package evidence saves drafted dispute responses and submits them to
// Stripe. A single configuration switch decides whether submission
// reaches Stripe or stays local; there is one code path either way.
package evidence

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"disputekit/internal/crypto"
	"disputekit/internal/models"
	"disputekit/internal/repositories"
)

var (
	ErrDisputeNotFound = errors.New("dispute not found")
	ErrNotConnected    = errors.New("no stripe account connected")
	ErrEmptyResponse   = errors.New("response content required")
	ErrSubmitFailed    = errors.New("failed to submit evidence")
)

// EvidenceSubmitter is the slice of the Stripe API submission needs.
type EvidenceSubmitter interface {
	SubmitEvidence(accessToken, disputeID, responseText string) (string, error)
}

// ListCache invalidates cached dispute listings after a submission.
type ListCache interface {
	InvalidateDisputeList(ctx context.Context, userID uint) error
}

type Service struct {
	stripe        EvidenceSubmitter
	accountRepo   repositories.StripeAccountRepository
	disputeRepo   repositories.DisputeRepository
	evidenceRepo  repositories.EvidenceRepository
	cipher        *crypto.Cipher
	cache         ListCache
	remoteEnabled bool
}

func NewService(
	stripeAPI EvidenceSubmitter,
	accountRepo repositories.StripeAccountRepository,
	disputeRepo repositories.DisputeRepository,
	evidenceRepo repositories.EvidenceRepository,
	cipher *crypto.Cipher,
	cacheService ListCache,
	remoteEnabled bool,
) *Service {
	return &Service{
		stripe:        stripeAPI,
		accountRepo:   accountRepo,
		disputeRepo:   disputeRepo,
		evidenceRepo:  evidenceRepo,
		cipher:        cipher,
		cache:         cacheService,
		remoteEnabled: remoteEnabled,
	}
}

// SaveDraft appends a local Evidence row without touching Stripe.
func (s *Service) SaveDraft(userID, disputeID uint, content string) (*models.Evidence, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyResponse
	}

	dispute, err := s.disputeRepo.FindByIDForUser(disputeID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}

	evidence := &models.Evidence{
		DisputeID: dispute.ID,
		UserID:    userID,
		Content:   content,
	}
	if err := s.evidenceRepo.Create(evidence); err != nil {
		return nil, err
	}
	return evidence, nil
}

// Submit validates ownership and content before any remote call, then
// submits the response as evidence. With remote submission disabled the
// row is stored unsubmitted and the dispute status is left alone.
// Stripe submission is never retried: the remote side effect is not
// safe to repeat blindly, so a status-update failure after a successful
// submission is logged and the evidence row stands as the record.
func (s *Service) Submit(ctx context.Context, userID, disputeID uint, content string) (*models.Evidence, error) {
	dispute, err := s.disputeRepo.FindByIDForUser(disputeID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}

	account, err := s.accountRepo.GetByAccountID(userID, dispute.StripeAccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrNotConnected
		}
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyResponse
	}

	if !s.remoteEnabled {
		evidence := &models.Evidence{
			DisputeID: dispute.ID,
			UserID:    userID,
			Content:   content,
		}
		if err := s.evidenceRepo.Create(evidence); err != nil {
			return nil, err
		}
		return evidence, nil
	}

	accessToken, err := s.cipher.Decrypt(account.AccessTokenEncrypted)
	if err != nil {
		log.Printf("Token decryption failed for account %s: %v", account.StripeAccountID, err)
		accessToken = ""
	}

	remoteID, err := s.stripe.SubmitEvidence(accessToken, dispute.StripeDisputeID, content)
	if err != nil {
		log.Printf("Error submitting evidence for dispute %s: %v", dispute.StripeDisputeID, err)
		return nil, ErrSubmitFailed
	}

	now := time.Now()
	evidence := &models.Evidence{
		DisputeID:         dispute.ID,
		UserID:            userID,
		Content:           content,
		SubmittedToStripe: true,
		StripeEvidenceID:  remoteID,
		SubmittedAt:       &now,
	}
	if err := s.evidenceRepo.Create(evidence); err != nil {
		log.Printf("Evidence submitted remotely but not recorded for dispute %s: %v", dispute.StripeDisputeID, err)
		return nil, err
	}

	if err := s.disputeRepo.UpdateStatus(dispute.ID, models.DisputeStatusUnderReview); err != nil {
		// The remote submission already happened; do not repeat it.
		log.Printf("Failed to mark dispute %d under review: %v", dispute.ID, err)
	}

	if err := s.cache.InvalidateDisputeList(ctx, userID); err != nil {
		log.Printf("Failed to invalidate dispute cache for user %d: %v", userID, err)
	}

	return evidence, nil
}

// History lists the dispute's evidence rows, most recent first.
func (s *Service) History(userID, disputeID uint) ([]models.Evidence, error) {
	if _, err := s.disputeRepo.FindByIDForUser(disputeID, userID); err != nil {
		if errors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return s.evidenceRepo.FindByDisputeID(disputeID, userID)
}
