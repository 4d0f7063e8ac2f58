// Package disputesync mirrors open Stripe disputes into the local store.
package disputesync

import (
	"context"
	"errors"
	"log"
	"time"

	"disputekit/internal/crypto"
	"disputekit/internal/models"
	"disputekit/internal/repositories"

	"github.com/stripe/stripe-go/v72"
)

// One page, no pagination beyond it. A merchant with more than 100 open
// disputes sees the most recent page only.
const fetchLimit = 100

var (
	ErrNotConnected = errors.New("no stripe account connected")
	ErrSyncFailed   = errors.New("failed to sync disputes")
)

// DisputeFetcher is the slice of the Stripe API the sync needs.
type DisputeFetcher interface {
	ListDisputes(accessToken string, limit int64) ([]*stripe.Dispute, error)
}

// ListCache invalidates cached dispute listings after a sync.
type ListCache interface {
	InvalidateDisputeList(ctx context.Context, userID uint) error
}

// Result reports a completed sync.
type Result struct {
	Count    int              `json:"count"`
	Disputes []models.Dispute `json:"disputes"`
}

type Service struct {
	stripe      DisputeFetcher
	accountRepo repositories.StripeAccountRepository
	disputeRepo repositories.DisputeRepository
	cipher      *crypto.Cipher
	cache       ListCache
}

func NewService(
	stripeAPI DisputeFetcher,
	accountRepo repositories.StripeAccountRepository,
	disputeRepo repositories.DisputeRepository,
	cipher *crypto.Cipher,
	cacheService ListCache,
) *Service {
	return &Service{
		stripe:      stripeAPI,
		accountRepo: accountRepo,
		disputeRepo: disputeRepo,
		cipher:      cipher,
		cache:       cacheService,
	}
}

// Sync fetches up to one page of disputes for the user's connected
// account and upserts them keyed by the remote dispute id. Individual
// row failures are logged and skipped; the count reflects every record
// processed. The account's last-synced timestamp is stamped exactly
// once at the end. Re-running with unchanged remote data leaves the
// stored rows unchanged.
func (s *Service) Sync(ctx context.Context, userID uint) (*Result, error) {
	account, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrNotConnected
		}
		return nil, err
	}

	// An undecryptable token flows into the remote call as an empty
	// credential and surfaces as a generic sync failure.
	accessToken, err := s.cipher.Decrypt(account.AccessTokenEncrypted)
	if err != nil {
		log.Printf("Token decryption failed for account %s: %v", account.StripeAccountID, err)
		accessToken = ""
	}

	remote, err := s.stripe.ListDisputes(accessToken, fetchLimit)
	if err != nil {
		log.Printf("Dispute fetch failed for account %s: %v", account.StripeAccountID, err)
		return nil, ErrSyncFailed
	}

	now := time.Now()
	disputes := make([]models.Dispute, 0, len(remote))
	for _, rd := range remote {
		mapped := MapDispute(rd, userID, account.StripeAccountID, now)
		if err := s.disputeRepo.Upsert(&mapped); err != nil {
			log.Printf("Error upserting dispute %s: %v", mapped.StripeDisputeID, err)
		}
		disputes = append(disputes, mapped)
	}

	if err := s.accountRepo.UpdateLastSynced(account.StripeAccountID, now); err != nil {
		log.Printf("Failed to update last synced time for account %s: %v", account.StripeAccountID, err)
	}

	if err := s.cache.InvalidateDisputeList(ctx, userID); err != nil {
		log.Printf("Failed to invalidate dispute cache for user %d: %v", userID, err)
	}

	return &Result{Count: len(disputes), Disputes: disputes}, nil
}

// MapDispute converts a remote dispute into the local shape: epoch
// seconds become calendar timestamps, the optional evidence due-by
// becomes a nullable deadline, and the charge's payment method details
// are snapshotted when the charge was expanded.
func MapDispute(rd *stripe.Dispute, userID uint, stripeAccountID string, syncedAt time.Time) models.Dispute {
	d := models.Dispute{
		UserID:          userID,
		StripeAccountID: stripeAccountID,
		StripeDisputeID: rd.ID,
		Reason:          string(rd.Reason),
		Amount:          rd.Amount,
		Currency:        string(rd.Currency),
		Status:          string(rd.Status),
		SyncedAt:        syncedAt,
	}

	if rd.Charge != nil {
		d.ChargeID = rd.Charge.ID
		if pmd := rd.Charge.PaymentMethodDetails; pmd != nil && pmd.Card != nil {
			d.PaymentMethodDetails = models.JSON{
				"card": map[string]interface{}{
					"brand": string(pmd.Card.Brand),
					"last4": pmd.Card.Last4,
				},
			}
		}
	}

	if rd.Created > 0 {
		d.CreatedAt = time.Unix(rd.Created, 0)
	}

	if rd.EvidenceDetails != nil && rd.EvidenceDetails.DueBy > 0 {
		dueBy := time.Unix(rd.EvidenceDetails.DueBy, 0)
		d.EvidenceDeadline = &dueBy
	}

	return d
}
