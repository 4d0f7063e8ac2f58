package handlers

import (
	"errors"

	"disputekit/internal/middleware"
	"disputekit/internal/models"
	"disputekit/internal/repositories"
	"disputekit/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	accountRepo repositories.StripeAccountRepository
	disputeRepo repositories.DisputeRepository
}

func NewDashboardHandler(
	accountRepo repositories.StripeAccountRepository,
	disputeRepo repositories.DisputeRepository,
) *DashboardHandler {
	return &DashboardHandler{
		accountRepo: accountRepo,
		disputeRepo: disputeRepo,
	}
}

// Get returns the user's connection status and dispute counts by
// status.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	connected := true
	var account fiber.Map
	acc, err := h.accountRepo.GetByUserID(claims.UserID)
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound):
		connected = false
	case err != nil:
		return utils.InternalError(c, "Failed to load dashboard")
	default:
		account = fiber.Map{
			"stripe_account_id": acc.StripeAccountID,
			"stripe_email":      acc.StripeEmail,
			"last_synced_at":    acc.LastSyncedAt,
		}
	}

	counts, err := h.disputeRepo.CountByStatus(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load dashboard")
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	return utils.Success(c, fiber.Map{
		"connected":      connected,
		"account":        account,
		"total_disputes": total,
		"needs_response": counts[models.DisputeStatusNeedsResponse],
		"under_review":   counts[models.DisputeStatusUnderReview],
		"status_counts":  counts,
	})
}
