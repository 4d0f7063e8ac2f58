package handlers

import (
	"errors"
	"log"
	"strconv"

	"disputekit/internal/middleware"
	"disputekit/internal/repositories"
	"disputekit/internal/repositories/cache"
	"disputekit/internal/services/disputesync"
	"disputekit/internal/services/evidence"
	"disputekit/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DisputeHandler struct {
	syncService     *disputesync.Service
	evidenceService *evidence.Service
	disputeRepo     repositories.DisputeRepository
	cache           *cache.CacheService
}

func NewDisputeHandler(
	syncService *disputesync.Service,
	evidenceService *evidence.Service,
	disputeRepo repositories.DisputeRepository,
	cacheService *cache.CacheService,
) *DisputeHandler {
	return &DisputeHandler{
		syncService:     syncService,
		evidenceService: evidenceService,
		disputeRepo:     disputeRepo,
		cache:           cacheService,
	}
}

// Sync pulls the user's disputes from Stripe into the local store.
func (h *DisputeHandler) Sync(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	result, err := h.syncService.Sync(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, disputesync.ErrNotConnected) {
			return utils.BadRequest(c, "No Stripe account connected")
		}
		return utils.InternalError(c, "Failed to sync disputes")
	}

	return utils.Success(c, fiber.Map{
		"count":    result.Count,
		"disputes": result.Disputes,
		"message":  "Synced " + strconv.Itoa(result.Count) + " disputes",
	})
}

// List returns the user's disputes, newest first, served from cache
// when a sync or submission has not invalidated it.
func (h *DisputeHandler) List(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	if cached, found, err := h.cache.GetDisputeList(c.Context(), claims.UserID); err == nil && found {
		return utils.Success(c, fiber.Map{"disputes": cached})
	}

	disputes, err := h.disputeRepo.FindByUserID(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load disputes")
	}

	if err := h.cache.CacheDisputeList(c.Context(), claims.UserID, disputes); err != nil {
		log.Printf("Failed to cache dispute list for user %d: %v", claims.UserID, err)
	}

	return utils.Success(c, fiber.Map{"disputes": disputes})
}

// Get returns one dispute with its evidence history.
func (h *DisputeHandler) Get(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	disputeID, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid dispute ID")
	}

	dispute, err := h.disputeRepo.FindByIDForUser(disputeID, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrDisputeNotFound) {
			return utils.NotFound(c, "Dispute not found")
		}
		return utils.InternalError(c, "Failed to load dispute")
	}

	history, err := h.evidenceService.History(claims.UserID, disputeID)
	if err != nil {
		return utils.InternalError(c, "Failed to load evidence")
	}

	return utils.Success(c, fiber.Map{
		"dispute":  dispute,
		"evidence": history,
	})
}

// Submit sends the response text as dispute evidence.
func (h *DisputeHandler) Submit(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	disputeID, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid dispute ID")
	}

	var input struct {
		Response string `json:"response"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	ev, err := h.evidenceService.Submit(c.Context(), claims.UserID, disputeID, input.Response)
	if err != nil {
		switch {
		case errors.Is(err, evidence.ErrDisputeNotFound):
			return utils.NotFound(c, "Dispute not found")
		case errors.Is(err, evidence.ErrNotConnected):
			return utils.BadRequest(c, "No Stripe account connected")
		case errors.Is(err, evidence.ErrEmptyResponse):
			return utils.BadRequest(c, "Response content required")
		default:
			return utils.InternalError(c, "Failed to submit evidence")
		}
	}

	return utils.Success(c, fiber.Map{
		"message":    "Evidence submitted",
		"evidenceId": ev.StripeEvidenceID,
		"submitted":  ev.SubmittedToStripe,
	})
}

// SaveDraft stores a response locally without submitting to Stripe.
func (h *DisputeHandler) SaveDraft(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	disputeID, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid dispute ID")
	}

	var input struct {
		Response string `json:"response"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	ev, err := h.evidenceService.SaveDraft(claims.UserID, disputeID, input.Response)
	if err != nil {
		switch {
		case errors.Is(err, evidence.ErrDisputeNotFound):
			return utils.NotFound(c, "Dispute not found")
		case errors.Is(err, evidence.ErrEmptyResponse):
			return utils.BadRequest(c, "Response content required")
		default:
			return utils.InternalError(c, "Failed to save draft")
		}
	}

	return utils.Success(c, fiber.Map{
		"message": "Draft saved",
		"id":      ev.ID,
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
