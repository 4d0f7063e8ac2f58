package handlers

import (
	"time"

	"disputekit/internal/middleware"
	"disputekit/internal/models"
	"disputekit/internal/services/aidraft"
	"disputekit/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AIHandler struct {
	draftService *aidraft.Service
}

func NewAIHandler(draftService *aidraft.Service) *AIHandler {
	return &AIHandler{draftService: draftService}
}

// Generate drafts a dispute response from the posted dispute fields.
func (h *AIHandler) Generate(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentClaims(c); !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Dispute *disputeInput `json:"dispute"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Dispute == nil {
		return utils.BadRequest(c, "Dispute data required")
	}

	text, err := h.draftService.Draft(c.Context(), input.Dispute.toModel())
	if err != nil {
		return utils.InternalError(c, "Failed to generate response")
	}

	return utils.Success(c, fiber.Map{"response": text})
}

// disputeInput mirrors the fields the drafting prompt consumes; callers
// may post a stored dispute or an ad-hoc one.
type disputeInput struct {
	Amount               int64       `json:"amount"`
	Currency             string      `json:"currency"`
	Reason               string      `json:"reason"`
	ChargeID             string      `json:"charge_id"`
	CreatedAt            time.Time   `json:"created_at"`
	PaymentMethodDetails models.JSON `json:"payment_method_details"`
}

func (in *disputeInput) toModel() *models.Dispute {
	d := &models.Dispute{
		Amount:               in.Amount,
		Currency:             in.Currency,
		Reason:               in.Reason,
		ChargeID:             in.ChargeID,
		PaymentMethodDetails: in.PaymentMethodDetails,
	}
	d.CreatedAt = in.CreatedAt
	return d
}
