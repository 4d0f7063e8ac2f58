package handlers

import (
	"context"
	"log"
	"net/url"

	"disputekit/internal/middleware"
	"disputekit/internal/models"
	"disputekit/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ConnectService is the OAuth connection lifecycle the handler drives.
type ConnectService interface {
	BeginAuthorization(ctx context.Context, userID uint) (string, error)
	CompleteAuthorization(ctx context.Context, userID uint, userEmail, code, state string) (*models.StripeAccount, error)
	Disconnect(userID uint) error
}

type StripeHandler struct {
	connectService ConnectService
	appBaseURL     string
}

func NewStripeHandler(connectService ConnectService, appBaseURL string) *StripeHandler {
	return &StripeHandler{
		connectService: connectService,
		appBaseURL:     appBaseURL,
	}
}

// Connect redirects the authenticated user to the Stripe authorization
// page.
func (h *StripeHandler) Connect(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return c.Redirect(h.appBaseURL + "/login")
	}

	authURL, err := h.connectService.BeginAuthorization(c.Context(), claims.UserID)
	if err != nil {
		log.Printf("Failed to begin stripe authorization for user %d: %v", claims.UserID, err)
		return h.dashboardRedirect(c, "error", "Failed to connect Stripe account")
	}
	return c.Redirect(authURL)
}

// Callback completes the OAuth flow. Stripe redirects here with either
// an authorization code or an error parameter; errors surface to the
// dashboard as a query-string message with nothing persisted.
func (h *StripeHandler) Callback(c *fiber.Ctx) error {
	if oauthErr := c.Query("error"); oauthErr != "" {
		return h.dashboardRedirect(c, "error", oauthErr)
	}

	code := c.Query("code")
	if code == "" {
		return h.dashboardRedirect(c, "error", "No authorization code")
	}

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return c.Redirect(h.appBaseURL + "/login")
	}

	_, err := h.connectService.CompleteAuthorization(c.Context(), claims.UserID, claims.Email, code, c.Query("state"))
	if err != nil {
		log.Printf("Stripe OAuth error for user %d: %v", claims.UserID, err)
		return h.dashboardRedirect(c, "error", "Failed to connect Stripe account")
	}

	return h.dashboardRedirect(c, "success", "Stripe account connected")
}

// Disconnect deletes the user's Stripe connection. Idempotent.
func (h *StripeHandler) Disconnect(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	if err := h.connectService.Disconnect(claims.UserID); err != nil {
		log.Printf("Failed to disconnect stripe account for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to disconnect Stripe account")
	}

	return utils.Success(c, fiber.Map{"message": "Stripe account disconnected"})
}

func (h *StripeHandler) dashboardRedirect(c *fiber.Ctx, key, message string) error {
	return c.Redirect(h.appBaseURL + "/dashboard?" + key + "=" + url.QueryEscape(message))
}
