// Package middleware provides HTTP middleware for the application,
// used with the fiber web framework.
package middleware

import (
	"log"
	"strings"

	"disputekit/internal/models"
	"disputekit/internal/services/auth"
	"disputekit/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware handles JWT token validation and user authentication.
// It resolves the token from the Authorization header or the
// access_token cookie (the cookie path serves browser redirects in the
// Stripe OAuth flow) and adds the user claims to the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Handler validates the token's signature, expiry, and token version,
// and confirms the user still exists before storing claims in context.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	tokenString := ""

	authHeader := c.Get("Authorization")
	switch {
	case strings.HasPrefix(authHeader, "Bearer "):
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	case c.Cookies("access_token") != "":
		tokenString = c.Cookies("access_token")
	default:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization"})
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		log.Printf("Error getting token version for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	if claims.TokenVersion != currentVersion {
		log.Printf("Token version mismatch for user %d. Token: %d, DB: %d",
			claims.UserID, claims.TokenVersion, currentVersion)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	if _, err := m.authService.GetUserByID(claims.UserID); err != nil {
		log.Printf("User %d from token not found", claims.UserID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// CurrentClaims returns the authenticated user's claims from context.
func CurrentClaims(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	return claims, ok
}
