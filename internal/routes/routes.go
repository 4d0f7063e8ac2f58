// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"disputekit/internal/config"
	"disputekit/internal/crypto"
	"disputekit/internal/handlers"
	"disputekit/internal/llm"
	"disputekit/internal/middleware"
	"disputekit/internal/repositories"
	"disputekit/internal/services/aidraft"
	"disputekit/internal/services/auth"
	"disputekit/internal/services/disputesync"
	"disputekit/internal/services/evidence"
	"disputekit/internal/services/stripeconnect"
	"disputekit/internal/stripeapi"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It wires repositories, services, and handlers, then groups routes by
// functionality with the auth middleware applied where required.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.AppConfig) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewStripeAccountRepository(db)
	disputeRepo := repositories.NewDisputeRepository(db)
	evidenceRepo := repositories.NewEvidenceRepository(db)
	cacheService := repositories.CacheService

	// External clients
	stripeAPI := stripeapi.New(cfg.StripeSecretKey, cfg.StripeClientID)
	llmClient := llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.AppBaseURL)
	cipher := crypto.NewCipher(cfg.EncryptionSecret)

	// Services
	authService := auth.NewService(userRepo)
	connectService := stripeconnect.NewService(stripeAPI, accountRepo, cipher, cacheService, cfg.AppBaseURL)
	syncService := disputesync.NewService(stripeAPI, accountRepo, disputeRepo, cipher, cacheService)
	evidenceService := evidence.NewService(stripeAPI, accountRepo, disputeRepo, evidenceRepo, cipher, cacheService, cfg.RemoteSubmitEnabled)
	draftService := aidraft.NewService(llmClient)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	stripeHandler := handlers.NewStripeHandler(connectService, cfg.AppBaseURL)
	disputeHandler := handlers.NewDisputeHandler(syncService, evidenceService, disputeRepo, cacheService)
	aiHandler := handlers.NewAIHandler(draftService)
	dashboardHandler := handlers.NewDashboardHandler(accountRepo, disputeRepo)

	app.Get("/health", handlers.Health)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.RefreshToken)

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/auth/logout", authHandler.Logout)

	stripeGroup := protected.Group("/stripe")
	stripeGroup.Get("/connect", stripeHandler.Connect)
	stripeGroup.Get("/callback", stripeHandler.Callback)
	stripeGroup.Delete("/disconnect", stripeHandler.Disconnect)

	disputes := protected.Group("/disputes")
	disputes.Post("/sync", disputeHandler.Sync)
	disputes.Get("/", disputeHandler.List)
	disputes.Get("/:id", disputeHandler.Get)
	disputes.Post("/:id/submit", disputeHandler.Submit)
	disputes.Post("/:id/draft", disputeHandler.SaveDraft)

	protected.Post("/ai/generate", aiHandler.Generate)

	protected.Get("/dashboard", dashboardHandler.Get)
}
