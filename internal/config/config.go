package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// AppConfig carries the secrets and switches the services need. Callers
// get it from Load, which fails fast on missing required secrets instead
// of letting a nil client surface later as a remote-call failure.
// JWT_SECRET is read by the token utilities directly; Load only checks
// that it is set.
type AppConfig struct {
	StripeSecretKey     string
	StripeClientID      string
	OpenRouterAPIKey    string
	EncryptionSecret    string
	AppBaseURL          string
	RemoteSubmitEnabled bool
}

var (
	ErrMissingJWTSecret        = errors.New("JWT_SECRET is not configured")
	ErrMissingStripeKey        = errors.New("STRIPE_SECRET_KEY is not configured")
	ErrMissingStripeClientID   = errors.New("STRIPE_CLIENT_ID is not configured")
	ErrMissingOpenRouterAPIKey = errors.New("OPENROUTER_API_KEY is not configured")
	ErrMissingEncryptionSecret = errors.New("ENCRYPTION_SECRET is not configured")
)

// Load builds the application config from the environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeClientID:      os.Getenv("STRIPE_CLIENT_ID"),
		OpenRouterAPIKey:    os.Getenv("OPENROUTER_API_KEY"),
		EncryptionSecret:    os.Getenv("ENCRYPTION_SECRET"),
		AppBaseURL:          GetEnv("APP_BASE_URL", "http://localhost:3000"),
		RemoteSubmitEnabled: GetBoolEnv("REMOTE_SUBMIT_ENABLED", true),
	}

	switch {
	case os.Getenv("JWT_SECRET") == "":
		return nil, ErrMissingJWTSecret
	case cfg.StripeSecretKey == "":
		return nil, ErrMissingStripeKey
	case cfg.StripeClientID == "":
		return nil, ErrMissingStripeClientID
	case cfg.OpenRouterAPIKey == "":
		return nil, ErrMissingOpenRouterAPIKey
	case cfg.EncryptionSecret == "":
		return nil, ErrMissingEncryptionSecret
	}

	return cfg, nil
}
