// Package stripeconnect implements the Stripe OAuth connection
// lifecycle: building the authorization redirect, exchanging the
// callback code for tokens, storing them encrypted, and disconnecting.
package stripeconnect

import (
	"context"
	"errors"
	"time"

	"disputekit/internal/crypto"
	"disputekit/internal/models"
	"disputekit/internal/repositories"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
)

// Stripe OAuth access tokens typically live one hour; the token
// endpoint does not always report expires_in.
const defaultTokenLifetime = 3600 * time.Second

const stateTTL = 15 * time.Minute

var (
	ErrExchangeFailed = errors.New("failed to connect stripe account")
	ErrStateMismatch  = errors.New("oauth state mismatch")
	ErrNoToken        = errors.New("authorization response carried no token pair")
)

// StateStore holds one-time OAuth state nonces.
type StateStore interface {
	SetOAuthState(ctx context.Context, userID uint, state string, ttl time.Duration) error
	TakeOAuthState(ctx context.Context, userID uint) (string, error)
}

// OAuthExchanger is the slice of the Stripe API the connect flow needs.
type OAuthExchanger interface {
	AuthorizeURL(redirectURI, state string) string
	ExchangeCode(code string) (*stripe.OAuthToken, error)
	RefreshToken(refreshToken string) (*stripe.OAuthToken, error)
}

type Service struct {
	stripe      OAuthExchanger
	accountRepo repositories.StripeAccountRepository
	cipher      *crypto.Cipher
	cache       StateStore
	callbackURL string
}

func NewService(
	stripeAPI OAuthExchanger,
	accountRepo repositories.StripeAccountRepository,
	cipher *crypto.Cipher,
	cacheService StateStore,
	appBaseURL string,
) *Service {
	return &Service{
		stripe:      stripeAPI,
		accountRepo: accountRepo,
		cipher:      cipher,
		cache:       cacheService,
		callbackURL: appBaseURL + "/api/stripe/callback",
	}
}

// BeginAuthorization issues a one-time state nonce for the user and
// returns the Stripe authorization URL to redirect to. No local state
// changes beyond the nonce.
func (s *Service) BeginAuthorization(ctx context.Context, userID uint) (string, error) {
	state := uuid.NewString()
	if err := s.cache.SetOAuthState(ctx, userID, state, stateTTL); err != nil {
		return "", err
	}
	return s.stripe.AuthorizeURL(s.callbackURL, state), nil
}

// CompleteAuthorization exchanges the callback code for a token pair,
// encrypts both tokens, and upserts the connection keyed by the Stripe
// account id. Nothing is persisted if any step fails; tokens at rest
// are always encrypted.
func (s *Service) CompleteAuthorization(ctx context.Context, userID uint, userEmail, code, state string) (*models.StripeAccount, error) {
	stored, err := s.cache.TakeOAuthState(ctx, userID)
	if err == nil && stored != "" && stored != state {
		return nil, ErrStateMismatch
	}

	token, err := s.stripe.ExchangeCode(code)
	if err != nil {
		return nil, ErrExchangeFailed
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		return nil, ErrNoToken
	}

	accessEnc, err := s.cipher.Encrypt(token.AccessToken)
	if err != nil {
		return nil, err
	}
	refreshEnc, err := s.cipher.Encrypt(token.RefreshToken)
	if err != nil {
		return nil, err
	}

	account := &models.StripeAccount{
		UserID:                userID,
		StripeAccountID:       token.StripeUserID,
		StripeEmail:           userEmail,
		AccessTokenEncrypted:  accessEnc,
		RefreshTokenEncrypted: refreshEnc,
		TokenExpiresAt:        time.Now().Add(defaultTokenLifetime),
	}
	if err := s.accountRepo.Upsert(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Disconnect deletes the user's connection. Absence of a row is not an
// error.
func (s *Service) Disconnect(userID uint) error {
	return s.accountRepo.DeleteByUserID(userID)
}

// RefreshAccessToken replaces the stored token pair using the
// refresh_token grant. Plaintext tokens exist only in memory here.
func (s *Service) RefreshAccessToken(account *models.StripeAccount) error {
	refreshTok, err := s.cipher.Decrypt(account.RefreshTokenEncrypted)
	if err != nil || refreshTok == "" {
		return ErrExchangeFailed
	}

	token, err := s.stripe.RefreshToken(refreshTok)
	if err != nil {
		return ErrExchangeFailed
	}

	accessEnc, err := s.cipher.Encrypt(token.AccessToken)
	if err != nil {
		return err
	}
	refreshEnc := account.RefreshTokenEncrypted
	if token.RefreshToken != "" {
		if refreshEnc, err = s.cipher.Encrypt(token.RefreshToken); err != nil {
			return err
		}
	}

	expiresAt := time.Now().Add(defaultTokenLifetime)
	return s.accountRepo.UpdateTokens(account.StripeAccountID, accessEnc, refreshEnc, expiresAt)
}
