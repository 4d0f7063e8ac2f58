package stripeconnect

import (
	"context"
	"errors"
	"testing"
	"time"

	"disputekit/internal/crypto"
	"disputekit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"
)

type MockExchanger struct {
	mock.Mock
}

func (m *MockExchanger) AuthorizeURL(redirectURI, state string) string {
	return m.Called(redirectURI, state).String(0)
}

func (m *MockExchanger) ExchangeCode(code string) (*stripe.OAuthToken, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.OAuthToken), args.Error(1)
}

func (m *MockExchanger) RefreshToken(refreshToken string) (*stripe.OAuthToken, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.OAuthToken), args.Error(1)
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Upsert(account *models.StripeAccount) error {
	return m.Called(account).Error(0)
}

func (m *MockAccountRepo) GetByUserID(userID uint) (*models.StripeAccount, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StripeAccount), args.Error(1)
}

func (m *MockAccountRepo) GetByAccountID(userID uint, stripeAccountID string) (*models.StripeAccount, error) {
	args := m.Called(userID, stripeAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StripeAccount), args.Error(1)
}

func (m *MockAccountRepo) DeleteByUserID(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockAccountRepo) UpdateLastSynced(stripeAccountID string, at time.Time) error {
	return m.Called(stripeAccountID, at).Error(0)
}

func (m *MockAccountRepo) UpdateTokens(stripeAccountID, accessEnc, refreshEnc string, expiresAt time.Time) error {
	return m.Called(stripeAccountID, accessEnc, refreshEnc, expiresAt).Error(0)
}

type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) SetOAuthState(ctx context.Context, userID uint, state string, ttl time.Duration) error {
	return m.Called(ctx, userID, state, ttl).Error(0)
}

func (m *MockStateStore) TakeOAuthState(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func TestBeginAuthorization(t *testing.T) {
	exchanger := new(MockExchanger)
	accounts := new(MockAccountRepo)
	states := new(MockStateStore)
	cipher := crypto.NewCipher("secret")

	var issued string
	states.On("SetOAuthState", mock.Anything, uint(1), mock.AnythingOfType("string"), 15*time.Minute).
		Run(func(args mock.Arguments) { issued = args.String(2) }).
		Return(nil)
	exchanger.On("AuthorizeURL", "https://app.example.com/api/stripe/callback", mock.AnythingOfType("string")).
		Return("https://connect.stripe.com/oauth/authorize?state=xyz")

	s := NewService(exchanger, accounts, cipher, states, "https://app.example.com")
	url, err := s.BeginAuthorization(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "https://connect.stripe.com/oauth/authorize?state=xyz", url)
	assert.NotEmpty(t, issued)
	// The nonce passed to Stripe is the one that was stored.
	exchanger.AssertCalled(t, "AuthorizeURL", mock.Anything, issued)
}

func TestCompleteAuthorization_EncryptsTokensAtRest(t *testing.T) {
	exchanger := new(MockExchanger)
	accounts := new(MockAccountRepo)
	states := new(MockStateStore)
	cipher := crypto.NewCipher("secret")

	states.On("TakeOAuthState", mock.Anything, uint(1)).Return("nonce-1", nil)
	exchanger.On("ExchangeCode", "ac_code").Return(&stripe.OAuthToken{
		StripeUserID: "acct_123",
		AccessToken:  "sk_live_access",
		RefreshToken: "rt_refresh",
	}, nil)

	var saved *models.StripeAccount
	accounts.On("Upsert", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(0).(*models.StripeAccount)
	}).Return(nil)

	s := NewService(exchanger, accounts, cipher, states, "https://app.example.com")
	account, err := s.CompleteAuthorization(context.Background(), 1, "merchant@example.com", "ac_code", "nonce-1")

	require.NoError(t, err)
	assert.Equal(t, "acct_123", account.StripeAccountID)
	assert.Equal(t, "merchant@example.com", account.StripeEmail)
	assert.WithinDuration(t, time.Now().Add(time.Hour), account.TokenExpiresAt, 5*time.Second)

	// Plaintext tokens never reach the repository.
	require.NotNil(t, saved)
	assert.NotEqual(t, "sk_live_access", saved.AccessTokenEncrypted)
	assert.NotEqual(t, "rt_refresh", saved.RefreshTokenEncrypted)

	access, err := cipher.Decrypt(saved.AccessTokenEncrypted)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_access", access)
	refresh, err := cipher.Decrypt(saved.RefreshTokenEncrypted)
	require.NoError(t, err)
	assert.Equal(t, "rt_refresh", refresh)
}

func TestCompleteAuthorization_StateMismatch(t *testing.T) {
	exchanger := new(MockExchanger)
	accounts := new(MockAccountRepo)
	states := new(MockStateStore)
	cipher := crypto.NewCipher("secret")

	states.On("TakeOAuthState", mock.Anything, uint(1)).Return("nonce-1", nil)

	s := NewService(exchanger, accounts, cipher, states, "https://app.example.com")
	_, err := s.CompleteAuthorization(context.Background(), 1, "merchant@example.com", "ac_code", "nonce-other")

	assert.ErrorIs(t, err, ErrStateMismatch)
	exchanger.AssertNotCalled(t, "ExchangeCode", mock.Anything)
	accounts.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestCompleteAuthorization_ExchangeFailureNothingPersisted(t *testing.T) {
	exchanger := new(MockExchanger)
	accounts := new(MockAccountRepo)
	states := new(MockStateStore)
	cipher := crypto.NewCipher("secret")

	states.On("TakeOAuthState", mock.Anything, uint(1)).Return("nonce-1", nil)
	exchanger.On("ExchangeCode", "bad_code").Return(nil, errors.New("oauth: invalid_grant"))

	s := NewService(exchanger, accounts, cipher, states, "https://app.example.com")
	_, err := s.CompleteAuthorization(context.Background(), 1, "merchant@example.com", "bad_code", "nonce-1")

	assert.ErrorIs(t, err, ErrExchangeFailed)
	accounts.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestCompleteAuthorization_MissingTokenPair(t *testing.T) {
	exchanger := new(MockExchanger)
	accounts := new(MockAccountRepo)
	states := new(MockStateStore)
	cipher := crypto.NewCipher("secret")

	states.On("TakeOAuthState", mock.Anything, uint(1)).Return("nonce-1", nil)
	exchanger.On("ExchangeCode", "ac_code").Return(&stripe.OAuthToken{
		StripeUserID: "acct_123",
		AccessToken:  "sk_live_access",
	}, nil)

	s := NewService(exchanger, accounts, cipher, states, "https://app.example.com")
	_, err := s.CompleteAuthorization(context.Background(), 1, "merchant@example.com", "ac_code", "nonce-1")

	assert.ErrorIs(t, err, ErrNoToken)
	accounts.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestDisconnect_Idempotent(t *testing.T) {
	exchanger := new(MockExchanger)
	accounts := new(MockAccountRepo)
	states := new(MockStateStore)
	cipher := crypto.NewCipher("secret")

	accounts.On("DeleteByUserID", uint(1)).Return(nil).Twice()

	s := NewService(exchanger, accounts, cipher, states, "https://app.example.com")
	require.NoError(t, s.Disconnect(1))
	require.NoError(t, s.Disconnect(1))
	accounts.AssertExpectations(t)
}

func TestRefreshAccessToken(t *testing.T) {
	exchanger := new(MockExchanger)
	accounts := new(MockAccountRepo)
	states := new(MockStateStore)
	cipher := crypto.NewCipher("secret")

	refreshEnc, err := cipher.Encrypt("rt_refresh")
	require.NoError(t, err)
	account := &models.StripeAccount{
		UserID:                1,
		StripeAccountID:       "acct_123",
		RefreshTokenEncrypted: refreshEnc,
	}

	exchanger.On("RefreshToken", "rt_refresh").Return(&stripe.OAuthToken{
		StripeUserID: "acct_123",
		AccessToken:  "sk_live_rotated",
	}, nil)

	accounts.On("UpdateTokens", "acct_123", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			rotated, derr := cipher.Decrypt(args.String(1))
			require.NoError(t, derr)
			assert.Equal(t, "sk_live_rotated", rotated)
			// Grant responses without a new refresh token keep the old one.
			assert.Equal(t, refreshEnc, args.String(2))
		}).
		Return(nil)

	s := NewService(exchanger, accounts, cipher, states, "https://app.example.com")
	require.NoError(t, s.RefreshAccessToken(account))
	accounts.AssertExpectations(t)
}

func TestRefreshAccessToken_UndecryptableStoredToken(t *testing.T) {
	exchanger := new(MockExchanger)
	accounts := new(MockAccountRepo)
	states := new(MockStateStore)
	cipher := crypto.NewCipher("secret")

	account := &models.StripeAccount{
		StripeAccountID:       "acct_123",
		RefreshTokenEncrypted: "garbage",
	}

	s := NewService(exchanger, accounts, cipher, states, "https://app.example.com")
	err := s.RefreshAccessToken(account)

	assert.ErrorIs(t, err, ErrExchangeFailed)
	exchanger.AssertNotCalled(t, "RefreshToken", mock.Anything)
}
