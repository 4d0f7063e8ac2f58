package auth

import (
	"testing"

	"disputekit/internal/models"
	"disputekit/internal/repositories"
	"disputekit/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepo) GetTokenVersion(userID uint) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func hashedUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Email:        email,
		Password:     string(hash),
		Status:       "active",
		TokenVersion: 1,
	}
	u.ID = 1
	return u
}

func TestSignup(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := new(MockUserRepo)
	repo.On("GetByEmail", "new@example.com").Return(nil, repositories.ErrUserNotFound)

	var created *models.User
	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.User)
		created.ID = 42
	}).Return(nil)

	user, access, refresh, err := NewService(repo).Signup("  New@Example.COM ", "hunter2hunter2")

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, 1, user.TokenVersion)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	// The stored credential is a hash, not the password.
	assert.NotEqual(t, "hunter2hunter2", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter2hunter2")))
}

func TestSignup_Validation(t *testing.T) {
	repo := new(MockUserRepo)
	s := NewService(repo)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "hunter2hunter2"},
		{"empty password", "a@example.com", ""},
		{"short password", "a@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := s.Signup(tt.email, tt.password)
			assert.Error(t, err)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSignup_EmailTaken(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByEmail", "taken@example.com").Return(hashedUser(t, "taken@example.com", "pw"), nil)

	_, _, _, err := NewService(repo).Signup("taken@example.com", "hunter2hunter2")

	assert.ErrorIs(t, err, ErrEmailTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := new(MockUserRepo)
	user := hashedUser(t, "user@example.com", "correct-password")
	repo.On("GetByEmail", "user@example.com").Return(user, nil)
	repo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return !u.LastLoginAt.IsZero()
	})).Return(nil)

	got, access, refresh, err := NewService(repo).Login("User@Example.com", "correct-password")

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := utils.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.TokenVersion, claims.TokenVersion)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByEmail", "user@example.com").Return(hashedUser(t, "user@example.com", "correct-password"), nil)

	_, _, _, err := NewService(repo).Login("user@example.com", "wrong-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrUserNotFound)

	_, _, _, err := NewService(repo).Login("nobody@example.com", "whatever")

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("IncrementTokenVersion", uint(1)).Return(nil)

	require.NoError(t, NewService(repo).Logout(1))
	repo.AssertExpectations(t)
}

func TestRefreshTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := new(MockUserRepo)
	user := hashedUser(t, "user@example.com", "pw")

	_, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
	})
	require.NoError(t, err)

	repo.On("GetByID", user.ID).Return(user, nil)

	access, newRefresh, err := NewService(repo).RefreshTokens(refresh)

	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)
}

func TestRefreshTokens_StaleVersionRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := new(MockUserRepo)
	user := hashedUser(t, "user@example.com", "pw")

	_, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
	})
	require.NoError(t, err)

	// A logout since issuance bumped the stored version.
	user.TokenVersion = 2
	repo.On("GetByID", user.ID).Return(user, nil)

	_, _, err = NewService(repo).RefreshTokens(refresh)
	assert.Error(t, err)
}

func TestRefreshTokens_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := new(MockUserRepo)

	_, _, err := NewService(repo).RefreshTokens("not.a.token")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "GetByID", mock.Anything)
}
