package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/form-service/internal/auth"
	"github.com/SAP-F-2025/form-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/form-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestService(t *testing.T, issuer auth.TokenIssuer) (AuthService, *postgres.Repository) {
	t.Helper()
	repo := postgres.NewRepository(testutil.SetupTestDB(t))
	manager := NewServiceManager(Dependencies{
		Repo:   repo,
		Issuer: issuer,
		Logger: testutil.NewTestLogger(),
	})
	return manager.Auth(), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	service, repo := newAuthTestService(t, jwtManager)

	registered, err := service.Register(ctx, &RegisterRequest{Email: " Alice@Example.com ", Password: "s3cret!"})
	require.NoError(t, err)
	require.NotEmpty(t, registered.Token)

	identity, err := jwtManager.Verify(ctx, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, identity.UserID)

	user, err := repo.User().GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := service.Register(ctx, &RegisterRequest{Email: "alice@example.com", Password: "another"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.True(t, IsConflict(err))
	})

	t.Run("login with the right password", func(t *testing.T) {
		loggedIn, err := service.Login(ctx, &LoginRequest{Email: "ALICE@example.com", Password: "s3cret!"})
		require.NoError(t, err)
		assert.Equal(t, registered.UserID, loggedIn.UserID)

		user, err := repo.User().GetByID(ctx, registered.UserID)
		require.NoError(t, err)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = service.Login(ctx, &LoginRequest{Email: "bob@example.com", Password: "s3cret!"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := service.Register(ctx, &RegisterRequest{Email: "not-an-email", Password: "123"})
		assert.True(t, IsValidation(err))
	})
}

func TestAuthService_ExternalProvider(t *testing.T) {
	service, _ := newAuthTestService(t, nil)

	_, err := service.Register(context.Background(), &RegisterRequest{Email: "a@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrTokenIssuing)

	_, err = service.Login(context.Background(), &LoginRequest{Email: "a@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrTokenIssuing)
}
