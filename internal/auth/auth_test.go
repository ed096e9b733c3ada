package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	ctx := context.Background()
	manager := NewJWTManager("test-secret", time.Hour)

	t.Run("round trip keeps subject", func(t *testing.T) {
		token, err := manager.Issue("user-1")
		require.NoError(t, err)

		identity, err := manager.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.UserID)
	})

	t.Run("rejects other secret", func(t *testing.T) {
		token, err := NewJWTManager("other-secret", time.Hour).Issue("user-1")
		require.NoError(t, err)

		_, err = manager.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := NewJWTManager("test-secret", -time.Minute).Issue("user-1")
		require.NoError(t, err)

		_, err = manager.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := manager.Verify(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, DefaultClaims{
			TokenType:        AccessToken,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "user-1"},
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = manager.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
}
