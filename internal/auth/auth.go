package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("token not provided")
)

// Identity is the authenticated caller extracted from a bearer token
type Identity struct {
	UserID string
}

// TokenVerifier validates a bearer token and returns the caller identity
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// TokenIssuer signs tokens for locally registered users
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
