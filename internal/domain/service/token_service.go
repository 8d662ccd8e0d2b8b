package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates the session tokens that replace the
// original design's ambient session storage. The access token carries the
// user identifier and category so handlers can gate by role statelessly.
type TokenService interface {
	// GenerateTokens creates an access token and a refresh token for the
	// given user identifier and category.
	GenerateTokens(userID string, category string) (accessToken string, refreshToken string, err error)

	// ValidateToken checks the validity of a token string against a secret.
	ValidateToken(tokenString string, secret string) (*jwt.Token, error)

	// GetRefreshTokenDuration returns the configured refresh token lifetime.
	GetRefreshTokenDuration() time.Duration
}
