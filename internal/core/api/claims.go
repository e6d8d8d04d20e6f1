package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of access token claims worth showing to the
// user. Decoded locally without signature verification: the token is only
// displayed, never trusted for authorization decisions, and expiry shown
// here never pre-empts a request (refresh stays reactive to 401s).
type TokenClaims struct {
	Subject   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type accessTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseClaims decodes an access token's claims without verifying the
// signature.
func ParseClaims(token string) (*TokenClaims, error) {
	var claims accessTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}

	parsed := &TokenClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		parsed.ExpiresAt = claims.ExpiresAt.Time
	}
	return parsed, nil
}
