package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/resohub/console/internal/platform/errors"
)

// TokenClaims carries the console-relevant subset of upstream token claims.
type TokenClaims struct {
	Subject   string
	TokenType string
	ExpiresAt time.Time
}

// DecodeToken extracts claims from an upstream access token without
// verifying its signature. The upstream service owns the signing key; the
// console only reads subject and expiry for display and session bookkeeping.
func DecodeToken(raw string) (TokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TokenClaims{}, apperrors.New(apperrors.CodeAuthMissingToken, "access token is required")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return TokenClaims{}, apperrors.Wrap(apperrors.CodeAuthMalformedToken, "decode access token", err)
	}

	decoded := TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		decoded.Subject = sub
	}
	if tokenType, ok := claims["type"].(string); ok {
		decoded.TokenType = tokenType
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		decoded.ExpiresAt = exp.Time
	}
	return decoded, nil
}
