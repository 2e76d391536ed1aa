package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/resohub/console/internal/platform/errors"
)

func signedTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestDecodeToken(t *testing.T) {
	expiry := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	raw := signedTestToken(t, jwt.MapClaims{
		"sub":  "dana@example.com",
		"type": "access",
		"exp":  expiry.Unix(),
	})

	claims, err := DecodeToken(raw)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if claims.Subject != "dana@example.com" {
		t.Fatalf("subject = %q, want dana@example.com", claims.Subject)
	}
	if claims.TokenType != "access" {
		t.Fatalf("token type = %q, want access", claims.TokenType)
	}
	if !claims.ExpiresAt.Equal(expiry) {
		t.Fatalf("expires at = %v, want %v", claims.ExpiresAt, expiry)
	}
}

func TestDecodeTokenEmpty(t *testing.T) {
	_, err := DecodeToken("   ")
	if !errors.Is(err, apperrors.New(apperrors.CodeAuthMissingToken, "")) {
		t.Fatalf("expected missing-token error, got %v", err)
	}
}

func TestDecodeTokenMalformed(t *testing.T) {
	_, err := DecodeToken("not-a-jwt")
	if !errors.Is(err, apperrors.New(apperrors.CodeAuthMalformedToken, "")) {
		t.Fatalf("expected malformed-token error, got %v", err)
	}
}

func TestDecodeTokenWithoutExpiry(t *testing.T) {
	raw := signedTestToken(t, jwt.MapClaims{"sub": "lee@example.com"})

	claims, err := DecodeToken(raw)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if !claims.ExpiresAt.IsZero() {
		t.Fatalf("expected zero expiry, got %v", claims.ExpiresAt)
	}
}
