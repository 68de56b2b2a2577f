package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"folio/internal/domain"
	"folio/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims *models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestHMACVerifier_VerifyToken(t *testing.T) {
	secret := []byte("test-secret")
	v, err := NewHMACVerifier(secret, testLogger())
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	valid := &models.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	expired := &models.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}}
	noSubject := &models.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	tests := []struct {
		name    string
		token   string
		wantSub string
	}{
		{"valid token", sign(t, jwt.SigningMethodHS256, secret, valid), "user-1"},
		{"expired token", sign(t, jwt.SigningMethodHS256, secret, expired), ""},
		{"missing subject", sign(t, jwt.SigningMethodHS256, secret, noSubject), ""},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), valid), ""},
		{"disallowed algorithm", sign(t, jwt.SigningMethodHS512, secret, valid), ""},
		{"garbage", "not-a-token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.VerifyToken(tt.token)
			if tt.wantSub == "" {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Errorf("got %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claims.GetUserID() != tt.wantSub {
				t.Errorf("user id = %q, want %q", claims.GetUserID(), tt.wantSub)
			}
		})
	}
}

func TestHMACVerifier_IssueTokenRoundTrip(t *testing.T) {
	v, err := NewHMACVerifier([]byte("s"), testLogger())
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	token, err := v.IssueToken(&models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "cli"}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := v.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "cli" {
		t.Errorf("subject = %q", claims.Subject)
	}
}

func TestNewHMACVerifier_EmptySecret(t *testing.T) {
	if _, err := NewHMACVerifier(nil, testLogger()); err == nil {
		t.Error("expected error for empty secret")
	}
}
