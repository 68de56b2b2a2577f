package auth

import (
	"errors"
	"log/slog"

	"folio/internal/domain"
	"folio/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier implements JWTVerifier for tokens signed with a shared
// HS256 secret
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a verifier for HS256 tokens
func NewHMACVerifier(secret []byte, logger *slog.Logger) (*HMACVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("JWT secret cannot be empty")
	}
	logger.Info("JWT verifier initialized", "method", "HS256")
	return &HMACVerifier{secret: secret, logger: logger}, nil
}

// VerifyToken validates a JWT token and extracts its claims
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	return claimsFrom(token, v.logger)
}

// IssueToken signs claims with the shared secret. Used by the admin CLI and
// tests; the API itself never issues tokens.
func (v *HMACVerifier) IssueToken(claims *models.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Close releases nothing
func (v *HMACVerifier) Close() error {
	return nil
}
