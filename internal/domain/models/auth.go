package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claim set accepted by the API.
// The subject claim carries the opaque caller id used as document owner.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
