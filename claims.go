package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the signed payload carried by gateway bearer tokens. Subject
// holds the identity email in both modes; the remaining fields are only set
// when the issuing mode knows them.
type JWTClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Plan          string `json:"plan,omitempty"`
	DaysRemaining *int   `json:"daysRemaining,omitempty"`
}

// Identity returns the email the token was issued for.
func (c *JWTClaims) Identity() string {
	if c.Email != "" {
		return c.Email
	}
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time, zero when unset.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issuance time, zero when unset.
func (c *JWTClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
