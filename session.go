package auth

import (
	"time"
)

// SessionObject is the server-side view of a validated bearer token. Tokens
// are stateless; this object lives only for the request that decoded it.
type SessionObject struct {
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	Plan           string     `json:"plan,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	DaysRemaining  *int       `json:"daysRemaining,omitempty"`
}

// GetEmail returns the identity the session belongs to.
func (s *SessionObject) GetEmail() string {
	return s.Email
}

// IsExpired reports whether the token's exp claim has passed. Validation
// already rejects expired tokens; this is for callers holding a session
// across a long request.
func (s *SessionObject) IsExpired(now time.Time) bool {
	if s.ExpirationDate == nil {
		return false
	}
	return now.After(*s.ExpirationDate)
}

func sessionFromClaims(claims *JWTClaims) *SessionObject {
	session := &SessionObject{
		Email:         claims.Identity(),
		Name:          claims.Name,
		Plan:          claims.Plan,
		DaysRemaining: claims.DaysRemaining,
	}

	if issued := claims.Issued(); !issued.IsZero() {
		session.IssuedAt = &issued
	}
	if expires := claims.Expires(); !expires.IsZero() {
		session.ExpirationDate = &expires
	}

	return session
}
