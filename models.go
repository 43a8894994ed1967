package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Credential is the persistent-tier record created by signup. There is no
// update or delete path; records live until the store is torn down.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:crd"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Account is a registry-mode record: provisioned by an admin, gated on a
// subscription expiry, held in memory for the process lifetime.
type Account struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Plan         string    `json:"plan"`
	ExpiresOn    time.Time `json:"expires"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Expired reports whether the account's subscription window has passed.
func (a *Account) Expired(now time.Time) bool {
	return now.After(a.ExpiresOn)
}

// DaysRemaining is the ceiling of the time left until expiry in whole days.
// An account already expired, or expiring exactly now, reads as 0.
func (a *Account) DaysRemaining(now time.Time) int {
	left := a.ExpiresOn.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// SeedAccount is the static bootstrap entry for the registry. Password is
// plaintext in the seed table and hashed on load; the registry never stores
// it. ExpiresOn wins over Months when set.
type SeedAccount struct {
	Email     string
	Password  string
	Name      string
	Plan      string
	Months    int
	ExpiresOn time.Time
}
