package auth

import (
	"context"
	"fmt"
	"time"
)

// Mode selects the gateway's operating mode at startup.
type Mode string

const (
	// ModeOpenSignup allows self-service registration backed by the tiered store.
	ModeOpenSignup Mode = "open"
	// ModeInvitationOnly disables signup; accounts come from the AccountRegistry.
	ModeInvitationOnly Mode = "invitation"
)

// Tier identifies which backing store answered a credential operation.
type Tier string

const (
	// TierPersistent is the database-backed store.
	TierPersistent Tier = "persistent"
	// TierFallback is the in-process store used when the database is unavailable.
	TierFallback Tier = "fallback"
)

// ConnectionState tracks whether the persistent store has a live connection.
// It is maintained by the store lifecycle (connect/ping at bootstrap, flips on
// hard failures) rather than re-derived per request.
type ConnectionState int32

const (
	// StateDisconnected means the persistent tier never came up or was lost.
	StateDisconnected ConnectionState = iota
	// StateConnected means the persistent tier is serving requests.
	StateConnected
)

func (s ConnectionState) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialStore abstracts credential persistence across tiers.
type CredentialStore interface {
	// Register stores a new credential with an already-hashed verifier.
	// Returns ErrIdentityExists when the email is taken in the active tier.
	Register(ctx context.Context, email, passwordHash string) (*Credential, error)
	// Lookup returns the credential for an email in the active tier, or
	// ErrIdentityNotFound.
	Lookup(ctx context.Context, email string) (*Credential, error)
	// Tier reports which tier would serve the next call.
	Tier() Tier
}

// TokenService mints and validates bearer tokens.
type TokenService interface {
	Generate(claims *JWTClaims) (string, error)
	Validate(token string) (*JWTClaims, error)
}

// Authenticator is the access controller consumed by the HTTP layer.
type Authenticator interface {
	Signup(ctx context.Context, email, password string) (*SignupResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Provision(ctx context.Context, input ProvisionInput) (*Account, error)
	Accounts(ctx context.Context, adminKey string) ([]*Account, error)
	Session(token string) (*SessionObject, error)
	Mode() Mode
	Status() GatewayStatus
}

// Config holds the auth options resolved at startup.
type Config interface {
	GetMode() Mode
	GetSigningKey() string
	GetAdminKey() string
	GetTokenTTL() time.Duration
}

// SignupResult is returned on a successful registration.
type SignupResult struct {
	UserID string `json:"userId"`
	Tier   Tier   `json:"-"`
}

// LoginResult carries the minted token and the user payload echoed to clients.
type LoginResult struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// SessionUser is the client-visible identity snapshot in a login response.
type SessionUser struct {
	ID            string     `json:"id,omitempty"`
	Email         string     `json:"email"`
	Name          string     `json:"name,omitempty"`
	Plan          string     `json:"plan,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	Expires       *time.Time `json:"expires,omitempty"`
	DaysRemaining *int       `json:"daysRemaining,omitempty"`
}

// ProvisionInput is the admin request to add a registry account.
type ProvisionInput struct {
	AdminKey string
	Email    string
	Password string
	Name     string
	Months   int
}

// GatewayStatus is the snapshot reported by the /test diagnostics route.
type GatewayStatus struct {
	Mode          Mode `json:"mode"`
	DBConnected   bool `json:"dbConnected"`
	TotalAccounts int  `json:"totalAccounts,omitempty"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
