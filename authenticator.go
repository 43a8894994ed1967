package auth

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Auther is the access controller: one orchestrator parameterized by Mode
// instead of parallel route files per mode. Every request runs validate →
// lookup → (expiry) → verifier → token issue, and every failure maps to a
// rich error the HTTP layer can translate without inspecting internals.
type Auther struct {
	mode     Mode
	store    CredentialStore
	registry *AccountRegistry
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new access controller. The registry may be nil
// in open-signup mode; the store may be nil in invitation-only mode.
func NewAuthenticator(mode Mode, store CredentialStore, registry *AccountRegistry, tokens TokenService) *Auther {
	return &Auther{
		mode:     mode,
		store:    store,
		registry: registry,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Mode reports the configured operating mode.
func (a *Auther) Mode() Mode {
	return a.mode
}

// Status snapshots the gateway for the diagnostics route.
func (a *Auther) Status() GatewayStatus {
	status := GatewayStatus{Mode: a.mode}

	if a.store != nil {
		status.DBConnected = a.store.Tier() == TierPersistent
	}
	if a.registry != nil {
		status.TotalAccounts = a.registry.Len()
	}

	return status
}

// Signup registers a new identity through the tiered store. Invitation-only
// deployments reject before touching any store.
func (a *Auther) Signup(ctx context.Context, email, password string) (*SignupResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	if a.mode == ModeInvitationOnly {
		a.logger.Info("signup rejected, invitation-only mode", "email", email)
		return nil, ErrSignupDisabled
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	record, err := a.store.Register(ctx, email, hash)
	if err != nil {
		if goerrors.Is(err, ErrIdentityExists) {
			a.logger.Info("signup rejected, identity exists", "email", email)
			return nil, ErrIdentityExists
		}
		a.logger.Error("signup store failure", "email", email, "error", err)
		return nil, ErrStoreUnavailable
	}

	a.logger.Info("user created", "email", email, "id", record.ID, "tier", a.store.Tier())

	return &SignupResult{
		UserID: record.ID.String(),
		Tier:   a.store.Tier(),
	}, nil
}

// Login verifies credentials and mints a bearer token. A token is only ever
// issued after a verifier match and, in invitation mode, a non-expired
// account.
func (a *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	if a.mode == ModeInvitationOnly {
		return a.registryLogin(email, password)
	}

	return a.storeLogin(ctx, email, password)
}

// storeLogin is the open-signup path. Unknown identity and wrong password
// collapse into the same failure so responses do not reveal which emails are
// registered.
func (a *Auther) storeLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	record, err := a.store.Lookup(ctx, email)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			a.logger.Info("login failed, unknown identity", "email", email)
			return nil, ErrInvalidCredentials
		}
		a.logger.Error("login store failure", "email", email, "error", err)
		return nil, ErrStoreUnavailable
	}

	if err := ComparePasswordAndHash(password, record.PasswordHash); err != nil {
		a.logger.Info("login failed, password mismatch", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, err := a.tokens.Generate(&JWTClaims{Email: email})
	if err != nil {
		a.logger.Error("token issuance failed", "email", email, "error", err)
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User: SessionUser{
			ID:        record.ID.String(),
			Email:     record.Email,
			CreatedAt: record.CreatedAt,
		},
	}, nil
}

// registryLogin is the invitation-only path: registry miss, verifier
// mismatch, and subscription expiry each surface distinctly.
func (a *Auther) registryLogin(email, password string) (*LoginResult, error) {
	account, ok := a.registry.Lookup(email)
	if !ok {
		a.logger.Info("login failed, account not in registry", "email", email)
		return nil, ErrIdentityNotFound
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		a.logger.Info("login failed, password mismatch", "email", email)
		return nil, ErrPasswordMismatch
	}

	now := time.Now()
	if account.Expired(now) {
		a.logger.Info("login failed, subscription expired", "email", email, "expired_on", account.ExpiresOn)
		return nil, expiredError(account)
	}

	days := account.DaysRemaining(now)
	claims := &JWTClaims{
		Email:         account.Email,
		Name:          account.Name,
		Plan:          account.Plan,
		DaysRemaining: &days,
	}

	token, err := a.tokens.Generate(claims)
	if err != nil {
		a.logger.Error("token issuance failed", "email", email, "error", err)
		return nil, err
	}

	expires := account.ExpiresOn
	return &LoginResult{
		Token: token,
		User: SessionUser{
			Email:         account.Email,
			Name:          account.Name,
			Plan:          account.Plan,
			Expires:       &expires,
			DaysRemaining: &days,
		},
	}, nil
}

// Provision adds a registry account on behalf of an administrator.
func (a *Auther) Provision(ctx context.Context, input ProvisionInput) (*Account, error) {
	if a.registry == nil {
		return nil, ErrSignupDisabled
	}

	if input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	return a.registry.Provision(input)
}

// Accounts dumps the registry, gated by the admin key.
func (a *Auther) Accounts(ctx context.Context, adminKey string) ([]*Account, error) {
	if a.registry == nil {
		return nil, ErrBadAdminKey
	}

	return a.registry.List(adminKey)
}

// Session validates a bearer token and converts its claims to a session.
func (a *Auther) Session(token string) (*SessionObject, error) {
	claims, err := a.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	return sessionFromClaims(claims), nil
}

var _ Authenticator = (*Auther)(nil)

// expiredError builds the expiry rejection with the account's end date in
// the client-visible message.
func expiredError(account *Account) *goerrors.Error {
	msg := fmt.Sprintf("Your subscription expired on %s. Contact admin to renew.",
		account.ExpiresOn.Format("2006-01-02"))

	return goerrors.New(msg, goerrors.CategoryAuthz).
		WithTextCode(TextCodeAccountExpired).
		WithCode(goerrors.CodeForbidden).
		WithMetadata(map[string]any{
			"email":      account.Email,
			"expired_on": account.ExpiresOn.Format("2006-01-02"),
		})
}
