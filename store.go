package auth

import (
	"context"
	"sync/atomic"

	repository "github.com/goliatone/go-repository-bun"
)

// TieredCredentials fronts the persistent and fallback tiers behind a single
// CredentialStore. The tier serving a call is picked once at entry from the
// connection state and is not re-checked mid-call. Infrastructure failures on
// the persistent tier degrade that one operation to the fallback tier; they
// are never surfaced to the caller as server errors. Business failures
// (duplicate identity, unknown identity) come back from whichever tier served
// the call and never trigger fallback.
type TieredCredentials struct {
	persistent Credentials
	fallback   *MemoryCredentials
	state      atomic.Int32
	logger     Logger
}

// NewTieredCredentials builds the dual-tier store. A nil repository pins the
// store to the fallback tier regardless of connection state.
func NewTieredCredentials(persistent Credentials, fallback *MemoryCredentials) *TieredCredentials {
	if fallback == nil {
		fallback = NewMemoryCredentials()
	}

	s := &TieredCredentials{
		persistent: persistent,
		fallback:   fallback,
		logger:     defLogger{},
	}
	s.state.Store(int32(StateDisconnected))

	return s
}

func (s *TieredCredentials) WithLogger(logger Logger) *TieredCredentials {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// MarkConnected records that the persistent store established a connection.
// Called from the bootstrap lifecycle, not per request.
func (s *TieredCredentials) MarkConnected() {
	s.state.Store(int32(StateConnected))
}

// MarkDisconnected records loss (or absence) of the persistent connection.
func (s *TieredCredentials) MarkDisconnected() {
	s.state.Store(int32(StateDisconnected))
}

// State reports the persistent tier's connection state.
func (s *TieredCredentials) State() ConnectionState {
	return ConnectionState(s.state.Load())
}

// Tier reports which tier would serve the next call.
func (s *TieredCredentials) Tier() Tier {
	if s.persistent != nil && s.State() == StateConnected {
		return TierPersistent
	}
	return TierFallback
}

// Register inserts exactly one record in exactly one tier.
func (s *TieredCredentials) Register(ctx context.Context, email, passwordHash string) (*Credential, error) {
	if s.Tier() == TierFallback {
		return s.fallback.Register(ctx, email, passwordHash)
	}

	existing, err := s.persistent.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrIdentityExists
	}

	if err != nil && !repository.IsRecordNotFound(err) {
		s.logger.Error("persistent tier lookup failed during register, falling back", "email", email, "error", err)
		return s.fallback.Register(ctx, email, passwordHash)
	}

	record, err := s.persistent.Register(ctx, &Credential{
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		// One-shot fallback for this operation only; no retry against the
		// persistent tier.
		s.logger.Error("persistent tier insert failed, falling back", "email", email, "error", err)
		return s.fallback.Register(ctx, email, passwordHash)
	}

	return record, nil
}

// Lookup returns the credential from the active tier. A miss in the
// persistent tier is a miss, not a cue to consult the fallback tier.
func (s *TieredCredentials) Lookup(ctx context.Context, email string) (*Credential, error) {
	if s.Tier() == TierFallback {
		return s.fallback.Lookup(ctx, email)
	}

	record, err := s.persistent.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}

		s.logger.Error("persistent tier lookup failed, falling back", "email", email, "error", err)
		return s.fallback.Lookup(ctx, email)
	}

	return record, nil
}

var _ CredentialStore = (*TieredCredentials)(nil)
