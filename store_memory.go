package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryCredentials is the fallback tier: a mutex-guarded map keyed by email.
// Verifiers are bcrypt hashes here too; degraded mode never stores plaintext.
// Contents live from process start to process end and are lost on restart.
type MemoryCredentials struct {
	mu      sync.RWMutex
	byEmail map[string]*Credential
}

// NewMemoryCredentials returns an empty fallback store.
func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{
		byEmail: map[string]*Credential{},
	}
}

// Register performs an atomic check-and-insert so concurrent signups for the
// same email cannot both succeed.
func (m *MemoryCredentials) Register(ctx context.Context, email, passwordHash string) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[email]; ok {
		return nil, ErrIdentityExists
	}

	now := time.Now()
	record := &Credential{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    &now,
	}
	m.byEmail[email] = record

	return record, nil
}

// Lookup returns the stored credential or ErrIdentityNotFound.
func (m *MemoryCredentials) Lookup(ctx context.Context, email string) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byEmail[email]
	if !ok {
		return nil, ErrIdentityNotFound
	}

	return record, nil
}

// Tier always reports fallback.
func (m *MemoryCredentials) Tier() Tier {
	return TierFallback
}

// Len reports how many identities the fallback tier holds.
func (m *MemoryCredentials) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byEmail)
}

var _ CredentialStore = (*MemoryCredentials)(nil)
