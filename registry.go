package auth

import (
	"crypto/subtle"
	"sort"
	"sync"
	"time"
)

// DefaultPlan tags accounts provisioned without an explicit plan.
const DefaultPlan = "client"

// AccountRegistry is the invitation-only account table: a static seed list
// loaded at construction plus accounts added at runtime via Provision. It is
// the only mutator besides bootstrap; there is no update or delete. Contents
// are process-lifetime only and reset on restart, a known data-loss property
// of this mode.
type AccountRegistry struct {
	mu       sync.RWMutex
	adminKey string
	accounts map[string]*Account
	logger   Logger
}

// NewAccountRegistry seeds the registry. Seed passwords are hashed on load;
// the registry never holds plaintext verifiers. An empty adminKey disables
// the admin surface: every Provision and List call is rejected.
func NewAccountRegistry(adminKey string, seeds []SeedAccount) (*AccountRegistry, error) {
	r := &AccountRegistry{
		adminKey: adminKey,
		accounts: map[string]*Account{},
		logger:   defLogger{},
	}

	now := time.Now()
	for _, seed := range seeds {
		hash, err := HashPassword(seed.Password)
		if err != nil {
			return nil, err
		}

		expires := seed.ExpiresOn
		if expires.IsZero() {
			months := seed.Months
			if months <= 0 {
				months = 1
			}
			expires = expiryDate(now, months)
		}

		r.accounts[seed.Email] = &Account{
			Email:        seed.Email,
			PasswordHash: hash,
			Name:         seed.Name,
			Plan:         defaultPlan(seed.Plan),
			ExpiresOn:    expires,
			CreatedAt:    now,
		}
	}

	return r, nil
}

func (r *AccountRegistry) WithLogger(logger Logger) *AccountRegistry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Lookup returns the account for an email, if present.
func (r *AccountRegistry) Lookup(email string) (*Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[email]
	return account, ok
}

// Provision adds a new account. Wrong admin keys never mutate the registry.
func (r *AccountRegistry) Provision(input ProvisionInput) (*Account, error) {
	if !r.keyMatches(input.AdminKey) {
		return nil, ErrBadAdminKey
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	months := input.Months
	if months <= 0 {
		months = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[input.Email]; ok {
		return nil, ErrIdentityExists
	}

	now := time.Now()
	account := &Account{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Plan:         DefaultPlan,
		ExpiresOn:    expiryDate(now, months),
		CreatedAt:    now,
	}
	r.accounts[input.Email] = account

	r.logger.Info("provisioned account", "email", input.Email, "expires", account.ExpiresOn)

	return account, nil
}

// List dumps every account, gated by the admin key, ordered by email so the
// output is stable.
func (r *AccountRegistry) List(adminKey string) ([]*Account, error) {
	if !r.keyMatches(adminKey) {
		return nil, ErrBadAdminKey
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Email < accounts[j].Email
	})

	return accounts, nil
}

// Len reports how many accounts the registry holds.
func (r *AccountRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *AccountRegistry) keyMatches(candidate string) bool {
	if r.adminKey == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(r.adminKey), []byte(candidate)) == 1
}

// expiryDate is now + months truncated to calendar-date precision.
func expiryDate(now time.Time, months int) time.Time {
	t := now.AddDate(0, months, 0)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func defaultPlan(plan string) string {
	if plan == "" {
		return DefaultPlan
	}
	return plan
}
