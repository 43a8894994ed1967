package auth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	auth "github.com/holord/auth-gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCredentialsRegisterAndLookup(t *testing.T) {
	ctx := context.Background()
	store := auth.NewMemoryCredentials()

	hash, err := auth.HashPassword("pw1")
	require.NoError(t, err)

	record, err := store.Register(ctx, "a@x.com", hash)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", record.Email)
	assert.NotEqual(t, "pw1", record.PasswordHash)
	assert.NotNil(t, record.CreatedAt)

	found, err := store.Lookup(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.NoError(t, auth.ComparePasswordAndHash("pw1", found.PasswordHash))
}

func TestMemoryCredentialsDuplicate(t *testing.T) {
	ctx := context.Background()
	store := auth.NewMemoryCredentials()

	_, err := store.Register(ctx, "a@x.com", "hash-1")
	require.NoError(t, err)

	_, err = store.Register(ctx, "a@x.com", "hash-2")
	assert.ErrorIs(t, err, auth.ErrIdentityExists)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryCredentialsLookupMiss(t *testing.T) {
	store := auth.NewMemoryCredentials()

	_, err := store.Lookup(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}

func TestMemoryCredentialsTier(t *testing.T) {
	store := auth.NewMemoryCredentials()
	assert.Equal(t, auth.TierFallback, store.Tier())
}

func TestMemoryCredentialsConcurrentRegister(t *testing.T) {
	ctx := context.Background()
	store := auth.NewMemoryCredentials()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Register(ctx, "same@x.com", "hash")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, auth.ErrIdentityExists)
		}
	}

	// exactly one winner for a contended identity
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryCredentialsConcurrentDistinctIdentities(t *testing.T) {
	ctx := context.Background()
	store := auth.NewMemoryCredentials()

	const workers = 16
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.Register(ctx, fmt.Sprintf("user-%d@x.com", n), "hash")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, store.Len())
}
