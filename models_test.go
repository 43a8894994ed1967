package auth_test

import (
	"testing"
	"time"

	auth "github.com/holord/auth-gateway"
	"github.com/stretchr/testify/assert"
)

func TestAccountExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresOn time.Time
		want      bool
	}{
		{
			name:      "future expiry",
			expiresOn: now.AddDate(0, 1, 0),
			want:      false,
		},
		{
			name:      "past expiry",
			expiresOn: now.AddDate(0, 0, -1),
			want:      true,
		},
		{
			// expiry is stored at calendar-date precision, so an account
			// dated midnight today is already expired by midday
			name:      "midnight today",
			expiresOn: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			want:      true,
		},
		{
			name:      "expires exactly now",
			expiresOn: now,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &auth.Account{ExpiresOn: tt.expiresOn}
			assert.Equal(t, tt.want, account.Expired(now))
		})
	}
}

func TestAccountDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresOn time.Time
		want      int
	}{
		{
			name:      "thirty days out",
			expiresOn: now.Add(30 * 24 * time.Hour),
			want:      30,
		},
		{
			name:      "partial day rounds up",
			expiresOn: now.Add(36 * time.Hour),
			want:      2,
		},
		{
			name:      "under a day rounds up to one",
			expiresOn: now.Add(6 * time.Hour),
			want:      1,
		},
		{
			// the boundary case: expired accounts and accounts dated
			// midnight today consistently read as zero
			name:      "midnight today",
			expiresOn: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			want:      0,
		},
		{
			name:      "already expired",
			expiresOn: now.AddDate(0, -1, 0),
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &auth.Account{ExpiresOn: tt.expiresOn}
			assert.Equal(t, tt.want, account.DaysRemaining(now))
		})
	}
}
