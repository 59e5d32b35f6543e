package repository

import (
	"testing"
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/types"
	"github.com/stretchr/testify/require"
)

func TestInvitationStatusDerivation(t *testing.T) {
	now := time.Now()
	accepted := now.Add(-time.Hour)

	cases := []struct {
		name string
		inv  Invitation
		want string
	}{
		{
			name: "pending before expiry",
			inv:  Invitation{ExpiresAt: now.Add(time.Hour)},
			want: types.InvitationPending,
		},
		{
			name: "expired after expiry",
			inv:  Invitation{ExpiresAt: now.Add(-time.Minute)},
			want: types.InvitationExpired,
		},
		{
			name: "accepted wins over expiry",
			inv:  Invitation{ExpiresAt: now.Add(-time.Minute), AcceptedAt: &accepted},
			want: types.InvitationAccepted,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.inv.Status(now))
		})
	}
}

func TestInvitationIsExpired(t *testing.T) {
	now := time.Now()
	require.False(t, (&Invitation{ExpiresAt: now.Add(time.Second)}).IsExpired(now))
	require.True(t, (&Invitation{ExpiresAt: now.Add(-time.Second)}).IsExpired(now))
}
