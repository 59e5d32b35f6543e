package cron

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/ledgerline/ledgerline-backend/internal/types"
	"github.com/stretchr/testify/require"
)

func TestPurgeExpiredInvitations(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	ctx := context.Background()

	issue := func(token string, expiresAt time.Time) *repository.Invitation {
		inv := &repository.Invitation{
			OrganizationID: "org-" + token,
			Email:          token + "@example.com",
			Role:           types.RoleMember,
			Token:          token,
			InvitedByID:    "admin",
			ExpiresAt:      expiresAt,
		}
		require.NoError(t, repos.InvitationRepo.Issue(ctx, inv))
		return inv
	}

	issue("long-expired", time.Now().Add(-40*24*time.Hour))
	issue("recently-expired", time.Now().Add(-2*24*time.Hour))
	issue("still-pending", time.Now().Add(24*time.Hour))

	accepted := issue("accepted-old", time.Now().Add(-40*24*time.Hour))
	_, err := repos.InvitationRepo.Accept(ctx, accepted, "someone")
	require.NoError(t, err)

	scheduler := NewScheduler(repos.InvitationRepo)
	scheduler.ManualTrigger("invitation_purge")

	// Only the long-expired pending invitation is gone
	gone, err := repos.InvitationRepo.FindByToken(ctx, "long-expired")
	require.NoError(t, err)
	require.Nil(t, gone)

	for _, token := range []string{"recently-expired", "still-pending", "accepted-old"} {
		inv, err := repos.InvitationRepo.FindByToken(ctx, token)
		require.NoError(t, err)
		require.NotNil(t, inv, token)
	}
}
