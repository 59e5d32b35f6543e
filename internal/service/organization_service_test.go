package service

import (
	"context"
	"testing"

	"github.com/ledgerline/ledgerline-backend/internal/types"
	"github.com/stretchr/testify/require"
)

func TestOrganizationCreateGrantsFoundingAdmin(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	user := registerUser(t, svcs, "Nora", "nora@example.com")

	org, membership, err := svcs.Organization.Create(ctx, user.ID, "  Fjord Studio  ")
	require.NoError(t, err)
	require.Equal(t, "Fjord Studio", org.Name)
	require.Equal(t, user.ID, org.CreatedByID)
	require.Equal(t, types.RoleAdmin, membership.Role)
	require.Equal(t, org.ID, membership.OrganizationID)

	// Creator can immediately pass the admin guard
	_, err = svcs.Access.RequireAdmin(ctx, user.ID, org.ID)
	require.NoError(t, err)

	members, err := repos.OrganizationRepo.FindMembers(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestOrganizationCreateRejectsBlankName(t *testing.T) {
	svcs, _ := newTestServices(t)

	user := registerUser(t, svcs, "Nora", "nora@example.com")

	_, _, err := svcs.Organization.Create(context.Background(), user.ID, "   ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrganizationListSortedByName(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	user := registerUser(t, svcs, "Nora", "nora@example.com")
	createOrganization(t, svcs, user.ID, "Zebra Works")
	createOrganization(t, svcs, user.ID, "Alpine Co")
	createOrganization(t, svcs, user.ID, "Mistral Labs")

	memberships, err := svcs.Organization.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 3)
	require.Equal(t, "Alpine Co", memberships[0].OrganizationName)
	require.Equal(t, "Mistral Labs", memberships[1].OrganizationName)
	require.Equal(t, "Zebra Works", memberships[2].OrganizationName)
}

func TestOrganizationListEmptyForNewUser(t *testing.T) {
	svcs, _ := newTestServices(t)

	user := registerUser(t, svcs, "Nora", "nora@example.com")

	memberships, err := svcs.Organization.List(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, memberships)
}

func TestAccessGuards(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	outsider := registerUser(t, svcs, "Erik", "erik@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	// Non-member fails both guards
	_, err := svcs.Access.RequireMembership(ctx, outsider.ID, org.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svcs.Access.RequireAdmin(ctx, outsider.ID, org.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// A plain member passes the membership guard but not the admin guard
	member := registerUser(t, svcs, "Tomas", "tomas@example.com")
	inv, err := svcs.Invitation.Invite(ctx, admin.ID, org.ID, member.Email, types.RoleMember)
	require.NoError(t, err)
	_, err = svcs.Invitation.Accept(ctx, member.ID, inv.Token)
	require.NoError(t, err)

	_, err = svcs.Access.RequireMembership(ctx, member.ID, org.ID)
	require.NoError(t, err)
	_, err = svcs.Access.RequireAdmin(ctx, member.ID, org.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// Unknown organization behaves like a missing membership
	_, err = svcs.Access.RequireMembership(ctx, admin.ID, "missing-org")
	require.ErrorIs(t, err, ErrForbidden)
}
