package service

import (
	"context"
	"testing"

	"github.com/ledgerline/ledgerline-backend/internal/types"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAndList(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	created, err := svcs.Category.Create(ctx, admin.ID, org.ID, "  Travel  ", "Flights and trains")
	require.NoError(t, err)
	require.Equal(t, "Travel", created.Name)
	require.NotNil(t, created.Description)
	require.Equal(t, "Flights and trains", *created.Description)

	// Blank description is stored as absent
	meals, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Meals", "   ")
	require.NoError(t, err)
	require.Nil(t, meals.Description)

	categories, err := svcs.Category.List(ctx, admin.ID, org.ID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Meals", categories[0].Name)
	require.Equal(t, "Travel", categories[1].Name)
}

func TestCategoryNameConflictIsCaseInsensitive(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	_, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Travel", "")
	require.NoError(t, err)

	_, err = svcs.Category.Create(ctx, admin.ID, org.ID, "TRAVEL", "")
	require.ErrorIs(t, err, ErrConflict)

	_, err = svcs.Category.Create(ctx, admin.ID, org.ID, "  travel ", "")
	require.ErrorIs(t, err, ErrConflict)

	// The same name is fine in another organization
	otherOrg := createOrganization(t, svcs, admin.ID, "Alpine Co")
	_, err = svcs.Category.Create(ctx, admin.ID, otherOrg.ID, "Travel", "")
	require.NoError(t, err)
}

func TestCategoryUpdate(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	travel, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Travel", "old")
	require.NoError(t, err)
	meals, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Meals", "")
	require.NoError(t, err)

	// Renaming to itself with different casing is allowed
	updated, err := svcs.Category.Update(ctx, admin.ID, org.ID, travel.ID, "TRAVEL", "new")
	require.NoError(t, err)
	require.Equal(t, "TRAVEL", updated.Name)
	require.Equal(t, "new", *updated.Description)

	// Renaming onto another category is not
	_, err = svcs.Category.Update(ctx, admin.ID, org.ID, meals.ID, "travel", "")
	require.ErrorIs(t, err, ErrConflict)

	// Unknown id
	_, err = svcs.Category.Update(ctx, admin.ID, org.ID, "missing", "X", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryDelete(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	travel, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Travel", "")
	require.NoError(t, err)

	require.NoError(t, svcs.Category.Delete(ctx, admin.ID, org.ID, travel.ID))

	categories, err := svcs.Category.List(ctx, admin.ID, org.ID)
	require.NoError(t, err)
	require.Empty(t, categories)

	err = svcs.Category.Delete(ctx, admin.ID, org.ID, travel.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryMutationsRequireAdmin(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")
	travel, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Travel", "")
	require.NoError(t, err)

	member := registerUser(t, svcs, "Tomas", "tomas@example.com")
	inv, err := svcs.Invitation.Invite(ctx, admin.ID, org.ID, member.Email, types.RoleMember)
	require.NoError(t, err)
	_, err = svcs.Invitation.Accept(ctx, member.ID, inv.Token)
	require.NoError(t, err)

	// Members can read
	categories, err := svcs.Category.List(ctx, member.ID, org.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	// But not write
	_, err = svcs.Category.Create(ctx, member.ID, org.ID, "Meals", "")
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svcs.Category.Update(ctx, member.ID, org.ID, travel.ID, "Trips", "")
	require.ErrorIs(t, err, ErrForbidden)
	err = svcs.Category.Delete(ctx, member.ID, org.ID, travel.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// Outsiders cannot even read
	outsider := registerUser(t, svcs, "Erik", "erik@example.com")
	_, err = svcs.Category.List(ctx, outsider.ID, org.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCategoryScopedToOrganization(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	orgA := createOrganization(t, svcs, admin.ID, "Fjord Studio")
	orgB := createOrganization(t, svcs, admin.ID, "Alpine Co")

	travel, err := svcs.Category.Create(ctx, admin.ID, orgA.ID, "Travel", "")
	require.NoError(t, err)

	// A foreign id behaves like a missing one
	_, err = svcs.Category.Update(ctx, admin.ID, orgB.ID, travel.ID, "Trips", "")
	require.ErrorIs(t, err, ErrNotFound)
	err = svcs.Category.Delete(ctx, admin.ID, orgB.ID, travel.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
