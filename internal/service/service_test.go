package service

import (
	"context"
	"testing"

	"github.com/ledgerline/ledgerline-backend/internal/config"
	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*Services, *repository.Repositories) {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     1,
		RefreshExpiry: 1,
		FrontendURL:   "http://localhost:3000",
	}
	return NewServices(&ServiceDeps{Config: cfg, Repos: repos}), repos
}

func registerUser(t *testing.T, svcs *Services, name, email string) *repository.User {
	t.Helper()
	user, _, _, err := svcs.Auth.Register(context.Background(), name, email, "password123")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	return user
}

func createOrganization(t *testing.T, svcs *Services, userID, name string) *repository.Organization {
	t.Helper()
	org, _, err := svcs.Organization.Create(context.Background(), userID, name)
	require.NoError(t, err)
	return org
}
