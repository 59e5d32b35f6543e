package service

import (
	"context"
	"strings"

	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/ledgerline/ledgerline-backend/internal/types"
)

// ============================================
// Organization Service
// ============================================

type OrganizationService interface {
	// Create inserts the organization together with the creator's ADMIN
	// membership in one transaction.
	Create(ctx context.Context, userID, name string) (*repository.Organization, *repository.Membership, error)
	// List returns the caller's memberships joined with organization
	// names, ordered by organization name.
	List(ctx context.Context, userID string) ([]*repository.MembershipWithOrg, error)
	GetByID(ctx context.Context, id string) (*repository.Organization, error)
}

type organizationService struct {
	orgRepo repository.OrganizationRepository
}

func NewOrganizationService(orgRepo repository.OrganizationRepository) OrganizationService {
	return &organizationService{orgRepo: orgRepo}
}

func (s *organizationService) Create(ctx context.Context, userID, name string) (*repository.Organization, *repository.Membership, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, ErrInvalidInput
	}

	org := &repository.Organization{
		Name:        name,
		CreatedByID: userID,
	}
	membership := &repository.Membership{
		UserID: userID,
		Role:   types.RoleAdmin,
	}

	if err := s.orgRepo.CreateWithAdmin(ctx, org, membership); err != nil {
		return nil, nil, err
	}
	return org, membership, nil
}

func (s *organizationService) List(ctx context.Context, userID string) ([]*repository.MembershipWithOrg, error) {
	return s.orgRepo.FindMembershipsByUser(ctx, userID)
}

func (s *organizationService) GetByID(ctx context.Context, id string) (*repository.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNotFound
	}
	return org, nil
}
