package service

import (
	"context"

	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/ledgerline/ledgerline-backend/internal/types"
)

// ============================================
// Access Service
// ============================================

// AccessService is the row-level authorization guard shared by every
// organization-scoped operation. A missing membership and a missing
// organization look identical to the caller.
type AccessService interface {
	RequireMembership(ctx context.Context, userID, organizationID string) (*repository.Membership, error)
	RequireAdmin(ctx context.Context, userID, organizationID string) (*repository.Membership, error)
}

type accessService struct {
	orgRepo repository.OrganizationRepository
}

func NewAccessService(orgRepo repository.OrganizationRepository) AccessService {
	return &accessService{orgRepo: orgRepo}
}

func (s *accessService) RequireMembership(ctx context.Context, userID, organizationID string) (*repository.Membership, error) {
	if userID == "" || organizationID == "" {
		return nil, ErrForbidden
	}
	member, err := s.orgRepo.FindMember(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrForbidden
	}
	return member, nil
}

func (s *accessService) RequireAdmin(ctx context.Context, userID, organizationID string) (*repository.Membership, error) {
	member, err := s.RequireMembership(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}
	if member.Role != types.RoleAdmin {
		return nil, ErrForbidden
	}
	return member, nil
}
