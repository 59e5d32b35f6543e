package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/email"
	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/ledgerline/ledgerline-backend/internal/types"
)

// ============================================
// Invitation Service
// ============================================

const (
	invitationTTL   = 7 * 24 * time.Hour
	tokenByteLength = 32 // 256 bits of entropy
)

// AcceptResult is what a successful acceptance hands back to the caller.
type AcceptResult struct {
	Organization *repository.Organization
	Membership   *repository.Membership
}

type InvitationService interface {
	Invite(ctx context.Context, inviterID, organizationID, emailAddr, role string) (*repository.Invitation, error)
	ListByOrganization(ctx context.Context, adminID, organizationID string) ([]*repository.Invitation, error)
	MyInvitations(ctx context.Context, userID string) ([]*repository.InvitationWithOrg, error)
	Accept(ctx context.Context, userID, token string) (*AcceptResult, error)
}

type invitationService struct {
	invRepo     repository.InvitationRepository
	orgRepo     repository.OrganizationRepository
	userRepo    repository.UserRepository
	access      AccessService
	emailSvc    *email.Service
	frontendURL string
}

func NewInvitationService(
	invRepo repository.InvitationRepository,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	access AccessService,
	emailSvc *email.Service,
	frontendURL string,
) InvitationService {
	return &invitationService{
		invRepo:     invRepo,
		orgRepo:     orgRepo,
		userRepo:    userRepo,
		access:      access,
		emailSvc:    emailSvc,
		frontendURL: frontendURL,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// generateInviteToken returns a hex-encoded token with 256 bits of entropy.
// The token is the sole credential to accept an invitation.
func generateInviteToken() (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *invitationService) Invite(ctx context.Context, inviterID, organizationID, emailAddr, role string) (*repository.Invitation, error) {
	if _, err := s.access.RequireAdmin(ctx, inviterID, organizationID); err != nil {
		return nil, err
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return nil, ErrInvalidInput
	}
	if role == "" {
		role = types.RoleMember
	}
	if !types.IsValidRole(role) {
		return nil, ErrInvalidInput
	}

	inviter, err := s.userRepo.FindByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, ErrUnauthorized
	}
	if normalizeEmail(inviter.Email) == emailAddr {
		return nil, ErrSelfInvite
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	invitation := &repository.Invitation{
		OrganizationID: organizationID,
		Email:          emailAddr,
		Role:           role,
		Token:          token,
		InvitedByID:    inviterID,
		ExpiresAt:      time.Now().Add(invitationTTL),
	}

	if err := s.invRepo.Issue(ctx, invitation); err != nil {
		if err == repository.ErrAlreadyMember {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	if s.emailSvc != nil {
		go func(invitation *repository.Invitation, inviterName string) {
			orgName := invitation.OrganizationID
			if org, err := s.orgRepo.FindByID(context.Background(), invitation.OrganizationID); err == nil && org != nil {
				orgName = org.Name
			}
			inviteURL := fmt.Sprintf("%s/invitations/accept?token=%s", s.frontendURL, invitation.Token)
			_ = s.emailSvc.SendInvitation(orgName, invitation.Email, inviterName, inviteURL)
		}(invitation, inviter.Name)
	}

	return invitation, nil
}

func (s *invitationService) ListByOrganization(ctx context.Context, adminID, organizationID string) ([]*repository.Invitation, error) {
	if _, err := s.access.RequireAdmin(ctx, adminID, organizationID); err != nil {
		return nil, err
	}
	return s.invRepo.FindByOrganization(ctx, organizationID)
}

func (s *invitationService) MyInvitations(ctx context.Context, userID string) ([]*repository.InvitationWithOrg, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(user.Email) == "" {
		return []*repository.InvitationWithOrg{}, nil
	}
	return s.invRepo.FindPendingByEmail(ctx, normalizeEmail(user.Email))
}

func (s *invitationService) Accept(ctx context.Context, userID, token string) (*AcceptResult, error) {
	if token == "" {
		return nil, ErrInvalidInput
	}

	invitation, err := s.invRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrNotFound
	}
	if invitation.AcceptedAt != nil {
		return nil, ErrInvitationAccepted
	}
	if invitation.IsExpired(time.Now()) {
		return nil, ErrInvitationExpired
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil, ErrInvalidInput
	}
	// Invitations are bound to the address, not transferable via token.
	if normalizeEmail(user.Email) != invitation.Email {
		return nil, ErrEmailMismatch
	}

	membership, err := s.invRepo.Accept(ctx, invitation, userID)
	if err != nil {
		if err == repository.ErrAlreadyAccepted {
			return nil, ErrInvitationAccepted
		}
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, invitation.OrganizationID)
	if err != nil {
		return nil, err
	}

	return &AcceptResult{Organization: org, Membership: membership}, nil
}
