package repository

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/types"
)

// Errors surfaced by repository transactions where the conflict is only
// detectable inside the transaction itself.
var (
	ErrAlreadyMember   = errors.New("user is already a member of this organization")
	ErrAlreadyAccepted = errors.New("invitation has already been accepted")
)

// ============================================
// Entities
// ============================================

type User struct {
	ID        string
	Email     string
	Name      string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Organization struct {
	ID          string
	Name        string
	CreatedByID string
	CreatedAt   time.Time
}

type Membership struct {
	ID             string
	OrganizationID string
	UserID         string
	Role           string
	CreatedAt      time.Time
}

// MembershipWithOrg is a membership joined with its organization name,
// used by the "my organizations" listing.
type MembershipWithOrg struct {
	Membership
	OrganizationName string
}

type Invitation struct {
	ID             string
	OrganizationID string
	Email          string
	Role           string
	Token          string
	InvitedByID    string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	AcceptedAt     *time.Time
	AcceptedByID   *string
}

// InvitationWithOrg is an invitation joined with its organization name,
// used by the self-service pending listing.
type InvitationWithOrg struct {
	Invitation
	OrganizationName string
}

type ExpenseCategory struct {
	ID             string
	OrganizationID string
	Name           string
	Description    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Expense struct {
	ID             string
	OrganizationID string
	CategoryID     *string
	Description    string
	Amount         decimal.Decimal
	SpentAt        time.Time
	CreatedByID    string
	CreatedAt      time.Time
}

// CategoryAmount is an expense total aggregated by category name. Expenses
// without a category are grouped under an empty name.
type CategoryAmount struct {
	CategoryName string
	Amount       decimal.Decimal
}

// Helper methods

func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}

// Status derives the invitation state from its timestamps. The state is
// never persisted so it can never drift from accepted_at/expires_at.
func (i *Invitation) Status(now time.Time) string {
	if i.AcceptedAt != nil {
		return types.InvitationAccepted
	}
	if i.IsExpired(now) {
		return types.InvitationExpired
	}
	return types.InvitationPending
}
