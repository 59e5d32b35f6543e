package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Repository Interfaces
// ============================================

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error
}

type OrganizationRepository interface {
	// CreateWithAdmin inserts the organization and its founding ADMIN
	// membership in a single transaction.
	CreateWithAdmin(ctx context.Context, org *Organization, membership *Membership) error
	FindByID(ctx context.Context, id string) (*Organization, error)
	FindMembershipsByUser(ctx context.Context, userID string) ([]*MembershipWithOrg, error)
	FindMember(ctx context.Context, organizationID, userID string) (*Membership, error)
	FindMembers(ctx context.Context, organizationID string) ([]*Membership, error)
}

type InvitationRepository interface {
	// Issue creates the invitation, or refreshes the pending one for the
	// same (organization, email) in place. Runs in a single transaction
	// and fails with ErrAlreadyMember when the address already belongs to
	// a member of the organization.
	Issue(ctx context.Context, invitation *Invitation) error
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindByOrganization(ctx context.Context, organizationID string) ([]*Invitation, error)
	FindPendingByEmail(ctx context.Context, email string) ([]*InvitationWithOrg, error)
	// Accept marks the invitation accepted and upserts the membership in a
	// single transaction. Fails with ErrAlreadyAccepted when another accept
	// already won.
	Accept(ctx context.Context, invitation *Invitation, userID string) (*Membership, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *ExpenseCategory) error
	FindByID(ctx context.Context, organizationID, id string) (*ExpenseCategory, error)
	FindByOrganization(ctx context.Context, organizationID string) ([]*ExpenseCategory, error)
	FindByName(ctx context.Context, organizationID, name string) (*ExpenseCategory, error)
	Update(ctx context.Context, category *ExpenseCategory) error
	Delete(ctx context.Context, organizationID, id string) error
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, organizationID, id string) (*Expense, error)
	FindByOrganization(ctx context.Context, organizationID string) ([]*Expense, error)
	Delete(ctx context.Context, organizationID, id string) error
	SummarizeByCategory(ctx context.Context, organizationID string, year, month int) ([]*CategoryAmount, error)
}

// ============================================
// Repositories Container
// ============================================

type Repositories struct {
	UserRepo         UserRepository
	OrganizationRepo OrganizationRepository
	InvitationRepo   InvitationRepository
	CategoryRepo     CategoryRepository
	ExpenseRepo      ExpenseRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:         NewUserRepository(pool),
		OrganizationRepo: NewOrganizationRepository(pool),
		InvitationRepo:   NewInvitationRepository(pool),
		CategoryRepo:     NewCategoryRepository(pool),
		ExpenseRepo:      NewExpenseRepository(pool),
	}
}

// NewMemoryRepositories returns in-memory implementations of every
// repository, all backed by one shared store so cross-entity lookups behave
// like the SQL versions. These back the service tests and local development
// without a database.
func NewMemoryRepositories() *Repositories {
	store := newMemoryStore()
	return &Repositories{
		UserRepo:         &memoryUserRepository{store: store},
		OrganizationRepo: &memoryOrganizationRepository{store: store},
		InvitationRepo:   &memoryInvitationRepository{store: store},
		CategoryRepo:     &memoryCategoryRepository{store: store},
		ExpenseRepo:      &memoryExpenseRepository{store: store},
	}
}
