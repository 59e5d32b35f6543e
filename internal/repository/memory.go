package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory implementations backed by a single shared store so that the
// cross-entity checks (member-by-email, membership upsert) behave like the
// SQL versions. Used by the service tests and local development.

type memoryStore struct {
	mu            sync.Mutex
	users         map[string]*User
	refreshTokens map[string]*RefreshToken
	organizations map[string]*Organization
	memberships   map[string]*Membership
	invitations   map[string]*Invitation
	categories    map[string]*ExpenseCategory
	expenses      map[string]*Expense
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         make(map[string]*User),
		refreshTokens: make(map[string]*RefreshToken),
		organizations: make(map[string]*Organization),
		memberships:   make(map[string]*Membership),
		invitations:   make(map[string]*Invitation),
		categories:    make(map[string]*ExpenseCategory),
		expenses:      make(map[string]*Expense),
	}
}

func (s *memoryStore) findMember(organizationID, userID string) *Membership {
	for _, m := range s.memberships {
		if m.OrganizationID == organizationID && m.UserID == userID {
			return m
		}
	}
	return nil
}

// ============================================
// User
// ============================================

type memoryUserRepository struct {
	store *memoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.UpdatedAt = time.Now()
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token.CreatedAt = time.Now()
	copied := *token
	r.store.refreshTokens[token.Token] = &copied
	return nil
}

func (r *memoryUserRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if rt, ok := r.store.refreshTokens[token]; ok {
		copied := *rt
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryUserRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.refreshTokens, token)
	return nil
}

func (r *memoryUserRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for token, rt := range r.store.refreshTokens {
		if rt.UserID == userID {
			delete(r.store.refreshTokens, token)
		}
	}
	return nil
}

// ============================================
// Organization
// ============================================

type memoryOrganizationRepository struct {
	store *memoryStore
}

func (r *memoryOrganizationRepository) CreateWithAdmin(ctx context.Context, org *Organization, membership *Membership) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	org.ID = uuid.New().String()
	org.CreatedAt = time.Now()
	orgCopy := *org
	r.store.organizations[org.ID] = &orgCopy

	membership.ID = uuid.New().String()
	membership.OrganizationID = org.ID
	membership.CreatedAt = org.CreatedAt
	memberCopy := *membership
	r.store.memberships[membership.ID] = &memberCopy
	return nil
}

func (r *memoryOrganizationRepository) FindByID(ctx context.Context, id string) (*Organization, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if org, ok := r.store.organizations[id]; ok {
		copied := *org
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryOrganizationRepository) FindMembershipsByUser(ctx context.Context, userID string) ([]*MembershipWithOrg, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*MembershipWithOrg
	for _, m := range r.store.memberships {
		if m.UserID != userID {
			continue
		}
		org, ok := r.store.organizations[m.OrganizationID]
		if !ok {
			continue
		}
		result = append(result, &MembershipWithOrg{
			Membership:       *m,
			OrganizationName: org.Name,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OrganizationName < result[j].OrganizationName
	})
	return result, nil
}

func (r *memoryOrganizationRepository) FindMember(ctx context.Context, organizationID, userID string) (*Membership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m := r.store.findMember(organizationID, userID); m != nil {
		copied := *m
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryOrganizationRepository) FindMembers(ctx context.Context, organizationID string) ([]*Membership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var members []*Membership
	for _, m := range r.store.memberships {
		if m.OrganizationID == organizationID {
			copied := *m
			members = append(members, &copied)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

// ============================================
// Invitation
// ============================================

type memoryInvitationRepository struct {
	store *memoryStore
}

func (r *memoryInvitationRepository) Issue(ctx context.Context, invitation *Invitation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, m := range r.store.memberships {
		if m.OrganizationID != invitation.OrganizationID {
			continue
		}
		if u, ok := r.store.users[m.UserID]; ok && strings.EqualFold(u.Email, invitation.Email) {
			return ErrAlreadyMember
		}
	}

	for _, existing := range r.store.invitations {
		if existing.OrganizationID == invitation.OrganizationID &&
			existing.Email == invitation.Email && existing.AcceptedAt == nil {
			existing.Role = invitation.Role
			existing.Token = invitation.Token
			existing.InvitedByID = invitation.InvitedByID
			existing.ExpiresAt = invitation.ExpiresAt
			existing.CreatedAt = time.Now()
			invitation.ID = existing.ID
			invitation.CreatedAt = existing.CreatedAt
			return nil
		}
	}

	invitation.ID = uuid.New().String()
	invitation.CreatedAt = time.Now()
	copied := *invitation
	r.store.invitations[invitation.ID] = &copied
	return nil
}

func (r *memoryInvitationRepository) FindByToken(ctx context.Context, token string) (*Invitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, invitation := range r.store.invitations {
		if invitation.Token == token {
			copied := *invitation
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryInvitationRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*Invitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var invitations []*Invitation
	for _, invitation := range r.store.invitations {
		if invitation.OrganizationID == organizationID {
			copied := *invitation
			invitations = append(invitations, &copied)
		}
	}
	sort.Slice(invitations, func(i, j int) bool {
		return invitations[i].CreatedAt.After(invitations[j].CreatedAt)
	})
	return invitations, nil
}

func (r *memoryInvitationRepository) FindPendingByEmail(ctx context.Context, email string) ([]*InvitationWithOrg, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	var invitations []*InvitationWithOrg
	for _, invitation := range r.store.invitations {
		if invitation.Email != email || invitation.AcceptedAt != nil || !invitation.ExpiresAt.After(now) {
			continue
		}
		org, ok := r.store.organizations[invitation.OrganizationID]
		if !ok {
			continue
		}
		invitations = append(invitations, &InvitationWithOrg{
			Invitation:       *invitation,
			OrganizationName: org.Name,
		})
	}
	sort.Slice(invitations, func(i, j int) bool {
		return invitations[i].CreatedAt.After(invitations[j].CreatedAt)
	})
	return invitations, nil
}

func (r *memoryInvitationRepository) Accept(ctx context.Context, invitation *Invitation, userID string) (*Membership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.invitations[invitation.ID]
	if !ok || stored.AcceptedAt != nil {
		return nil, ErrAlreadyAccepted
	}
	now := time.Now()
	stored.AcceptedAt = &now
	stored.AcceptedByID = &userID

	if existing := r.store.findMember(invitation.OrganizationID, userID); existing != nil {
		existing.Role = invitation.Role
		copied := *existing
		return &copied, nil
	}

	membership := &Membership{
		ID:             uuid.New().String(),
		OrganizationID: invitation.OrganizationID,
		UserID:         userID,
		Role:           invitation.Role,
		CreatedAt:      now,
	}
	r.store.memberships[membership.ID] = membership
	copied := *membership
	return &copied, nil
}

func (r *memoryInvitationRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	deleted := 0
	for id, invitation := range r.store.invitations {
		if invitation.AcceptedAt == nil && invitation.ExpiresAt.Before(cutoff) {
			delete(r.store.invitations, id)
			deleted++
		}
	}
	return deleted, nil
}

// ============================================
// Category
// ============================================

type memoryCategoryRepository struct {
	store *memoryStore
}

func (r *memoryCategoryRepository) Create(ctx context.Context, category *ExpenseCategory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	category.ID = uuid.New().String()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	copied := *category
	r.store.categories[category.ID] = &copied
	return nil
}

func (r *memoryCategoryRepository) FindByID(ctx context.Context, organizationID, id string) (*ExpenseCategory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.categories[id]; ok && c.OrganizationID == organizationID {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryCategoryRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*ExpenseCategory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var categories []*ExpenseCategory
	for _, c := range r.store.categories {
		if c.OrganizationID == organizationID {
			copied := *c
			categories = append(categories, &copied)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *memoryCategoryRepository) FindByName(ctx context.Context, organizationID, name string) (*ExpenseCategory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.categories {
		if c.OrganizationID == organizationID && strings.EqualFold(c.Name, name) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryCategoryRepository) Update(ctx context.Context, category *ExpenseCategory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	category.UpdatedAt = time.Now()
	copied := *category
	r.store.categories[category.ID] = &copied
	return nil
}

func (r *memoryCategoryRepository) Delete(ctx context.Context, organizationID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.categories[id]; ok && c.OrganizationID == organizationID {
		delete(r.store.categories, id)
		for _, e := range r.store.expenses {
			if e.CategoryID != nil && *e.CategoryID == id {
				e.CategoryID = nil
			}
		}
	}
	return nil
}

// ============================================
// Expense
// ============================================

type memoryExpenseRepository struct {
	store *memoryStore
}

func (r *memoryExpenseRepository) Create(ctx context.Context, expense *Expense) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	expense.ID = uuid.New().String()
	expense.CreatedAt = time.Now()
	copied := *expense
	r.store.expenses[expense.ID] = &copied
	return nil
}

func (r *memoryExpenseRepository) FindByID(ctx context.Context, organizationID, id string) (*Expense, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if e, ok := r.store.expenses[id]; ok && e.OrganizationID == organizationID {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryExpenseRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*Expense, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var expenses []*Expense
	for _, e := range r.store.expenses {
		if e.OrganizationID == organizationID {
			copied := *e
			expenses = append(expenses, &copied)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].SpentAt.After(expenses[j].SpentAt)
	})
	return expenses, nil
}

func (r *memoryExpenseRepository) Delete(ctx context.Context, organizationID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if e, ok := r.store.expenses[id]; ok && e.OrganizationID == organizationID {
		delete(r.store.expenses, id)
	}
	return nil
}

func (r *memoryExpenseRepository) SummarizeByCategory(ctx context.Context, organizationID string, year, month int) ([]*CategoryAmount, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	byName := make(map[string]*CategoryAmount)
	for _, e := range r.store.expenses {
		if e.OrganizationID != organizationID {
			continue
		}
		if e.SpentAt.Year() != year || int(e.SpentAt.Month()) != month {
			continue
		}
		name := ""
		if e.CategoryID != nil {
			if c, ok := r.store.categories[*e.CategoryID]; ok {
				name = c.Name
			}
		}
		total, ok := byName[name]
		if !ok {
			total = &CategoryAmount{CategoryName: name}
			byName[name] = total
		}
		total.Amount = total.Amount.Add(e.Amount)
	}

	var totals []*CategoryAmount
	for _, total := range byName {
		totals = append(totals, total)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].CategoryName < totals[j].CategoryName
	})
	return totals, nil
}
