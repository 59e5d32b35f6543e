package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================
// Auth DTOs
// ============================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================
// Organization DTOs
// ============================================

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2,max=120"`
}

type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type MembershipResponse struct {
	ID               string    `json:"id"`
	OrganizationID   string    `json:"organizationId"`
	OrganizationName string    `json:"organizationName,omitempty"`
	UserID           string    `json:"userId"`
	Role             string    `json:"role"`
	JoinedAt         time.Time `json:"joinedAt"`
}

// ============================================
// Invitation DTOs
// ============================================

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=ADMIN MEMBER"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// InvitationResponse is the admin-facing listing view. The token is only
// present while the invitation can still be redeemed.
type InvitationResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	Token          string    `json:"token,omitempty"`
	InvitedByID    string    `json:"invitedById"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// PendingInvitationResponse is the self-service view of an invitation
// addressed to the caller.
type PendingInvitationResponse struct {
	ID               string    `json:"id"`
	OrganizationID   string    `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	Role             string    `json:"role"`
	Token            string    `json:"token"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

type AcceptInvitationResponse struct {
	Organization OrganizationResponse `json:"organization"`
	Membership   MembershipResponse   `json:"membership"`
}

// ============================================
// Category DTOs
// ============================================

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=80"`
	Description string `json:"description" binding:"max=500"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=80"`
	Description string `json:"description" binding:"max=500"`
}

type CategoryResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ============================================
// Expense DTOs
// ============================================

type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	CategoryID  *string         `json:"categoryId"`
	SpentAt     *time.Time      `json:"spentAt"`
}

type ExpenseResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organizationId"`
	CategoryID     *string         `json:"categoryId,omitempty"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	SpentAt        time.Time       `json:"spentAt"`
	CreatedByID    string          `json:"createdById"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type CategoryAmountResponse struct {
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
}
