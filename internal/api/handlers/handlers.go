package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/ledgerline-backend/internal/models"
	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/ledgerline/ledgerline-backend/internal/service"
	"github.com/ledgerline/ledgerline-backend/internal/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	Organization *OrganizationHandler
	Invitation   *InvitationHandler
	Category     *CategoryHandler
	Expense      *ExpenseHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         &AuthHandler{authService: services.Auth},
		Organization: &OrganizationHandler{organizationService: services.Organization},
		Invitation:   &InvitationHandler{invitationService: services.Invitation},
		Category:     &CategoryHandler{categoryService: services.Category},
		Expense:      &ExpenseHandler{expenseService: services.Expense},
	}
}

// respondError maps service sentinel errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrEmailMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrAlreadyMember), errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrSelfInvite),
		errors.Is(err, service.ErrInvitationAccepted),
		errors.Is(err, service.ErrInvitationExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toOrganizationResponse(o *repository.Organization) models.OrganizationResponse {
	return models.OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		CreatedAt: o.CreatedAt,
	}
}

func toMembershipResponse(m *repository.Membership) models.MembershipResponse {
	return models.MembershipResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           m.Role,
		JoinedAt:       m.CreatedAt,
	}
}

func toMembershipWithOrgResponse(m *repository.MembershipWithOrg) models.MembershipResponse {
	resp := toMembershipResponse(&m.Membership)
	resp.OrganizationName = m.OrganizationName
	return resp
}

// toInvitationResponse derives the status at read time and withholds the
// token once the invitation has been redeemed.
func toInvitationResponse(inv *repository.Invitation, now time.Time) models.InvitationResponse {
	resp := models.InvitationResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		Email:          inv.Email,
		Role:           inv.Role,
		Status:         inv.Status(now),
		InvitedByID:    inv.InvitedByID,
		CreatedAt:      inv.CreatedAt,
		ExpiresAt:      inv.ExpiresAt,
	}
	if resp.Status != types.InvitationAccepted {
		resp.Token = inv.Token
	}
	return resp
}

func toPendingInvitationResponse(inv *repository.InvitationWithOrg) models.PendingInvitationResponse {
	return models.PendingInvitationResponse{
		ID:               inv.ID,
		OrganizationID:   inv.OrganizationID,
		OrganizationName: inv.OrganizationName,
		Role:             inv.Role,
		Token:            inv.Token,
		ExpiresAt:        inv.ExpiresAt,
	}
}

func toCategoryResponse(cat *repository.ExpenseCategory) models.CategoryResponse {
	return models.CategoryResponse{
		ID:             cat.ID,
		OrganizationID: cat.OrganizationID,
		Name:           cat.Name,
		Description:    cat.Description,
		CreatedAt:      cat.CreatedAt,
		UpdatedAt:      cat.UpdatedAt,
	}
}

func toExpenseResponse(e *repository.Expense) models.ExpenseResponse {
	return models.ExpenseResponse{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		CategoryID:     e.CategoryID,
		Description:    e.Description,
		Amount:         e.Amount,
		SpentAt:        e.SpentAt,
		CreatedByID:    e.CreatedByID,
		CreatedAt:      e.CreatedAt,
	}
}

func toCategoryAmountResponse(ca *repository.CategoryAmount) models.CategoryAmountResponse {
	return models.CategoryAmountResponse{
		CategoryName: ca.CategoryName,
		Amount:       ca.Amount,
	}
}
