package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/ledgerline-backend/internal/api/middleware"
	"github.com/ledgerline/ledgerline-backend/internal/models"
	"github.com/ledgerline/ledgerline-backend/internal/service"
)

// ============================================
// Invitation Handler
// ============================================

type InvitationHandler struct {
	invitationService service.InvitationService
}

func (h *InvitationHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")

	var req models.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := h.invitationService.Invite(c.Request.Context(), userID, organizationID, req.Email, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toInvitationResponse(invitation, time.Now()))
}

func (h *InvitationHandler) ListByOrganization(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")

	invitations, err := h.invitationService.ListByOrganization(c.Request.Context(), userID, organizationID)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	response := make([]models.InvitationResponse, len(invitations))
	for i, inv := range invitations {
		response[i] = toInvitationResponse(inv, now)
	}

	c.JSON(http.StatusOK, response)
}

func (h *InvitationHandler) MyInvitations(c *gin.Context) {
	userID := middleware.GetUserID(c)

	invitations, err := h.invitationService.MyInvitations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.PendingInvitationResponse, len(invitations))
	for i, inv := range invitations {
		response[i] = toPendingInvitationResponse(inv)
	}

	c.JSON(http.StatusOK, response)
}

func (h *InvitationHandler) Accept(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.invitationService.Accept(c.Request.Context(), userID, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.AcceptInvitationResponse{
		Membership: toMembershipResponse(result.Membership),
	}
	if result.Organization != nil {
		resp.Organization = toOrganizationResponse(result.Organization)
	}

	c.JSON(http.StatusOK, resp)
}
