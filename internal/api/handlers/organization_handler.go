package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/ledgerline-backend/internal/api/middleware"
	"github.com/ledgerline/ledgerline-backend/internal/models"
	"github.com/ledgerline/ledgerline-backend/internal/service"
)

// ============================================
// Organization Handler
// ============================================

type OrganizationHandler struct {
	organizationService service.OrganizationService
}

func (h *OrganizationHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, membership, err := h.organizationService.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"organization": toOrganizationResponse(org),
		"membership":   toMembershipResponse(membership),
	})
}

func (h *OrganizationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	memberships, err := h.organizationService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.MembershipResponse, len(memberships))
	for i, m := range memberships {
		response[i] = toMembershipWithOrgResponse(m)
	}

	c.JSON(http.StatusOK, response)
}
