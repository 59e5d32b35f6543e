package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/ledgerline-backend/internal/api/middleware"
	"github.com/ledgerline/ledgerline-backend/internal/models"
	"github.com/ledgerline/ledgerline-backend/internal/service"
)

// ============================================
// Category Handler
// ============================================

type CategoryHandler struct {
	categoryService service.CategoryService
}

func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")

	categories, err := h.categoryService.List(c.Request.Context(), userID, organizationID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.CategoryResponse, len(categories))
	for i, cat := range categories {
		response[i] = toCategoryResponse(cat)
	}

	c.JSON(http.StatusOK, response)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), userID, organizationID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")
	categoryID := c.Param("categoryId")

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), userID, organizationID, categoryID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCategoryResponse(category))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")
	categoryID := c.Param("categoryId")

	if err := h.categoryService.Delete(c.Request.Context(), userID, organizationID, categoryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
