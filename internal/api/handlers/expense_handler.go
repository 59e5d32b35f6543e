package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/ledgerline-backend/internal/api/middleware"
	"github.com/ledgerline/ledgerline-backend/internal/models"
	"github.com/ledgerline/ledgerline-backend/internal/service"
)

// ============================================
// Expense Handler
// ============================================

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spentAt := time.Time{}
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	expense, err := h.expenseService.Create(c.Request.Context(), userID, organizationID, req.Amount, req.Description, req.CategoryID, spentAt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")

	expenses, err := h.expenseService.List(c.Request.Context(), userID, organizationID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = toExpenseResponse(e)
	}

	c.JSON(http.StatusOK, response)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")
	expenseID := c.Param("expenseId")

	if err := h.expenseService.Delete(c.Request.Context(), userID, organizationID, expenseID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *ExpenseHandler) MonthlySummary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := c.Param("id")

	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	summary, err := h.expenseService.MonthlySummary(c.Request.Context(), userID, organizationID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.CategoryAmountResponse, len(summary))
	for i, ca := range summary {
		response[i] = toCategoryAmountResponse(ca)
	}

	c.JSON(http.StatusOK, response)
}
