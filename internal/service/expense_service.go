package service

import (
	"context"
	"strings"
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/ledgerline/ledgerline-backend/internal/types"
	"github.com/shopspring/decimal"
)

// ============================================
// Expense Service
// ============================================

type ExpenseService interface {
	Create(ctx context.Context, userID, organizationID string, amount decimal.Decimal, description string, categoryID *string, spentAt time.Time) (*repository.Expense, error)
	List(ctx context.Context, userID, organizationID string) ([]*repository.Expense, error)
	Delete(ctx context.Context, userID, organizationID, expenseID string) error
	MonthlySummary(ctx context.Context, userID, organizationID string, year, month int) ([]*repository.CategoryAmount, error)
}

type expenseService struct {
	expenseRepo  repository.ExpenseRepository
	categoryRepo repository.CategoryRepository
	access       AccessService
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, categoryRepo repository.CategoryRepository, access AccessService) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, categoryRepo: categoryRepo, access: access}
}

func (s *expenseService) Create(ctx context.Context, userID, organizationID string, amount decimal.Decimal, description string, categoryID *string, spentAt time.Time) (*repository.Expense, error) {
	if _, err := s.access.RequireMembership(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidInput
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrInvalidInput
	}

	if categoryID != nil && *categoryID != "" {
		category, err := s.categoryRepo.FindByID(ctx, organizationID, *categoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrNotFound
		}
	} else {
		categoryID = nil
	}

	if spentAt.IsZero() {
		spentAt = time.Now()
	}

	expense := &repository.Expense{
		OrganizationID: organizationID,
		CreatedByID:    userID,
		CategoryID:     categoryID,
		Amount:         amount,
		Description:    description,
		SpentAt:        spentAt,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

func (s *expenseService) List(ctx context.Context, userID, organizationID string) ([]*repository.Expense, error) {
	if _, err := s.access.RequireMembership(ctx, userID, organizationID); err != nil {
		return nil, err
	}
	return s.expenseRepo.FindByOrganization(ctx, organizationID)
}

func (s *expenseService) Delete(ctx context.Context, userID, organizationID, expenseID string) error {
	membership, err := s.access.RequireMembership(ctx, userID, organizationID)
	if err != nil {
		return err
	}

	expense, err := s.expenseRepo.FindByID(ctx, organizationID, expenseID)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrNotFound
	}

	// Members may only remove their own expenses.
	if expense.CreatedByID != userID && membership.Role != types.RoleAdmin {
		return ErrForbidden
	}

	return s.expenseRepo.Delete(ctx, organizationID, expenseID)
}

func (s *expenseService) MonthlySummary(ctx context.Context, userID, organizationID string, year, month int) ([]*repository.CategoryAmount, error) {
	if _, err := s.access.RequireMembership(ctx, userID, organizationID); err != nil {
		return nil, err
	}
	if year < 1 || month < 1 || month > 12 {
		return nil, ErrInvalidInput
	}
	return s.expenseRepo.SummarizeByCategory(ctx, organizationID, year, month)
}
