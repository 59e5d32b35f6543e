package service

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestExpenseCreateAndList(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	travel, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Travel", "")
	require.NoError(t, err)

	older := time.Now().AddDate(0, 0, -2)
	newer := time.Now().AddDate(0, 0, -1)

	first, err := svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromFloat(84.50), "Train ticket", &travel.ID, older)
	require.NoError(t, err)
	require.True(t, first.Amount.Equal(decimal.NewFromFloat(84.50)))
	require.NotNil(t, first.CategoryID)

	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(12), "Coffee", nil, newer)
	require.NoError(t, err)

	expenses, err := svcs.Expense.List(ctx, admin.ID, org.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	// Newest spend first
	require.Equal(t, "Coffee", expenses[0].Description)
	require.Equal(t, "Train ticket", expenses[1].Description)
}

func TestExpenseCreateValidation(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	_, err := svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.Zero, "Nothing", nil, time.Now())
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(-5), "Refund", nil, time.Now())
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(5), "   ", nil, time.Now())
	require.ErrorIs(t, err, ErrInvalidInput)

	// Category must belong to the same organization
	other := createOrganization(t, svcs, admin.ID, "Alpine Co")
	foreign, err := svcs.Category.Create(ctx, admin.ID, other.ID, "Travel", "")
	require.NoError(t, err)
	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(5), "Train", &foreign.ID, time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExpenseDeletePermissions(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	member := registerUser(t, svcs, "Tomas", "tomas@example.com")
	inv, err := svcs.Invitation.Invite(ctx, admin.ID, org.ID, member.Email, types.RoleMember)
	require.NoError(t, err)
	_, err = svcs.Invitation.Accept(ctx, member.ID, inv.Token)
	require.NoError(t, err)

	adminExpense, err := svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(10), "Admin lunch", nil, time.Now())
	require.NoError(t, err)
	memberExpense, err := svcs.Expense.Create(ctx, member.ID, org.ID, decimal.NewFromInt(20), "Member lunch", nil, time.Now())
	require.NoError(t, err)

	// Member cannot delete someone else's expense
	err = svcs.Expense.Delete(ctx, member.ID, org.ID, adminExpense.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// Member can delete their own
	require.NoError(t, svcs.Expense.Delete(ctx, member.ID, org.ID, memberExpense.ID))

	// Admin can delete any
	require.NoError(t, svcs.Expense.Delete(ctx, admin.ID, org.ID, adminExpense.ID))

	err = svcs.Expense.Delete(ctx, admin.ID, org.ID, adminExpense.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExpenseMonthlySummary(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")

	travel, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Travel", "")
	require.NoError(t, err)
	meals, err := svcs.Category.Create(ctx, admin.ID, org.ID, "Meals", "")
	require.NoError(t, err)

	march := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 2, 12, 0, 0, 0, time.UTC)

	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(100), "Flight", &travel.ID, march)
	require.NoError(t, err)
	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromFloat(23.50), "Taxi", &travel.ID, march.AddDate(0, 0, 5))
	require.NoError(t, err)
	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(40), "Dinner", &meals.ID, march)
	require.NoError(t, err)
	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(7), "Snacks", nil, march)
	require.NoError(t, err)
	// Different month, excluded
	_, err = svcs.Expense.Create(ctx, admin.ID, org.ID, decimal.NewFromInt(999), "Hotel", &travel.ID, april)
	require.NoError(t, err)

	summary, err := svcs.Expense.MonthlySummary(ctx, admin.ID, org.ID, 2026, 3)
	require.NoError(t, err)
	require.Len(t, summary, 3)

	totals := make(map[string]decimal.Decimal)
	for _, ca := range summary {
		totals[ca.CategoryName] = ca.Amount
	}
	require.True(t, totals["Travel"].Equal(decimal.NewFromFloat(123.50)))
	require.True(t, totals["Meals"].Equal(decimal.NewFromInt(40)))
	require.True(t, totals[""].Equal(decimal.NewFromInt(7)))

	_, err = svcs.Expense.MonthlySummary(ctx, admin.ID, org.ID, 2026, 13)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExpenseRequiresMembership(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	admin := registerUser(t, svcs, "Nora", "nora@example.com")
	org := createOrganization(t, svcs, admin.ID, "Fjord Studio")
	outsider := registerUser(t, svcs, "Erik", "erik@example.com")

	_, err := svcs.Expense.Create(ctx, outsider.ID, org.ID, decimal.NewFromInt(10), "Lunch", nil, time.Now())
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svcs.Expense.List(ctx, outsider.ID, org.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svcs.Expense.MonthlySummary(ctx, outsider.ID, org.ID, 2026, 3)
	require.ErrorIs(t, err, ErrForbidden)
}
