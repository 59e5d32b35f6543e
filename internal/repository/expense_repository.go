package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgExpenseRepository struct {
	pool *pgxpool.Pool
}

func NewExpenseRepository(pool *pgxpool.Pool) ExpenseRepository {
	return &pgExpenseRepository{pool: pool}
}

func (r *pgExpenseRepository) Create(ctx context.Context, expense *Expense) error {
	query := `
		INSERT INTO expenses (organization_id, category_id, description, amount, spent_at, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		expense.OrganizationID, expense.CategoryID, expense.Description,
		expense.Amount, expense.SpentAt, expense.CreatedByID,
	).Scan(&expense.ID, &expense.CreatedAt)
}

func (r *pgExpenseRepository) FindByID(ctx context.Context, organizationID, id string) (*Expense, error) {
	query := `
		SELECT id, organization_id, category_id, description, amount, spent_at, created_by_id, created_at
		FROM expenses WHERE id = $1 AND organization_id = $2
	`
	expense := &Expense{}
	err := r.pool.QueryRow(ctx, query, id, organizationID).Scan(
		&expense.ID, &expense.OrganizationID, &expense.CategoryID,
		&expense.Description, &expense.Amount, &expense.SpentAt,
		&expense.CreatedByID, &expense.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *pgExpenseRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*Expense, error) {
	query := `
		SELECT id, organization_id, category_id, description, amount, spent_at, created_by_id, created_at
		FROM expenses WHERE organization_id = $1
		ORDER BY spent_at DESC, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID, &expense.OrganizationID, &expense.CategoryID,
			&expense.Description, &expense.Amount, &expense.SpentAt,
			&expense.CreatedByID, &expense.CreatedAt,
		); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *pgExpenseRepository) Delete(ctx context.Context, organizationID, id string) error {
	query := `DELETE FROM expenses WHERE id = $1 AND organization_id = $2`
	_, err := r.pool.Exec(ctx, query, id, organizationID)
	return err
}

func (r *pgExpenseRepository) SummarizeByCategory(ctx context.Context, organizationID string, year, month int) ([]*CategoryAmount, error) {
	// Uncategorized expenses fall into the empty-name bucket.
	query := `
		SELECT COALESCE(c.name, ''), SUM(e.amount)
		FROM expenses e
		LEFT JOIN expense_categories c ON c.id = e.category_id
		WHERE e.organization_id = $1
			AND EXTRACT(YEAR FROM e.spent_at) = $2
			AND EXTRACT(MONTH FROM e.spent_at) = $3
		GROUP BY COALESCE(c.name, '')
		ORDER BY 1 ASC
	`
	rows, err := r.pool.Query(ctx, query, organizationID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*CategoryAmount
	for rows.Next() {
		total := &CategoryAmount{}
		if err := rows.Scan(&total.CategoryName, &total.Amount); err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}
