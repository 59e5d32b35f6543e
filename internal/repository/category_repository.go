package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &pgCategoryRepository{pool: pool}
}

func (r *pgCategoryRepository) Create(ctx context.Context, category *ExpenseCategory) error {
	query := `
		INSERT INTO expense_categories (organization_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		category.OrganizationID, category.Name, category.Description,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *pgCategoryRepository) FindByID(ctx context.Context, organizationID, id string) (*ExpenseCategory, error) {
	// Scoped on organization so a foreign id behaves like a missing one.
	query := `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM expense_categories WHERE id = $1 AND organization_id = $2
	`
	category := &ExpenseCategory{}
	err := r.pool.QueryRow(ctx, query, id, organizationID).Scan(
		&category.ID, &category.OrganizationID, &category.Name,
		&category.Description, &category.CreatedAt, &category.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *pgCategoryRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*ExpenseCategory, error) {
	query := `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM expense_categories WHERE organization_id = $1
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*ExpenseCategory
	for rows.Next() {
		category := &ExpenseCategory{}
		if err := rows.Scan(
			&category.ID, &category.OrganizationID, &category.Name,
			&category.Description, &category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *pgCategoryRepository) FindByName(ctx context.Context, organizationID, name string) (*ExpenseCategory, error) {
	query := `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM expense_categories
		WHERE organization_id = $1 AND LOWER(name) = LOWER($2)
	`
	category := &ExpenseCategory{}
	err := r.pool.QueryRow(ctx, query, organizationID, name).Scan(
		&category.ID, &category.OrganizationID, &category.Name,
		&category.Description, &category.CreatedAt, &category.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *pgCategoryRepository) Update(ctx context.Context, category *ExpenseCategory) error {
	query := `
		UPDATE expense_categories
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.Description)
	return err
}

func (r *pgCategoryRepository) Delete(ctx context.Context, organizationID, id string) error {
	query := `DELETE FROM expense_categories WHERE id = $1 AND organization_id = $2`
	_, err := r.pool.Exec(ctx, query, id, organizationID)
	return err
}
