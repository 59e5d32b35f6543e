package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgOrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &pgOrganizationRepository{pool: pool}
}

func (r *pgOrganizationRepository) CreateWithAdmin(ctx context.Context, org *Organization, membership *Membership) error {
	// Both rows land or neither does; an organization must never exist
	// without its founding admin.
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO organizations (name, created_by_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, org.Name, org.CreatedByID).Scan(&org.ID, &org.CreatedAt)
	if err != nil {
		return err
	}

	membership.OrganizationID = org.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO memberships (organization_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, membership.OrganizationID, membership.UserID, membership.Role).
		Scan(&membership.ID, &membership.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *pgOrganizationRepository) FindByID(ctx context.Context, id string) (*Organization, error) {
	query := `
		SELECT id, name, created_by_id, created_at
		FROM organizations WHERE id = $1
	`
	org := &Organization{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.CreatedByID, &org.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *pgOrganizationRepository) FindMembershipsByUser(ctx context.Context, userID string) ([]*MembershipWithOrg, error) {
	query := `
		SELECT m.id, m.organization_id, m.user_id, m.role, m.created_at, o.name
		FROM memberships m
		JOIN organizations o ON o.id = m.organization_id
		WHERE m.user_id = $1
		ORDER BY o.name ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*MembershipWithOrg
	for rows.Next() {
		m := &MembershipWithOrg{}
		if err := rows.Scan(
			&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt,
			&m.OrganizationName,
		); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *pgOrganizationRepository) FindMember(ctx context.Context, organizationID, userID string) (*Membership, error) {
	query := `
		SELECT id, organization_id, user_id, role, created_at
		FROM memberships WHERE organization_id = $1 AND user_id = $2
	`
	m := &Membership{}
	err := r.pool.QueryRow(ctx, query, organizationID, userID).Scan(
		&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgOrganizationRepository) FindMembers(ctx context.Context, organizationID string) ([]*Membership, error) {
	query := `
		SELECT id, organization_id, user_id, role, created_at
		FROM memberships WHERE organization_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Membership
	for rows.Next() {
		m := &Membership{}
		if err := rows.Scan(
			&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
