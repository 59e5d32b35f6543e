package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgInvitationRepository{pool: pool}
}

func (r *pgInvitationRepository) Issue(ctx context.Context, invitation *Invitation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The address must not already belong to a member of the organization.
	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM memberships m
			JOIN users u ON u.id = m.user_id
			WHERE m.organization_id = $1 AND LOWER(u.email) = $2
		)
	`, invitation.OrganizationID, invitation.Email).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyMember
	}

	// A pending invitation for the same address is refreshed in place
	// rather than duplicated: new token, new expiry, new inviter.
	var pendingID string
	err = tx.QueryRow(ctx, `
		SELECT id FROM invitations
		WHERE organization_id = $1 AND email = $2 AND accepted_at IS NULL
		FOR UPDATE
	`, invitation.OrganizationID, invitation.Email).Scan(&pendingID)
	if err != nil && err != pgx.ErrNoRows {
		return err
	}

	if err == nil {
		err = tx.QueryRow(ctx, `
			UPDATE invitations
			SET role = $2, token = $3, invited_by_id = $4, expires_at = $5, created_at = NOW()
			WHERE id = $1
			RETURNING id, created_at
		`, pendingID, invitation.Role, invitation.Token, invitation.InvitedByID, invitation.ExpiresAt).
			Scan(&invitation.ID, &invitation.CreatedAt)
	} else {
		err = tx.QueryRow(ctx, `
			INSERT INTO invitations (organization_id, email, role, token, invited_by_id, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, invitation.OrganizationID, invitation.Email, invitation.Role, invitation.Token,
			invitation.InvitedByID, invitation.ExpiresAt).
			Scan(&invitation.ID, &invitation.CreatedAt)
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *pgInvitationRepository) FindByToken(ctx context.Context, token string) (*Invitation, error) {
	query := `
		SELECT id, organization_id, email, role, token, invited_by_id,
			created_at, expires_at, accepted_at, accepted_by_id
		FROM invitations WHERE token = $1
	`
	invitation := &Invitation{}
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&invitation.ID, &invitation.OrganizationID, &invitation.Email,
		&invitation.Role, &invitation.Token, &invitation.InvitedByID,
		&invitation.CreatedAt, &invitation.ExpiresAt,
		&invitation.AcceptedAt, &invitation.AcceptedByID,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (r *pgInvitationRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*Invitation, error) {
	query := `
		SELECT id, organization_id, email, role, token, invited_by_id,
			created_at, expires_at, accepted_at, accepted_by_id
		FROM invitations WHERE organization_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		invitation := &Invitation{}
		if err := rows.Scan(
			&invitation.ID, &invitation.OrganizationID, &invitation.Email,
			&invitation.Role, &invitation.Token, &invitation.InvitedByID,
			&invitation.CreatedAt, &invitation.ExpiresAt,
			&invitation.AcceptedAt, &invitation.AcceptedByID,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (r *pgInvitationRepository) FindPendingByEmail(ctx context.Context, email string) ([]*InvitationWithOrg, error) {
	query := `
		SELECT i.id, i.organization_id, i.email, i.role, i.token, i.invited_by_id,
			i.created_at, i.expires_at, i.accepted_at, i.accepted_by_id, o.name
		FROM invitations i
		JOIN organizations o ON o.id = i.organization_id
		WHERE i.email = $1 AND i.accepted_at IS NULL AND i.expires_at > NOW()
		ORDER BY i.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*InvitationWithOrg
	for rows.Next() {
		invitation := &InvitationWithOrg{}
		if err := rows.Scan(
			&invitation.ID, &invitation.OrganizationID, &invitation.Email,
			&invitation.Role, &invitation.Token, &invitation.InvitedByID,
			&invitation.CreatedAt, &invitation.ExpiresAt,
			&invitation.AcceptedAt, &invitation.AcceptedByID,
			&invitation.OrganizationName,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (r *pgInvitationRepository) Accept(ctx context.Context, invitation *Invitation, userID string) (*Membership, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Conditional update: zero rows means a concurrent accept already won.
	tag, err := tx.Exec(ctx, `
		UPDATE invitations
		SET accepted_at = NOW(), accepted_by_id = $2
		WHERE id = $1 AND accepted_at IS NULL
	`, invitation.ID, userID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAlreadyAccepted
	}

	// Upsert keeps at most one membership per (user, organization);
	// re-acceptance at a different role overwrites the role.
	membership := &Membership{
		OrganizationID: invitation.OrganizationID,
		UserID:         userID,
		Role:           invitation.Role,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO memberships (organization_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET role = $3
		RETURNING id, role, created_at
	`, membership.OrganizationID, membership.UserID, membership.Role).
		Scan(&membership.ID, &membership.Role, &membership.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return membership, nil
}

func (r *pgInvitationRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := `DELETE FROM invitations WHERE accepted_at IS NULL AND expires_at < $1`
	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}
