package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sitzy/sitzy/internal/model"
)

// InvitationRepo provides persistence for invitations.  Rows are addressed
// by their opaque token, which is what e-mail deep links and clients carry.
type InvitationRepo struct{ DB *sql.DB }

func NewInvitationRepo(db *sql.DB) *InvitationRepo { return &InvitationRepo{DB: db} }

const invitationColumns = "id, car_id, invited_email, token, status, created_at"

// Create inserts an invitation.  On success the ID is populated.
func (r *InvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	const q = `INSERT INTO invitations (car_id, invited_email, token, status) VALUES (?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q,
		inv.CarID, strings.ToLower(inv.InvitedEmail), inv.Token, inv.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return nil
}

// GetByToken retrieves an invitation by its token.
func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations WHERE token = ?`
	var inv model.Invitation
	err := r.DB.QueryRowContext(ctx, q, token).
		Scan(&inv.ID, &inv.CarID, &inv.InvitedEmail, &inv.Token, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// ListByCar retrieves all invitations of a car, oldest first.
func (r *InvitationRepo) ListByCar(ctx context.Context, carID uint64) ([]model.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations WHERE car_id = ? ORDER BY created_at, id`
	return r.list(ctx, q, carID)
}

// ListPendingByEmail retrieves pending invitations addressed to email,
// matched case-insensitively.  Used by the dashboard.
func (r *InvitationRepo) ListPendingByEmail(ctx context.Context, email string) ([]model.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations
	           WHERE invited_email = ? AND status = 'PENDING'
	           ORDER BY created_at, id`
	return r.list(ctx, q, strings.ToLower(strings.TrimSpace(email)))
}

func (r *InvitationRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Invitation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invitation
	for rows.Next() {
		var inv model.Invitation
		if err := rows.Scan(&inv.ID, &inv.CarID, &inv.InvitedEmail, &inv.Token,
			&inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AcceptByToken marks a pending invitation accepted and links userID to the
// invitation's car in one transaction, so an accepted row never exists
// without its passenger link.  ErrInvitationNotFound is returned when the
// token does not match a pending row; ErrConflict when the user already
// rides in a different car, in which case the invitation stays pending.
func (r *InvitationRepo) AcceptByToken(ctx context.Context, token string, userID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var carID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT car_id FROM invitations WHERE token = ? AND status = 'PENDING' FOR UPDATE`,
		token).Scan(&carID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvitationNotFound
		}
		return err
	}

	var linked uint64
	err = tx.QueryRowContext(ctx,
		`SELECT car_id FROM passengers WHERE user_id = ? FOR UPDATE`, userID).Scan(&linked)
	switch {
	case err == nil:
		// Re-accepting into the same car is a no-op; a link to another car
		// blocks the accept.  The unique index on user_id would otherwise
		// swallow the insert and leave the old link in place.
		if linked != carID {
			return ErrConflict
		}
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO passengers (car_id, user_id) VALUES (?, ?)`, carID, userID); err != nil {
			if isDuplicateKey(err) {
				return ErrConflict
			}
			return err
		}
	default:
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE invitations SET status = 'ACCEPTED' WHERE token = ? AND status = 'PENDING'`, token)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvitationNotFound
	}
	return tx.Commit()
}

// UpdateStatusByToken moves a pending invitation to the given status.
// ErrInvitationNotFound is returned when the token does not match a pending
// row, so a duplicate respond surfaces instead of silently re-applying.
func (r *InvitationRepo) UpdateStatusByToken(ctx context.Context, token, status string) error {
	const q = `UPDATE invitations SET status = ? WHERE token = ? AND status = 'PENDING'`
	res, err := r.DB.ExecContext(ctx, q, status, token)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

// DeleteByToken removes an invitation.
func (r *InvitationRepo) DeleteByToken(ctx context.Context, token string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM invitations WHERE token = ?`, token)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
