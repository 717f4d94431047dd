package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PassengerRepo reads and removes the links between users and the car they
// ride in.  Links are created by InvitationRepo.AcceptByToken together with
// the status flip.  Each user rides in at most one car at a time, enforced
// by a unique index on user_id.
type PassengerRepo struct{ DB *sql.DB }

func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{DB: db} }

// CarIDForUser returns the car userID rides in.  ErrNotPassenger is
// returned when the user is not linked to any car.
func (r *PassengerRepo) CarIDForUser(ctx context.Context, userID uint64) (uint64, error) {
	var carID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT car_id FROM passengers WHERE user_id = ? LIMIT 1`, userID).Scan(&carID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotPassenger
		}
		return 0, err
	}
	return carID, nil
}

// Remove unlinks userID from carID and drops any seat they held there.
func (r *PassengerRepo) Remove(ctx context.Context, carID, userID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seats WHERE car_id = ? AND user_id = ?`, carID, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM passengers WHERE car_id = ? AND user_id = ?`, carID, userID); err != nil {
		return err
	}
	return tx.Commit()
}
