package repository

import (
	"context"
	"database/sql"
	"errors"
)

// OccupiedSeat is a persisted seat assignment joined with the occupant's
// email, which the handlers use as the display label.
type OccupiedSeat struct {
	Position int
	UserID   uint64
	Email    string
}

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides persistence for passenger seat assignments.  Unique
// indexes on (car_id, position) and (car_id, user_id) back the reconciler's
// invariants: one occupant per seat, one seat per passenger.
type SeatRepo struct{ DB *sql.DB }

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{DB: db} }

// ListByCar retrieves the occupied passenger seats of a car ordered by
// position, each with the occupant's email.
func (r *SeatRepo) ListByCar(ctx context.Context, carID uint64) ([]OccupiedSeat, error) {
	const q = `SELECT s.position, s.user_id, u.email
	           FROM seats s
	           JOIN users u ON u.id = s.user_id
	           WHERE s.car_id = ?
	           ORDER BY s.position`
	rows, err := r.DB.QueryContext(ctx, q, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OccupiedSeat
	for rows.Next() {
		var s OccupiedSeat
		if err := rows.Scan(&s.Position, &s.UserID, &s.Email); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// PositionForUser returns the position userID currently occupies in carID.
// ErrSeatNotFound is returned when the user holds no seat there.
func (r *SeatRepo) PositionForUser(ctx context.Context, carID, userID uint64) (int, error) {
	var pos int
	err := r.DB.QueryRowContext(ctx,
		`SELECT position FROM seats WHERE car_id = ? AND user_id = ? LIMIT 1`,
		carID, userID).Scan(&pos)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSeatNotFound
		}
		return 0, err
	}
	return pos, nil
}

// Upsert assigns position to userID in carID, moving the user when they
// already hold a different seat.  ErrConflict is returned when the position
// is occupied by someone else; the (car_id, position) unique index is the
// final arbiter under concurrent chooses.
func (r *SeatRepo) Upsert(ctx context.Context, carID, userID uint64, position int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE seats SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE car_id = ? AND user_id = ?`,
		position, carID, userID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO seats (car_id, user_id, position) VALUES (?, ?, ?)`,
		carID, userID, position)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// DeleteByUser vacates whatever seat userID holds in carID.
// ErrSeatNotFound is returned when there is nothing to vacate.
func (r *SeatRepo) DeleteByUser(ctx context.Context, carID, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM seats WHERE car_id = ? AND user_id = ?`, carID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}
