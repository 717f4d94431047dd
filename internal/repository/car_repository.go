package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sitzy/sitzy/internal/model"
)

// CarRepo provides persistence for cars.  A user owns at most one car; the
// unique index on owner_id enforces it at the database level.
type CarRepo struct{ DB *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{DB: db} }

const carColumns = "id, owner_id, name, layout, departs_at, created_at, updated_at"

func scanCar(row *sql.Row) (*model.Car, error) {
	var car model.Car
	err := row.Scan(&car.ID, &car.OwnerID, &car.Name, &car.Layout,
		&car.DepartsAt, &car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return &car, nil
}

// Create inserts a car.  ErrConflict is returned when the owner already has
// one.  On success the car's ID is populated.
func (r *CarRepo) Create(ctx context.Context, car *model.Car) error {
	const q = `INSERT INTO cars (owner_id, name, layout, departs_at) VALUES (?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q, car.OwnerID, car.Name, car.Layout, car.DepartsAt)
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
	car.ID = uint64(id)
	return nil
}

// GetByOwner retrieves the car owned by ownerID.
func (r *CarRepo) GetByOwner(ctx context.Context, ownerID uint64) (*model.Car, error) {
	const q = `SELECT ` + carColumns + ` FROM cars WHERE owner_id = ?`
	return scanCar(r.DB.QueryRowContext(ctx, q, ownerID))
}

// GetByID retrieves a car by its id.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (*model.Car, error) {
	const q = `SELECT ` + carColumns + ` FROM cars WHERE id = ?`
	return scanCar(r.DB.QueryRowContext(ctx, q, id))
}

// UpdateByIDAndOwner updates name, layout and departure time.  ErrCarNotFound
// is returned when the car does not exist or belongs to someone else.
func (r *CarRepo) UpdateByIDAndOwner(ctx context.Context, id, ownerID uint64, name, layout string, departsAt time.Time) error {
	const q = `UPDATE cars SET name = ?, layout = ?, departs_at = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.DB.ExecContext(ctx, q, name, layout, departsAt, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCarNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a car together with its invitations, seats and
// passenger links in one transaction.
func (r *CarRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM cars WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCarNotFound
	}
	for _, q := range []string{
		`DELETE FROM invitations WHERE car_id = ?`,
		`DELETE FROM seats WHERE car_id = ?`,
		`DELETE FROM passengers WHERE car_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListForPassenger returns the cars in which userID sits as a passenger,
// ordered by departure time.
func (r *CarRepo) ListForPassenger(ctx context.Context, userID uint64) ([]model.Car, error) {
	const q = `SELECT c.id, c.owner_id, c.name, c.layout, c.departs_at, c.created_at, c.updated_at
	           FROM cars c
	           JOIN passengers p ON p.car_id = c.id
	           WHERE p.user_id = ?
	           ORDER BY c.departs_at`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Car
	for rows.Next() {
		var car model.Car
		if err := rows.Scan(&car.ID, &car.OwnerID, &car.Name, &car.Layout,
			&car.DepartsAt, &car.CreatedAt, &car.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, car)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
