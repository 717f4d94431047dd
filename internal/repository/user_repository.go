package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sitzy/sitzy/internal/model"
	"github.com/sitzy/sitzy/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user with a bcrypt-hashed password and returns its ID.
// The email is normalized to lowercase before insert so logins and
// invitation matching are case-insensitive.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?,?)",
		email, hash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
