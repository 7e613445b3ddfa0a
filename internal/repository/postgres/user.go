package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, phone, unique_otp, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.q.ExecContext(ctx, query, user.ID, user.Name, user.Phone, user.UniqueOTP, user.CreatedAt)
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, name, phone, unique_otp, created_at FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByPhone retrieves a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT id, name, phone, unique_otp, created_at FROM users WHERE phone = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, phone))
}

// UpdateOTP replaces the user's standing completion OTP.
func (r *UserRepository) UpdateOTP(ctx context.Context, id, otp string) error {
	query := `UPDATE users SET unique_otp = $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, otp)
	if err != nil {
		return err
	}

	return checkFound(result)
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Phone, &user.UniqueOTP, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
