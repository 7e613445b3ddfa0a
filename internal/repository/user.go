package repository

import (
	"context"

	"ridemarket/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// UpdateOTP replaces the user's standing completion OTP.
	UpdateOTP(ctx context.Context, id, otp string) error
}
