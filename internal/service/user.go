package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

// UserService handles user registration and the standing completion OTP.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new user with a fresh standing OTP.
func (s *UserService) Register(ctx context.Context, name, phone string) (*domain.User, error) {
	if name == "" || phone == "" {
		return nil, ErrInvalidUserID
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		UniqueOTP: NewOTP(),
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, userID)
}

// RegenerateOTP replaces the user's standing OTP. Admin action only; the
// OTP is otherwise reused across all of the user's rides.
func (s *UserService) RegenerateOTP(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}

	otp := NewOTP()
	if err := s.userRepo.UpdateOTP(ctx, userID, otp); err != nil {
		return "", err
	}

	return otp, nil
}

// NewOTP returns a random 4-digit completion code.
func NewOTP() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}
