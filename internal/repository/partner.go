package repository

import (
	"context"

	"ridemarket/internal/domain"
)

// PartnerRepository defines the persistence operations for partners.
type PartnerRepository interface {
	// Create persists a new partner.
	Create(ctx context.Context, partner *domain.Partner) error

	// GetByID retrieves a partner by ID.
	GetByID(ctx context.Context, id string) (*domain.Partner, error)

	// GetAll retrieves all partners.
	GetAll(ctx context.Context) ([]*domain.Partner, error)

	// UpdateLocation overwrites the partner's live position and marks
	// them online. Last writer wins.
	UpdateLocation(ctx context.Context, id string, lat, lng float64) error

	// SetOnline flips the partner's availability flag.
	SetOnline(ctx context.Context, id string, online bool) error

	// IncrementEarnings adds amount to the partner's total earnings.
	// Settlement is the only caller.
	IncrementEarnings(ctx context.Context, id string, amount float64) error
}

// VehicleRepository resolves a partner's assigned vehicle so its vendor
// can be propagated onto a ride at assignment.
type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
}
