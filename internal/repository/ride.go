package repository

import (
	"context"
	"time"

	"ridemarket/internal/domain"
)

// RideFilter narrows ride listings. Zero values mean "no filter".
type RideFilter struct {
	UserID    string
	PartnerID string
	Status    domain.RideStatus
}

// RideRepository defines the persistence operations for rides.
//
// Every state transition is a conditional update against the stored
// status, so at most one concurrent writer can win a transition.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// List retrieves rides matching the filter, newest first.
	List(ctx context.Context, filter RideFilter) ([]*domain.Ride, error)

	// ListUnassigned retrieves rides awaiting assignment, optionally
	// restricted to one vehicle type.
	ListUnassigned(ctx context.Context, vehicleTypeID string) ([]*domain.Ride, error)

	// AssignPartner binds a partner (and their vehicle/vendor) to an
	// unassigned ride. Returns ErrNoTransition if the ride already has a
	// partner or is not in an assignable state.
	AssignPartner(ctx context.Context, rideID, partnerID, vehicleID, vendorID string, at time.Time) error

	// MarkArrived transitions ASSIGNED -> ARRIVED for the bound partner.
	MarkArrived(ctx context.Context, rideID, partnerID string, at time.Time) error

	// Start transitions ARRIVED -> STARTED for the bound partner.
	Start(ctx context.Context, rideID, partnerID string, at time.Time) error

	// Cancel transitions any non-terminal status to CANCELLED.
	Cancel(ctx context.Context, rideID, reason string, at time.Time) error
}
