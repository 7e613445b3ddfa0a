package repository

import (
	"context"
	"time"

	"ridemarket/internal/domain"
)

// SettlementRepository finalizes a ride atomically: the status transition
// and the partner earnings credit commit together or not at all.
type SettlementRepository interface {
	// CompleteAndCredit transitions a STARTED ride to COMPLETED, freezes
	// the presented OTP onto it, and credits the bound partner's total
	// earnings with the ride's frozen rider earnings in one transaction.
	// Returns ErrNoTransition if the ride is not currently STARTED.
	CompleteAndCredit(ctx context.Context, rideID, presentedOTP string, endedAt time.Time) (*domain.Ride, error)
}

// CustomIDGenerator produces human-readable, city-prefixed serial IDs.
type CustomIDGenerator interface {
	Next(ctx context.Context, cityCode, entityType string) (string, error)
}
