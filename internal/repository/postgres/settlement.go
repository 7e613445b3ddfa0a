package postgres

import (
	"context"
	"database/sql"
	"time"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

// SettlementRepository is a PostgreSQL implementation of
// repository.SettlementRepository. The completion write and the earnings
// credit run in one transaction: both commit or neither does.
type SettlementRepository struct {
	db *sql.DB
}

// NewSettlementRepository creates a new PostgreSQL settlement repository.
func NewSettlementRepository(db *sql.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// CompleteAndCredit transitions a STARTED ride to COMPLETED, freezes the
// presented OTP onto it, and credits the bound partner's total earnings
// with the ride's frozen rider earnings.
func (r *SettlementRepository) CompleteAndCredit(ctx context.Context, rideID, presentedOTP string, endedAt time.Time) (*domain.Ride, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		UPDATE rides SET status = $2, end_time = $3, user_otp = $4
		WHERE id = $1 AND status = $5
	`

	var result sql.Result
	result, err = tx.ExecContext(ctx, query,
		rideID, domain.RideStatusCompleted, endedAt, presentedOTP, domain.RideStatusStarted,
	)
	if err != nil {
		return nil, err
	}
	if err = checkTransition(result); err != nil {
		return nil, err
	}

	txRideRepo := NewRideRepositoryWithTx(tx)
	txPartnerRepo := NewPartnerRepositoryWithTx(tx)

	var ride *domain.Ride
	ride, err = txRideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if err = txPartnerRepo.IncrementEarnings(ctx, ride.PartnerID, ride.RiderEarnings); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return ride, nil
}

// Ensure interface is satisfied.
var _ repository.SettlementRepository = (*SettlementRepository)(nil)
