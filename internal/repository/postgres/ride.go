package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

const rideColumns = `id, custom_id, user_id, partner_id, vehicle_type_id, vehicle_id, vendor_id,
	agent_id, agent_code, corporate_id,
	pickup_lat, pickup_lng, pickup_address, drop_lat, drop_lng, drop_address, distance_km,
	base_fare, per_km_price, total_fare, rider_earnings, commission,
	status, accepted_at, arrived_at, start_time, end_time, scheduled_at, cancelled_at, cancel_reason,
	user_otp, is_manual_booking, ride_type, payment_mode, booking_notes, created_at`

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.CustomID,
		ride.UserID,
		nullStr(ride.PartnerID),
		ride.VehicleTypeID,
		nullStr(ride.VehicleID),
		nullStr(ride.VendorID),
		nullStr(ride.AgentID),
		nullStr(ride.AgentCode),
		nullStr(ride.CorporateID),
		ride.PickupLat,
		ride.PickupLng,
		ride.PickupAddress,
		ride.DropLat,
		ride.DropLng,
		ride.DropAddress,
		ride.DistanceKm,
		ride.BaseFare,
		ride.PerKmPrice,
		ride.TotalFare,
		ride.RiderEarnings,
		ride.Commission,
		ride.Status,
		nullTime(ride.AcceptedAt),
		nullTime(ride.ArrivedAt),
		nullTime(ride.StartTime),
		nullTime(ride.EndTime),
		nullTime(ride.ScheduledAt),
		nullTime(ride.CancelledAt),
		nullStr(ride.CancelReason),
		nullStr(ride.UserOTP),
		ride.IsManualBooking,
		ride.RideType,
		ride.PaymentMode,
		nullStr(ride.BookingNotes),
		ride.CreatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return ride, nil
}

// List retrieves rides matching the filter, newest first.
func (r *RideRepository) List(ctx context.Context, filter repository.RideFilter) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.PartnerID != "" {
		args = append(args, filter.PartnerID)
		query += fmt.Sprintf(" AND partner_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRides(rows)
}

// ListUnassigned retrieves rides awaiting assignment, oldest first so
// long-waiting requests surface before fresh ones.
func (r *RideRepository) ListUnassigned(ctx context.Context, vehicleTypeID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides
		WHERE partner_id IS NULL AND status = $1`
	args := []any{domain.RideStatusPendingAssignment}

	if vehicleTypeID != "" {
		args = append(args, vehicleTypeID)
		query += fmt.Sprintf(" AND vehicle_type_id = $%d", len(args))
	}
	query += " ORDER BY created_at ASC LIMIT 200"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRides(rows)
}

// AssignPartner binds a partner to an unassigned ride with a single
// conditional update, so at most one concurrent acceptance succeeds.
func (r *RideRepository) AssignPartner(ctx context.Context, rideID, partnerID, vehicleID, vendorID string, at time.Time) error {
	query := `
		UPDATE rides
		SET partner_id = $2, vehicle_id = $3, vendor_id = $4, status = $5, accepted_at = $6
		WHERE id = $1 AND partner_id IS NULL AND status IN ($7, $8)
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, partnerID, nullStr(vehicleID), nullStr(vendorID),
		domain.RideStatusAssigned, at,
		domain.RideStatusPendingAssignment, domain.RideStatusScheduled,
	)
	if err != nil {
		return err
	}

	return checkTransition(result)
}

// MarkArrived transitions ASSIGNED -> ARRIVED for the bound partner.
func (r *RideRepository) MarkArrived(ctx context.Context, rideID, partnerID string, at time.Time) error {
	query := `
		UPDATE rides SET status = $3, arrived_at = $4
		WHERE id = $1 AND partner_id = $2 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, partnerID, domain.RideStatusArrived, at, domain.RideStatusAssigned,
	)
	if err != nil {
		return err
	}

	return checkTransition(result)
}

// Start transitions ARRIVED -> STARTED for the bound partner.
func (r *RideRepository) Start(ctx context.Context, rideID, partnerID string, at time.Time) error {
	query := `
		UPDATE rides SET status = $3, start_time = $4
		WHERE id = $1 AND partner_id = $2 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, partnerID, domain.RideStatusStarted, at, domain.RideStatusArrived,
	)
	if err != nil {
		return err
	}

	return checkTransition(result)
}

// Cancel transitions any non-terminal status to CANCELLED.
func (r *RideRepository) Cancel(ctx context.Context, rideID, reason string, at time.Time) error {
	query := `
		UPDATE rides SET status = $2, cancelled_at = $3, cancel_reason = $4
		WHERE id = $1 AND status NOT IN ($5, $6)
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, domain.RideStatusCancelled, at, nullStr(reason),
		domain.RideStatusCompleted, domain.RideStatusCancelled,
	)
	if err != nil {
		return err
	}

	return checkTransition(result)
}

// checkTransition converts a zero-row conditional update into ErrNoTransition.
func checkTransition(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNoTransition
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var partnerID, vehicleID, vendorID, agentID, agentCode, corporateID sql.NullString
	var cancelReason, userOTP, bookingNotes sql.NullString
	var acceptedAt, arrivedAt, startTime, endTime, scheduledAt, cancelledAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.CustomID,
		&ride.UserID,
		&partnerID,
		&ride.VehicleTypeID,
		&vehicleID,
		&vendorID,
		&agentID,
		&agentCode,
		&corporateID,
		&ride.PickupLat,
		&ride.PickupLng,
		&ride.PickupAddress,
		&ride.DropLat,
		&ride.DropLng,
		&ride.DropAddress,
		&ride.DistanceKm,
		&ride.BaseFare,
		&ride.PerKmPrice,
		&ride.TotalFare,
		&ride.RiderEarnings,
		&ride.Commission,
		&ride.Status,
		&acceptedAt,
		&arrivedAt,
		&startTime,
		&endTime,
		&scheduledAt,
		&cancelledAt,
		&cancelReason,
		&userOTP,
		&ride.IsManualBooking,
		&ride.RideType,
		&ride.PaymentMode,
		&bookingNotes,
		&ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ride.PartnerID = partnerID.String
	ride.VehicleID = vehicleID.String
	ride.VendorID = vendorID.String
	ride.AgentID = agentID.String
	ride.AgentCode = agentCode.String
	ride.CorporateID = corporateID.String
	ride.CancelReason = cancelReason.String
	ride.UserOTP = userOTP.String
	ride.BookingNotes = bookingNotes.String
	ride.AcceptedAt = acceptedAt.Time
	ride.ArrivedAt = arrivedAt.Time
	ride.StartTime = startTime.Time
	ride.EndTime = endTime.Time
	ride.ScheduledAt = scheduledAt.Time
	ride.CancelledAt = cancelledAt.Time

	return &ride, nil
}

func collectRides(rows *sql.Rows) ([]*domain.Ride, error) {
	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
