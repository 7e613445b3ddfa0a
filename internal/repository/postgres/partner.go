package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

// PartnerRepository is a PostgreSQL implementation of repository.PartnerRepository.
type PartnerRepository struct {
	q Querier
}

// NewPartnerRepository creates a new PostgreSQL partner repository.
func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{q: db}
}

// NewPartnerRepositoryWithTx creates a partner repository using a transaction.
func NewPartnerRepositoryWithTx(tx *sql.Tx) *PartnerRepository {
	return &PartnerRepository{q: tx}
}

// Create persists a new partner.
func (r *PartnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	query := `
		INSERT INTO partners (id, name, phone, vendor_id, vehicle_id, is_online, current_lat, current_lng, total_earnings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		partner.ID,
		partner.Name,
		partner.Phone,
		nullStr(partner.VendorID),
		nullStr(partner.VehicleID),
		partner.IsOnline,
		partner.CurrentLat,
		partner.CurrentLng,
		partner.TotalEarnings,
		partner.CreatedAt,
	)

	return err
}

// GetByID retrieves a partner by ID.
func (r *PartnerRepository) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	query := `
		SELECT id, name, phone, vendor_id, vehicle_id, is_online, current_lat, current_lng, total_earnings, created_at
		FROM partners WHERE id = $1
	`

	partner, err := scanPartner(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return partner, nil
}

// GetAll retrieves all partners.
func (r *PartnerRepository) GetAll(ctx context.Context) ([]*domain.Partner, error) {
	query := `
		SELECT id, name, phone, vendor_id, vehicle_id, is_online, current_lat, current_lng, total_earnings, created_at
		FROM partners ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []*domain.Partner
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	return partners, rows.Err()
}

// UpdateLocation overwrites the partner's live position and marks them
// online. High-frequency, last writer wins.
func (r *PartnerRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	query := `UPDATE partners SET current_lat = $2, current_lng = $3, is_online = TRUE WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, lat, lng)
	if err != nil {
		return err
	}

	return checkFound(result)
}

// SetOnline flips the partner's availability flag.
func (r *PartnerRepository) SetOnline(ctx context.Context, id string, online bool) error {
	query := `UPDATE partners SET is_online = $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, online)
	if err != nil {
		return err
	}

	return checkFound(result)
}

// IncrementEarnings adds amount to the partner's cumulative earnings.
func (r *PartnerRepository) IncrementEarnings(ctx context.Context, id string, amount float64) error {
	query := `UPDATE partners SET total_earnings = total_earnings + $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, amount)
	if err != nil {
		return err
	}

	return checkFound(result)
}

func checkFound(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanPartner(row rowScanner) (*domain.Partner, error) {
	var partner domain.Partner
	var vendorID, vehicleID sql.NullString

	err := row.Scan(
		&partner.ID,
		&partner.Name,
		&partner.Phone,
		&vendorID,
		&vehicleID,
		&partner.IsOnline,
		&partner.CurrentLat,
		&partner.CurrentLng,
		&partner.TotalEarnings,
		&partner.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	partner.VendorID = vendorID.String
	partner.VehicleID = vehicleID.String

	return &partner, nil
}

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT id, vendor_id, vehicle_type_id, registration_no, is_active FROM vehicles WHERE id = $1`

	var v domain.Vehicle
	var vendorID sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &vendorID, &v.VehicleTypeID, &v.RegistrationNo, &v.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	v.VendorID = vendorID.String

	return &v, nil
}
