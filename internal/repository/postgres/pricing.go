package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

// PricingRepository is a PostgreSQL implementation of repository.PricingRepository.
type PricingRepository struct {
	db *sql.DB
}

// NewPricingRepository creates a new PostgreSQL pricing repository.
func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// GetVehicleType retrieves a vehicle type by ID.
func (r *PricingRepository) GetVehicleType(ctx context.Context, id string) (*domain.VehicleType, error) {
	query := `SELECT id, category, name, price_per_km, base_fare, is_active FROM vehicle_types WHERE id = $1`

	var vt domain.VehicleType
	var baseFare sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&vt.ID, &vt.Category, &vt.Name, &vt.PricePerKm, &baseFare, &vt.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	vt.BaseFare = baseFare.Float64

	return &vt, nil
}

// GetActiveConfig retrieves the single active pricing config.
func (r *PricingRepository) GetActiveConfig(ctx context.Context) (*domain.PricingConfig, error) {
	query := `
		SELECT id, base_fare, rider_percentage, app_commission, is_active, created_at
		FROM pricing_configs WHERE is_active = TRUE
		ORDER BY created_at DESC LIMIT 1
	`

	var cfg domain.PricingConfig
	err := r.db.QueryRowContext(ctx, query).Scan(
		&cfg.ID, &cfg.BaseFare, &cfg.RiderPercentage, &cfg.AppCommission, &cfg.IsActive, &cfg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &cfg, nil
}

// ReplaceActiveConfig deactivates the current active config and inserts
// cfg as the new active row. Append-only: rows are never overwritten.
func (r *PricingRepository) ReplaceActiveConfig(ctx context.Context, cfg *domain.PricingConfig) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `UPDATE pricing_configs SET is_active = FALSE WHERE is_active = TRUE`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pricing_configs (id, base_fare, rider_percentage, app_commission, is_active, created_at)
		VALUES ($1, $2, $3, $4, TRUE, $5)
	`, cfg.ID, cfg.BaseFare, cfg.RiderPercentage, cfg.AppCommission, cfg.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetCityPricing retrieves the override for a (city, vehicle type) pair.
// Absence of an override is not an error.
func (r *PricingRepository) GetCityPricing(ctx context.Context, cityID, vehicleTypeID string) (*domain.CityPricing, error) {
	query := `
		SELECT id, city_id, vehicle_type_id, base_km, base_fare, per_km_after_base
		FROM city_pricings WHERE city_id = $1 AND vehicle_type_id = $2
	`

	var cp domain.CityPricing
	err := r.db.QueryRowContext(ctx, query, cityID, vehicleTypeID).Scan(
		&cp.ID, &cp.CityID, &cp.VehicleTypeID, &cp.BaseKm, &cp.BaseFare, &cp.PerKmAfterBase,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &cp, nil
}

// UpsertCityPricing creates or replaces a city override.
func (r *PricingRepository) UpsertCityPricing(ctx context.Context, cp *domain.CityPricing) error {
	query := `
		INSERT INTO city_pricings (id, city_id, vehicle_type_id, base_km, base_fare, per_km_after_base)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (city_id, vehicle_type_id)
		DO UPDATE SET base_km = EXCLUDED.base_km, base_fare = EXCLUDED.base_fare, per_km_after_base = EXCLUDED.per_km_after_base
	`

	_, err := r.db.ExecContext(ctx, query,
		cp.ID, cp.CityID, cp.VehicleTypeID, cp.BaseKm, cp.BaseFare, cp.PerKmAfterBase,
	)
	return err
}
