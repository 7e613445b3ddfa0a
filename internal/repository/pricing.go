package repository

import (
	"context"

	"ridemarket/internal/domain"
)

// PricingRepository defines the persistence operations for vehicle types,
// the global pricing config, and per-city overrides.
type PricingRepository interface {
	// GetVehicleType retrieves a vehicle type by ID.
	GetVehicleType(ctx context.Context, id string) (*domain.VehicleType, error)

	// GetActiveConfig retrieves the single active pricing config.
	// Returns ErrNotFound when none is active.
	GetActiveConfig(ctx context.Context) (*domain.PricingConfig, error)

	// ReplaceActiveConfig deactivates the current active config and
	// inserts cfg as the new active row, in one transaction. Rows are
	// never overwritten in place.
	ReplaceActiveConfig(ctx context.Context, cfg *domain.PricingConfig) error

	// GetCityPricing retrieves the override for a (city, vehicle type)
	// pair. Returns (nil, nil) when no override exists.
	GetCityPricing(ctx context.Context, cityID, vehicleTypeID string) (*domain.CityPricing, error)

	// UpsertCityPricing creates or replaces a city override.
	UpsertCityPricing(ctx context.Context, cp *domain.CityPricing) error
}
