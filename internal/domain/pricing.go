package domain

import "time"

// VehicleType is an admin-managed pricing category (e.g. hatchback, sedan).
type VehicleType struct {
	ID         string
	Category   string
	Name       string
	PricePerKm float64
	BaseFare   float64 // optional; 0 means unset
	IsActive   bool
}

// PricingConfig is the global fare split. At most one row is active at a
// time; updates append a new active row and deactivate the previous one.
// Invariant: RiderPercentage + AppCommission == 100.
type PricingConfig struct {
	ID              string
	BaseFare        float64
	RiderPercentage float64
	AppCommission   float64
	IsActive        bool
	CreatedAt       time.Time
}

// CityPricing overrides the global config for one (city, vehicle type)
// pair. Only kilometers beyond BaseKm are billed at PerKmAfterBase.
type CityPricing struct {
	ID             string
	CityID         string
	VehicleTypeID  string
	BaseKm         float64
	BaseFare       float64
	PerKmAfterBase float64
}
