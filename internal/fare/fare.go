// Package fare implements the pure fare calculation applied once at ride
// creation. The computed breakdown is frozen onto the ride record.
package fare

import "errors"

// DefaultBaseFare applies when the global pricing config has no base fare.
const DefaultBaseFare = 20.0

var (
	// ErrNoPricing is returned when neither a city override nor a global
	// pricing config is available.
	ErrNoPricing = errors.New("no pricing configuration available")

	// ErrInvalidDistance is returned for a negative distance.
	ErrInvalidDistance = errors.New("distance must not be negative")
)

// VehicleRate is the per-km rate input, taken from the vehicle type.
type VehicleRate struct {
	PricePerKm float64
}

// GlobalConfig is the active global fare split.
// Invariant (enforced at config-update time): RiderPercentage + AppCommission == 100.
type GlobalConfig struct {
	BaseFare        float64
	RiderPercentage float64
	AppCommission   float64
}

// CityOverride supersedes the global config for one (city, vehicle type)
// pair. Only kilometers beyond BaseKm are billed.
type CityOverride struct {
	BaseKm         float64
	BaseFare       float64
	PerKmAfterBase float64
}

// Breakdown is the monetary result frozen onto the ride.
type Breakdown struct {
	BaseFare      float64
	PerKmPrice    float64
	TotalFare     float64
	RiderEarnings float64
	Commission    float64
}

// Compute derives the fare for a ride. When city is non-nil it supersedes
// the global config for the total; the rider/commission split always comes
// from the global config.
func Compute(rate VehicleRate, cfg *GlobalConfig, city *CityOverride, distanceKm float64) (Breakdown, error) {
	if distanceKm < 0 {
		return Breakdown{}, ErrInvalidDistance
	}
	if cfg == nil {
		return Breakdown{}, ErrNoPricing
	}

	var b Breakdown
	if city != nil {
		billableKm := distanceKm - city.BaseKm
		if billableKm < 0 {
			billableKm = 0
		}
		b.BaseFare = city.BaseFare
		b.PerKmPrice = city.PerKmAfterBase
		b.TotalFare = city.BaseFare + billableKm*city.PerKmAfterBase
	} else {
		base := cfg.BaseFare
		if base == 0 {
			base = DefaultBaseFare
		}
		b.BaseFare = base
		b.PerKmPrice = rate.PricePerKm
		b.TotalFare = base + rate.PricePerKm*distanceKm
	}

	b.RiderEarnings = b.TotalFare * cfg.RiderPercentage / 100
	b.Commission = b.TotalFare * cfg.AppCommission / 100

	return b, nil
}
