package service

import (
	"context"
	"errors"

	"ridemarket/internal/fare"
	"ridemarket/internal/redis"
	"ridemarket/internal/repository"
)

// FareService resolves pricing inputs and applies the fare calculation.
// It is invoked exactly once per ride, at creation; the breakdown is
// frozen onto the ride record.
type FareService struct {
	pricingRepo repository.PricingRepository
	configCache redis.ConfigCacheInterface
}

// NewFareService creates a new FareService.
func NewFareService(pricingRepo repository.PricingRepository, configCache redis.ConfigCacheInterface) *FareService {
	return &FareService{
		pricingRepo: pricingRepo,
		configCache: configCache,
	}
}

// Quote computes the fare breakdown for a prospective ride. A city
// override for (cityID, vehicleTypeID) supersedes the global config for
// the total; the rider/commission split always comes from the active
// global config.
func (s *FareService) Quote(ctx context.Context, vehicleTypeID, cityID string, distanceKm float64) (fare.Breakdown, error) {
	if vehicleTypeID == "" {
		return fare.Breakdown{}, ErrInvalidVehicleTypeID
	}
	if distanceKm < 0 {
		return fare.Breakdown{}, ErrInvalidDistance
	}

	vt, err := s.pricingRepo.GetVehicleType(ctx, vehicleTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fare.Breakdown{}, ErrVehicleTypeUnavailable
		}
		return fare.Breakdown{}, err
	}
	if !vt.IsActive {
		return fare.Breakdown{}, ErrVehicleTypeUnavailable
	}

	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return fare.Breakdown{}, err
	}

	var city *fare.CityOverride
	if cityID != "" {
		cp, err := s.pricingRepo.GetCityPricing(ctx, cityID, vehicleTypeID)
		if err != nil {
			return fare.Breakdown{}, err
		}
		if cp != nil {
			city = &fare.CityOverride{
				BaseKm:         cp.BaseKm,
				BaseFare:       cp.BaseFare,
				PerKmAfterBase: cp.PerKmAfterBase,
			}
		}
	}

	return fare.Compute(fare.VehicleRate{PricePerKm: vt.PricePerKm}, cfg, city, distanceKm)
}

// activeConfig reads the global split, cache first.
func (s *FareService) activeConfig(ctx context.Context) (*fare.GlobalConfig, error) {
	if s.configCache != nil {
		cached, err := s.configCache.GetActiveConfig(ctx)
		if err == nil && cached != nil {
			return &fare.GlobalConfig{
				BaseFare:        cached.BaseFare,
				RiderPercentage: cached.RiderPercentage,
				AppCommission:   cached.AppCommission,
			}, nil
		}
		// Cache miss or cache error: fall through to the database.
	}

	cfg, err := s.pricingRepo.GetActiveConfig(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActivePricing
		}
		return nil, err
	}

	if s.configCache != nil {
		_ = s.configCache.SetActiveConfig(ctx, &redis.CachedPricingConfig{
			ID:              cfg.ID,
			BaseFare:        cfg.BaseFare,
			RiderPercentage: cfg.RiderPercentage,
			AppCommission:   cfg.AppCommission,
		})
	}

	return &fare.GlobalConfig{
		BaseFare:        cfg.BaseFare,
		RiderPercentage: cfg.RiderPercentage,
		AppCommission:   cfg.AppCommission,
	}, nil
}
