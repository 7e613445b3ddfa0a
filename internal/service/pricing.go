package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"ridemarket/internal/domain"
	"ridemarket/internal/redis"
	"ridemarket/internal/repository"
)

// PricingService handles administration of the global fare split and
// per-city overrides.
type PricingService struct {
	pricingRepo repository.PricingRepository
	configCache redis.ConfigCacheInterface
}

// NewPricingService creates a new PricingService.
func NewPricingService(pricingRepo repository.PricingRepository, configCache redis.ConfigCacheInterface) *PricingService {
	return &PricingService{
		pricingRepo: pricingRepo,
		configCache: configCache,
	}
}

// ActiveConfig retrieves the current active global split.
func (s *PricingService) ActiveConfig(ctx context.Context) (*domain.PricingConfig, error) {
	cfg, err := s.pricingRepo.GetActiveConfig(ctx)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNoActivePricing
		}
		return nil, err
	}
	return cfg, nil
}

// UpdateConfigRequest contains the parameters for replacing the split.
type UpdateConfigRequest struct {
	BaseFare        float64
	RiderPercentage float64
	AppCommission   float64
}

// UpdateConfig appends a new active config row and deactivates the
// previous one. Splits that do not sum to 100 are rejected.
func (s *PricingService) UpdateConfig(ctx context.Context, req UpdateConfigRequest) (*domain.PricingConfig, error) {
	if math.Abs(req.RiderPercentage+req.AppCommission-100) > 1e-9 {
		return nil, ErrInvalidSplit
	}
	if req.RiderPercentage < 0 || req.AppCommission < 0 || req.BaseFare < 0 {
		return nil, ErrInvalidSplit
	}

	cfg := &domain.PricingConfig{
		ID:              uuid.New().String(),
		BaseFare:        req.BaseFare,
		RiderPercentage: req.RiderPercentage,
		AppCommission:   req.AppCommission,
		IsActive:        true,
		CreatedAt:       time.Now(),
	}

	if err := s.pricingRepo.ReplaceActiveConfig(ctx, cfg); err != nil {
		return nil, err
	}

	if s.configCache != nil {
		_ = s.configCache.InvalidateActiveConfig(ctx)
	}

	return cfg, nil
}

// UpsertCityPricingRequest contains the parameters for a city override.
type UpsertCityPricingRequest struct {
	CityID         string
	VehicleTypeID  string
	BaseKm         float64
	BaseFare       float64
	PerKmAfterBase float64
}

// UpsertCityPricing creates or replaces the override for one
// (city, vehicle type) pair.
func (s *PricingService) UpsertCityPricing(ctx context.Context, req UpsertCityPricingRequest) (*domain.CityPricing, error) {
	if req.CityID == "" || req.VehicleTypeID == "" {
		return nil, ErrInvalidVehicleTypeID
	}
	if req.BaseKm < 0 || req.BaseFare < 0 || req.PerKmAfterBase < 0 {
		return nil, ErrInvalidDistance
	}

	cp := &domain.CityPricing{
		ID:             uuid.New().String(),
		CityID:         req.CityID,
		VehicleTypeID:  req.VehicleTypeID,
		BaseKm:         req.BaseKm,
		BaseFare:       req.BaseFare,
		PerKmAfterBase: req.PerKmAfterBase,
	}

	if err := s.pricingRepo.UpsertCityPricing(ctx, cp); err != nil {
		return nil, err
	}

	return cp, nil
}
