package tests

import (
	"context"
	"errors"
	"testing"

	"ridemarket/internal/domain"
	"ridemarket/internal/redis"
	"ridemarket/internal/service"
)

// ──────────────────────────────────────────────
// PRICING ADMINISTRATION
// ──────────────────────────────────────────────

func TestUpdateConfig_SplitMustSumTo100(t *testing.T) {
	t.Parallel()

	pricingRepo := NewMockPricingRepository()
	pricingService := service.NewPricingService(pricingRepo, NewMockConfigCache())
	ctx := context.Background()

	tests := []struct {
		name  string
		rider float64
		comm  float64
	}{
		{"sum below 100", 70, 20},
		{"sum above 100", 80, 30},
		{"negative rider share", -10, 110},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := pricingService.UpdateConfig(ctx, service.UpdateConfigRequest{
				BaseFare:        20,
				RiderPercentage: tc.rider,
				AppCommission:   tc.comm,
			})
			if !errors.Is(err, service.ErrInvalidSplit) {
				t.Errorf("expected ErrInvalidSplit, got %v", err)
			}
		})
	}

	if pricingRepo.ConfigHistoryLen() != 0 {
		t.Errorf("expected no config rows after rejected updates, got %d", pricingRepo.ConfigHistoryLen())
	}
}

func TestUpdateConfig_AppendsAndInvalidatesCache(t *testing.T) {
	t.Parallel()

	pricingRepo := NewMockPricingRepository()
	configCache := NewMockConfigCache()
	pricingService := service.NewPricingService(pricingRepo, configCache)
	ctx := context.Background()

	pricingRepo.SetActiveConfig(&domain.PricingConfig{
		ID: "cfg-old", BaseFare: 20, RiderPercentage: 80, AppCommission: 20,
	})
	if err := configCache.SetActiveConfig(ctx, &redis.CachedPricingConfig{ID: "cfg-old"}); err != nil {
		t.Fatalf("unexpected error seeding cache: %v", err)
	}

	updated, err := pricingService.UpdateConfig(ctx, service.UpdateConfigRequest{
		BaseFare:        25,
		RiderPercentage: 75,
		AppCommission:   25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Old rows stay; a new active row is appended.
	if pricingRepo.ConfigHistoryLen() != 2 {
		t.Errorf("expected 2 config rows in history, got %d", pricingRepo.ConfigHistoryLen())
	}
	active, err := pricingRepo.GetActiveConfig(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active.ID != updated.ID {
		t.Errorf("expected new config active, got %s", active.ID)
	}
	if configCache.InvalidateCallCount != 1 {
		t.Errorf("expected cache invalidation, got %d calls", configCache.InvalidateCallCount)
	}
	if cached, _ := configCache.GetActiveConfig(ctx); cached != nil {
		t.Error("expected cache emptied after update")
	}
}

// ──────────────────────────────────────────────
// FARE QUOTES
// ──────────────────────────────────────────────

func newFareFixture() (*MockPricingRepository, *MockConfigCache, *service.FareService) {
	pricingRepo := NewMockPricingRepository()
	configCache := NewMockConfigCache()

	pricingRepo.AddVehicleType(&domain.VehicleType{
		ID: "vt-sedan", Name: "Sedan", PricePerKm: 12, IsActive: true,
	})
	pricingRepo.SetActiveConfig(&domain.PricingConfig{
		ID: "cfg-1", BaseFare: 20, RiderPercentage: 80, AppCommission: 20,
	})

	return pricingRepo, configCache, service.NewFareService(pricingRepo, configCache)
}

func TestQuote_CityOverrideSupersedesGlobalTotal(t *testing.T) {
	t.Parallel()

	pricingRepo, _, fareService := newFareFixture()
	ctx := context.Background()

	// 4 km free, then 15/km. The 80/20 split still comes from the global
	// config.
	if err := pricingRepo.UpsertCityPricing(ctx, &domain.CityPricing{
		ID:             "cp-1",
		CityID:         "city-blr",
		VehicleTypeID:  "vt-sedan",
		BaseKm:         4,
		BaseFare:       50,
		PerKmAfterBase: 15,
	}); err != nil {
		t.Fatalf("unexpected error seeding city pricing: %v", err)
	}

	breakdown, err := fareService.Quote(ctx, "vt-sedan", "city-blr", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50 + 6 km * 15 = 140.
	if breakdown.TotalFare != 140 {
		t.Errorf("expected total 140, got %v", breakdown.TotalFare)
	}
	if breakdown.RiderEarnings != 112 {
		t.Errorf("expected rider earnings 112, got %v", breakdown.RiderEarnings)
	}
	if breakdown.Commission != 28 {
		t.Errorf("expected commission 28, got %v", breakdown.Commission)
	}
}

func TestQuote_WithinCityBaseKmChargesBaseOnly(t *testing.T) {
	t.Parallel()

	pricingRepo, _, fareService := newFareFixture()
	ctx := context.Background()

	if err := pricingRepo.UpsertCityPricing(ctx, &domain.CityPricing{
		ID:             "cp-1",
		CityID:         "city-blr",
		VehicleTypeID:  "vt-sedan",
		BaseKm:         4,
		BaseFare:       50,
		PerKmAfterBase: 15,
	}); err != nil {
		t.Fatalf("unexpected error seeding city pricing: %v", err)
	}

	breakdown, err := fareService.Quote(ctx, "vt-sedan", "city-blr", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.TotalFare != 50 {
		t.Errorf("expected base-only total 50, got %v", breakdown.TotalFare)
	}
}

func TestQuote_UnknownCityFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	_, _, fareService := newFareFixture()

	breakdown, err := fareService.Quote(context.Background(), "vt-sedan", "city-unknown", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.TotalFare != 140 {
		t.Errorf("expected global total 140, got %v", breakdown.TotalFare)
	}
}

func TestQuote_InactiveVehicleTypeRejected(t *testing.T) {
	t.Parallel()

	pricingRepo, _, fareService := newFareFixture()
	pricingRepo.AddVehicleType(&domain.VehicleType{
		ID: "vt-retired", Name: "Retired", PricePerKm: 9, IsActive: false,
	})

	_, err := fareService.Quote(context.Background(), "vt-retired", "", 5)
	if !errors.Is(err, service.ErrVehicleTypeUnavailable) {
		t.Errorf("expected ErrVehicleTypeUnavailable, got %v", err)
	}
}

func TestQuote_ServesFromCacheWhenWarm(t *testing.T) {
	t.Parallel()

	// The repo has no active config; only the cache does. A warm cache
	// must be sufficient to serve quotes.
	pricingRepo := NewMockPricingRepository()
	configCache := NewMockConfigCache()
	pricingRepo.AddVehicleType(&domain.VehicleType{
		ID: "vt-sedan", Name: "Sedan", PricePerKm: 12, IsActive: true,
	})
	ctx := context.Background()
	if err := configCache.SetActiveConfig(ctx, &redis.CachedPricingConfig{
		ID: "cfg-1", BaseFare: 20, RiderPercentage: 80, AppCommission: 20,
	}); err != nil {
		t.Fatalf("unexpected error seeding cache: %v", err)
	}

	fareService := service.NewFareService(pricingRepo, configCache)
	breakdown, err := fareService.Quote(ctx, "vt-sedan", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.TotalFare != 140 {
		t.Errorf("expected total 140 from cached config, got %v", breakdown.TotalFare)
	}
}

func TestQuote_PopulatesCacheOnMiss(t *testing.T) {
	t.Parallel()

	_, configCache, fareService := newFareFixture()

	if _, err := fareService.Quote(context.Background(), "vt-sedan", "", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if configCache.SetCallCount != 1 {
		t.Errorf("expected cache populated after miss, got %d sets", configCache.SetCallCount)
	}
}
