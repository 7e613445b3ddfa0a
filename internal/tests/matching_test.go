package tests

import (
	"context"
	"errors"
	"testing"

	"ridemarket/internal/domain"
	"ridemarket/internal/service"
)

// ──────────────────────────────────────────────
// DISCOVERY FIXTURE
// ──────────────────────────────────────────────

type matchingFixture struct {
	rideRepo      *MockRideRepository
	partnerRepo   *MockPartnerRepository
	locationStore *MockLocationStore

	matchingService *service.MatchingService
}

func newMatchingFixture() *matchingFixture {
	f := &matchingFixture{
		rideRepo:      NewMockRideRepository(),
		partnerRepo:   NewMockPartnerRepository(),
		locationStore: NewMockLocationStore(),
	}
	f.matchingService = service.NewMatchingService(f.rideRepo, f.partnerRepo, f.locationStore)

	f.partnerRepo.AddPartner(&domain.Partner{
		ID:       "partner-1",
		IsOnline: true,
	})

	return f
}

func (f *matchingFixture) addPendingRide(id string, lat, lng float64, vehicleTypeID string) {
	f.rideRepo.AddRide(&domain.Ride{
		ID:            id,
		UserID:        "user-1",
		VehicleTypeID: vehicleTypeID,
		PickupLat:     lat,
		PickupLng:     lng,
		Status:        domain.RideStatusPendingAssignment,
	})
}

// ──────────────────────────────────────────────
// DISCOVERY
// ──────────────────────────────────────────────

func TestDiscover_RadiusCutoff(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture()

	// Partner at (12.90, 77.60). The first pickup is ~5.7 km away, the
	// second ~15 km north.
	f.addPendingRide("ride-near", 12.95, 77.61, "vt-sedan")
	f.addPendingRide("ride-far", 13.035, 77.60, "vt-sedan")

	candidates, err := f.matchingService.Discover(context.Background(), service.DiscoverRequest{
		PartnerID:   "partner-1",
		Lat:         12.90,
		Lng:         77.60,
		HasPosition: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate within 10 km, got %d", len(candidates))
	}
	if candidates[0].Ride.ID != "ride-near" {
		t.Errorf("expected ride-near, got %s", candidates[0].Ride.ID)
	}
	if candidates[0].DistanceKm < 5.5 || candidates[0].DistanceKm > 5.9 {
		t.Errorf("expected distance ~5.7 km, got %v", candidates[0].DistanceKm)
	}
}

func TestDiscover_SortedByDistanceAscending(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture()

	f.addPendingRide("ride-mid", 12.95, 77.61, "vt-sedan")   // ~5.7 km
	f.addPendingRide("ride-close", 12.909, 77.60, "vt-sedan") // ~1 km
	f.addPendingRide("ride-edge", 12.97, 77.64, "vt-sedan")   // ~9 km

	candidates, err := f.matchingService.Discover(context.Background(), service.DiscoverRequest{
		PartnerID:   "partner-1",
		Lat:         12.90,
		Lng:         77.60,
		HasPosition: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].DistanceKm < candidates[i-1].DistanceKm {
			t.Errorf("candidates not sorted ascending: %v then %v",
				candidates[i-1].DistanceKm, candidates[i].DistanceKm)
		}
	}
	if candidates[0].Ride.ID != "ride-close" {
		t.Errorf("expected nearest first, got %s", candidates[0].Ride.ID)
	}
}

func TestDiscover_FiltersVehicleType(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture()

	f.addPendingRide("ride-sedan", 12.91, 77.60, "vt-sedan")
	f.addPendingRide("ride-auto", 12.91, 77.61, "vt-auto")

	candidates, err := f.matchingService.Discover(context.Background(), service.DiscoverRequest{
		PartnerID:     "partner-1",
		Lat:           12.90,
		Lng:           77.60,
		HasPosition:   true,
		VehicleTypeID: "vt-sedan",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 1 || candidates[0].Ride.ID != "ride-sedan" {
		t.Errorf("expected only ride-sedan, got %v candidates", len(candidates))
	}
}

func TestDiscover_ExcludesAssignedAndTerminalRides(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture()

	f.addPendingRide("ride-open", 12.91, 77.60, "vt-sedan")
	f.rideRepo.AddRide(&domain.Ride{
		ID:        "ride-taken",
		PickupLat: 12.91,
		PickupLng: 77.60,
		PartnerID: "partner-9",
		Status:    domain.RideStatusAssigned,
	})
	f.rideRepo.AddRide(&domain.Ride{
		ID:        "ride-cancelled",
		PickupLat: 12.91,
		PickupLng: 77.60,
		Status:    domain.RideStatusCancelled,
	})

	candidates, err := f.matchingService.Discover(context.Background(), service.DiscoverRequest{
		PartnerID:   "partner-1",
		Lat:         12.90,
		Lng:         77.60,
		HasPosition: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 1 || candidates[0].Ride.ID != "ride-open" {
		t.Errorf("expected only the open ride, got %d candidates", len(candidates))
	}
}

func TestDiscover_OfflinePartnerRejected(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture()
	f.partnerRepo.AddPartner(&domain.Partner{ID: "partner-off", IsOnline: false})

	_, err := f.matchingService.Discover(context.Background(), service.DiscoverRequest{
		PartnerID:   "partner-off",
		Lat:         12.90,
		Lng:         77.60,
		HasPosition: true,
	})
	if !errors.Is(err, service.ErrPartnerOffline) {
		t.Errorf("expected ErrPartnerOffline, got %v", err)
	}
}

func TestDiscover_FallsBackToLastPing(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture()
	ctx := context.Background()

	// The partner's last ping sits in the geo index; no position is sent
	// with the discovery request.
	if err := f.locationStore.UpdateLocation(ctx, "partner-1", 12.90, 77.60); err != nil {
		t.Fatalf("unexpected error seeding location: %v", err)
	}
	f.addPendingRide("ride-near", 12.95, 77.61, "vt-sedan")

	candidates, err := f.matchingService.Discover(ctx, service.DiscoverRequest{
		PartnerID: "partner-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate from last-ping position, got %d", len(candidates))
	}
}
