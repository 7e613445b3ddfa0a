package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ridemarket/internal/domain"
	"ridemarket/internal/service"
)

// ──────────────────────────────────────────────
// CONCURRENT ACCEPTANCE
// ──────────────────────────────────────────────

func TestAcceptRide_ConcurrentAcceptsSingleWinner(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ctx := context.Background()

	const partners = 8
	for i := 0; i < partners; i++ {
		f.partnerRepo.AddPartner(&domain.Partner{
			ID:       fmt.Sprintf("racer-%d", i),
			IsOnline: true,
		})
	}

	ride := f.createRide(t)

	var wg sync.WaitGroup
	results := make([]error, partners)
	for i := 0; i < partners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.rideService.Accept(ctx, ride.ID, fmt.Sprintf("racer-%d", i))
			results[i] = err
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, service.ErrRideAlreadyAssigned):
			conflicts++
		default:
			t.Errorf("unexpected error from racing accept: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("expected exactly 1 winning accept, got %d", wins)
	}
	if conflicts != partners-1 {
		t.Errorf("expected %d conflict errors, got %d", partners-1, conflicts)
	}

	stored := f.rideRepo.GetRide(ride.ID)
	if stored.Status != domain.RideStatusAssigned {
		t.Errorf("expected ride ASSIGNED after race, got %s", stored.Status)
	}
	if stored.PartnerID == "" {
		t.Error("expected a partner bound after race")
	}
}

func TestAcceptRide_WorksWithoutLockStore(t *testing.T) {
	t.Parallel()

	// The advisory Redis lock is an optimization; the conditional update
	// alone must still guarantee single assignment.
	f := newLifecycleFixture()
	fareService := service.NewFareService(f.pricingRepo, f.configCache)
	rideService := service.NewRideService(
		f.rideRepo, f.partnerRepo, f.userRepo, f.vehicleRepo, f.settlementRepo,
		fareService, NewMockIDGenerator(), nil, f.notifier,
	)
	ctx := context.Background()

	f.partnerRepo.AddPartner(&domain.Partner{ID: "partner-2", IsOnline: true})

	ride := f.createRide(t)
	if _, err := rideService.Accept(ctx, ride.ID, "partner-1"); err != nil {
		t.Fatalf("unexpected error accepting: %v", err)
	}
	if _, err := rideService.Accept(ctx, ride.ID, "partner-2"); !errors.Is(err, service.ErrRideAlreadyAssigned) {
		t.Errorf("expected ErrRideAlreadyAssigned, got %v", err)
	}
}
