package tests

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"ridemarket/internal/domain"
	"ridemarket/internal/service"
)

// ──────────────────────────────────────────────
// PARTNER PRESENCE
// ──────────────────────────────────────────────

func TestUpdateLocation_MarksPartnerOnline(t *testing.T) {
	t.Parallel()

	partnerRepo := NewMockPartnerRepository()
	locationStore := NewMockLocationStore()
	partnerService := service.NewPartnerService(partnerRepo, locationStore)
	ctx := context.Background()

	partnerRepo.AddPartner(&domain.Partner{ID: "partner-1", IsOnline: false})

	if err := partnerService.UpdateLocation(ctx, "partner-1", 12.93, 77.62); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := partnerRepo.GetPartner("partner-1")
	if !stored.IsOnline {
		t.Error("expected partner online after ping")
	}
	if stored.CurrentLat != 12.93 || stored.CurrentLng != 77.62 {
		t.Errorf("expected position persisted, got (%v, %v)", stored.CurrentLat, stored.CurrentLng)
	}

	loc, ok, err := locationStore.GetLocation(ctx, "partner-1")
	if err != nil || !ok {
		t.Fatalf("expected position in geo index, ok=%v err=%v", ok, err)
	}
	if loc.Lat != 12.93 || loc.Lng != 77.62 {
		t.Errorf("expected geo index position (12.93, 77.62), got (%v, %v)", loc.Lat, loc.Lng)
	}
}

func TestUpdateLocation_RejectsInvalidCoordinates(t *testing.T) {
	t.Parallel()

	partnerRepo := NewMockPartnerRepository()
	partnerService := service.NewPartnerService(partnerRepo, NewMockLocationStore())
	partnerRepo.AddPartner(&domain.Partner{ID: "partner-1"})

	err := partnerService.UpdateLocation(context.Background(), "partner-1", 95, 77.62)
	if !errors.Is(err, service.ErrInvalidPickupLocation) {
		t.Errorf("expected ErrInvalidPickupLocation, got %v", err)
	}
}

func TestGoOffline_RemovesFromDiscovery(t *testing.T) {
	t.Parallel()

	partnerRepo := NewMockPartnerRepository()
	locationStore := NewMockLocationStore()
	partnerService := service.NewPartnerService(partnerRepo, locationStore)
	ctx := context.Background()

	partnerRepo.AddPartner(&domain.Partner{ID: "partner-1"})
	if err := partnerService.UpdateLocation(ctx, "partner-1", 12.93, 77.62); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := partnerService.GoOffline(ctx, "partner-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if partnerRepo.GetPartner("partner-1").IsOnline {
		t.Error("expected partner offline")
	}
	if _, ok, _ := locationStore.GetLocation(ctx, "partner-1"); ok {
		t.Error("expected position removed from geo index")
	}
}

// ──────────────────────────────────────────────
// USER OTP
// ──────────────────────────────────────────────

func TestRegisterUser_AssignsFourDigitOTP(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	userService := service.NewUserService(userRepo)

	user, err := userService.Register(context.Background(), "Asha", "9000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if matched := regexp.MustCompile(`^\d{4}$`).MatchString(user.UniqueOTP); !matched {
		t.Errorf("expected 4-digit OTP, got %q", user.UniqueOTP)
	}
}

func TestRegenerateOTP_ReplacesStandingOTP(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	userService := service.NewUserService(userRepo)

	userRepo.AddUser(&domain.User{ID: "user-1", UniqueOTP: "4821"})

	otp, err := userService.RegenerateOTP(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched := regexp.MustCompile(`^\d{4}$`).MatchString(otp); !matched {
		t.Errorf("expected 4-digit OTP, got %q", otp)
	}
	if stored := userRepo.GetUser("user-1").UniqueOTP; stored != otp {
		t.Errorf("expected stored OTP %q, got %q", otp, stored)
	}
}
