package fare

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestCompute_GlobalConfig(t *testing.T) {
	t.Parallel()

	// vehicle at 12/km, base 20, 80/20 split, 10 km
	// total = 20 + 12*10 = 140; rider = 112; commission = 28
	cfg := &GlobalConfig{BaseFare: 20, RiderPercentage: 80, AppCommission: 20}

	b, err := Compute(VehicleRate{PricePerKm: 12}, cfg, nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.TotalFare != 140 {
		t.Errorf("expected total fare 140, got %f", b.TotalFare)
	}
	if b.RiderEarnings != 112 {
		t.Errorf("expected rider earnings 112, got %f", b.RiderEarnings)
	}
	if b.Commission != 28 {
		t.Errorf("expected commission 28, got %f", b.Commission)
	}
	if b.PerKmPrice != 12 {
		t.Errorf("expected per-km price 12, got %f", b.PerKmPrice)
	}
}

func TestCompute_DefaultBaseFare(t *testing.T) {
	t.Parallel()

	cfg := &GlobalConfig{BaseFare: 0, RiderPercentage: 80, AppCommission: 20}

	b, err := Compute(VehicleRate{PricePerKm: 10}, cfg, nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// base defaults to 20 when unset
	if b.BaseFare != DefaultBaseFare {
		t.Errorf("expected default base fare %f, got %f", DefaultBaseFare, b.BaseFare)
	}
	if b.TotalFare != 70 {
		t.Errorf("expected total fare 70, got %f", b.TotalFare)
	}
}

func TestCompute_CityOverride(t *testing.T) {
	t.Parallel()

	cfg := &GlobalConfig{BaseFare: 20, RiderPercentage: 80, AppCommission: 20}

	testCases := []struct {
		name       string
		city       CityOverride
		distanceKm float64
		wantTotal  float64
	}{
		{
			name:       "distance beyond base km",
			city:       CityOverride{BaseKm: 3, BaseFare: 50, PerKmAfterBase: 15},
			distanceKm: 10,
			wantTotal:  50 + 7*15,
		},
		{
			name:       "distance within base km bills nothing extra",
			city:       CityOverride{BaseKm: 3, BaseFare: 50, PerKmAfterBase: 15},
			distanceKm: 2,
			wantTotal:  50,
		},
		{
			name:       "distance exactly at base km",
			city:       CityOverride{BaseKm: 3, BaseFare: 50, PerKmAfterBase: 15},
			distanceKm: 3,
			wantTotal:  50,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b, err := Compute(VehicleRate{PricePerKm: 12}, cfg, &tc.city, tc.distanceKm)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.TotalFare != tc.wantTotal {
				t.Errorf("expected total fare %f, got %f", tc.wantTotal, b.TotalFare)
			}
		})
	}
}

func TestCompute_FareConservation(t *testing.T) {
	t.Parallel()

	cfg := &GlobalConfig{BaseFare: 20, RiderPercentage: 75, AppCommission: 25}

	distances := []float64{0, 0.5, 1, 7.3, 10, 42.2, 199.9}
	for _, d := range distances {
		b, err := Compute(VehicleRate{PricePerKm: 13.5}, cfg, nil, d)
		if err != nil {
			t.Fatalf("unexpected error at %f km: %v", d, err)
		}
		if math.Abs(b.RiderEarnings+b.Commission-b.TotalFare) > tolerance {
			t.Errorf("fare not conserved at %f km: %f + %f != %f",
				d, b.RiderEarnings, b.Commission, b.TotalFare)
		}
	}
}

func TestCompute_Errors(t *testing.T) {
	t.Parallel()

	cfg := &GlobalConfig{BaseFare: 20, RiderPercentage: 80, AppCommission: 20}

	if _, err := Compute(VehicleRate{PricePerKm: 12}, nil, nil, 10); err != ErrNoPricing {
		t.Errorf("expected ErrNoPricing, got %v", err)
	}
	if _, err := Compute(VehicleRate{PricePerKm: 12}, cfg, nil, -1); err != ErrInvalidDistance {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}
}
