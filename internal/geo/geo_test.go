package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_SamePointIsZero(t *testing.T) {
	t.Parallel()

	if d := HaversineKm(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Errorf("expected 0 distance for identical points, got %f", d)
	}
}

func TestHaversineKm_KnownDistances(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		toleranceKm            float64
	}{
		{
			name: "short hop within Bengaluru",
			lat1: 12.90, lng1: 77.60,
			lat2: 12.95, lng2: 77.61,
			wantKm:      5.66,
			toleranceKm: 0.2,
		},
		{
			name: "Bengaluru to Mysuru",
			lat1: 12.9716, lng1: 77.5946,
			lat2: 12.2958, lng2: 76.6394,
			wantKm:      128.5,
			toleranceKm: 3.0,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			wantKm:      111.19,
			toleranceKm: 0.5,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := HaversineKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			if math.Abs(got-tc.wantKm) > tc.toleranceKm {
				t.Errorf("expected ~%.2f km, got %.2f km", tc.wantKm, got)
			}
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	t.Parallel()

	a := HaversineKm(12.90, 77.60, 12.95, 77.61)
	b := HaversineKm(12.95, 77.61, 12.90, 77.60)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("expected symmetric distance, got %f vs %f", a, b)
	}
}
