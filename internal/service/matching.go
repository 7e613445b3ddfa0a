package service

import (
	"context"
	"sort"

	"ridemarket/internal/domain"
	"ridemarket/internal/geo"
	"ridemarket/internal/redis"
	"ridemarket/internal/repository"
)

// MaxPickupRadiusKm bounds how far a partner can discover work.
const MaxPickupRadiusKm = 10.0

// MatchingService implements pull-model discovery: partners query for
// nearby unassigned rides; nothing is reserved or locked here.
type MatchingService struct {
	rideRepo      repository.RideRepository
	partnerRepo   repository.PartnerRepository
	locationStore redis.LocationStoreInterface
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	rideRepo repository.RideRepository,
	partnerRepo repository.PartnerRepository,
	locationStore redis.LocationStoreInterface,
) *MatchingService {
	return &MatchingService{
		rideRepo:      rideRepo,
		partnerRepo:   partnerRepo,
		locationStore: locationStore,
	}
}

// DiscoverRequest contains the parameters for ride discovery.
type DiscoverRequest struct {
	PartnerID     string
	Lat           float64
	Lng           float64
	HasPosition   bool // false means fall back to the partner's last ping
	VehicleTypeID string
}

// Candidate is a discoverable ride with its pickup distance from the
// partner's position.
type Candidate struct {
	Ride       *domain.Ride
	DistanceKm float64
}

// Discover returns pending unassigned rides within MaxPickupRadiusKm of
// the partner's position, nearest first. Acceptance is a separate
// operation; two partners may see the same candidate.
func (s *MatchingService) Discover(ctx context.Context, req DiscoverRequest) ([]Candidate, error) {
	if req.PartnerID == "" {
		return nil, ErrInvalidPartnerID
	}

	partner, err := s.partnerRepo.GetByID(ctx, req.PartnerID)
	if err != nil {
		return nil, err
	}
	if !partner.IsOnline {
		return nil, ErrPartnerOffline
	}

	lat, lng := req.Lat, req.Lng
	if !req.HasPosition {
		lat, lng = s.lastKnownPosition(ctx, partner)
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return nil, ErrInvalidPickupLocation
	}

	rides, err := s.rideRepo.ListUnassigned(ctx, req.VehicleTypeID)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(rides))
	for _, ride := range rides {
		d := geo.HaversineKm(lat, lng, ride.PickupLat, ride.PickupLng)
		if d > MaxPickupRadiusKm {
			continue
		}
		candidates = append(candidates, Candidate{Ride: ride, DistanceKm: d})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})

	return candidates, nil
}

// lastKnownPosition prefers the Redis geo index over the persisted row,
// since pings land in Redis first.
func (s *MatchingService) lastKnownPosition(ctx context.Context, partner *domain.Partner) (float64, float64) {
	if s.locationStore != nil {
		loc, ok, err := s.locationStore.GetLocation(ctx, partner.ID)
		if err == nil && ok {
			return loc.Lat, loc.Lng
		}
	}
	return partner.CurrentLat, partner.CurrentLng
}
