package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const partnerLocationKey = "partners:locations"

// PartnerLocation represents a partner's live position.
type PartnerLocation struct {
	PartnerID string
	Lat       float64
	Lng       float64
}

// LocationStore handles partner location operations in Redis.
// Pings are high-frequency and last-writer-wins.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a partner's position using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, partnerID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, partnerLocationKey, &redis.GeoLocation{
		Name:      partnerID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// GetLocation returns the partner's last known position, or ok=false if
// no position has been recorded.
func (s *LocationStore) GetLocation(ctx context.Context, partnerID string) (PartnerLocation, bool, error) {
	positions, err := s.client.GeoPos(ctx, partnerLocationKey, partnerID).Result()
	if err != nil {
		return PartnerLocation{}, false, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return PartnerLocation{}, false, nil
	}

	return PartnerLocation{
		PartnerID: partnerID,
		Lat:       positions[0].Latitude,
		Lng:       positions[0].Longitude,
	}, true, nil
}

// RemoveLocation removes a partner's position from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, partnerID string) error {
	return s.client.ZRem(ctx, partnerLocationKey, partnerID).Err()
}
