package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for partner location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, partnerID string, lat, lng float64) error
	GetLocation(ctx context.Context, partnerID string) (PartnerLocation, bool, error)
	RemoveLocation(ctx context.Context, partnerID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

// ConfigCacheInterface defines the interface for the pricing config cache.
type ConfigCacheInterface interface {
	GetActiveConfig(ctx context.Context) (*CachedPricingConfig, error)
	SetActiveConfig(ctx context.Context, cfg *CachedPricingConfig) error
	InvalidateActiveConfig(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ ConfigCacheInterface   = (*ConfigCache)(nil)
)
