package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	activeConfigKey = "pricing:active_config"
	configCacheTTL  = 5 * time.Minute
)

// CachedPricingConfig is the cache representation of the active global
// fare split, read by every ride creation.
type CachedPricingConfig struct {
	ID              string  `json:"id"`
	BaseFare        float64 `json:"base_fare"`
	RiderPercentage float64 `json:"rider_percentage"`
	AppCommission   float64 `json:"app_commission"`
}

// ConfigCache caches the active pricing config in Redis.
type ConfigCache struct {
	client *redis.Client
}

// NewConfigCache creates a new ConfigCache.
func NewConfigCache(client *redis.Client) *ConfigCache {
	return &ConfigCache{client: client}
}

// GetActiveConfig returns the cached config, or (nil, nil) on a miss.
func (c *ConfigCache) GetActiveConfig(ctx context.Context) (*CachedPricingConfig, error) {
	data, err := c.client.Get(ctx, activeConfigKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cfg CachedPricingConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetActiveConfig stores the config with a TTL.
func (c *ConfigCache) SetActiveConfig(ctx context.Context, cfg *CachedPricingConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, activeConfigKey, data, configCacheTTL).Err()
}

// InvalidateActiveConfig drops the cached config after an update.
func (c *ConfigCache) InvalidateActiveConfig(ctx context.Context) error {
	return c.client.Del(ctx, activeConfigKey).Err()
}
