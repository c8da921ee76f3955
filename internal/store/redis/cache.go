// Package redis caches catalog snapshots in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/pricebook/internal/config"
	"github.com/JonMunkholm/pricebook/internal/logging"
	"github.com/JonMunkholm/pricebook/internal/pricing"
)

const keyPrefix = "pricing:catalog:"

// NewClient creates a Redis client from cfg and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// CatalogCache stores one JSON snapshot per brand with a TTL.
type CatalogCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a cache whose entries expire after ttl.
func NewCatalogCache(client *goredis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// GetCatalog returns the cached snapshot of a brand. A missing or
// undecodable entry is a miss; undecodable entries are removed.
func (c *CatalogCache) GetCatalog(ctx context.Context, brand string) (pricing.Catalog, bool, error) {
	key := catalogKey(brand)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return pricing.Catalog{}, false, nil
	}
	if err != nil {
		return pricing.Catalog{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	catalog, err := decodeSnapshot(data, brand)
	if err != nil {
		logging.FromContext(ctx).Warn("dropping unreadable catalog cache entry", "key", key, "error", err)
		if err := c.client.Del(ctx, key).Err(); err != nil {
			logging.FromContext(ctx).Warn("redis del failed", "key", key, "error", err)
		}
		return pricing.Catalog{}, false, nil
	}
	return catalog, true, nil
}

// SetCatalog stores a snapshot under its brand.
func (c *CatalogCache) SetCatalog(ctx context.Context, catalog pricing.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("encode catalog %s: %w", catalog.Brand, err)
	}
	if err := c.client.Set(ctx, catalogKey(catalog.Brand), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate removes the snapshot of a brand.
func (c *CatalogCache) Invalidate(ctx context.Context, brand string) error {
	if err := c.client.Del(ctx, catalogKey(brand)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func catalogKey(brand string) string {
	return keyPrefix + brand
}

// decodeSnapshot parses a cached snapshot and checks it belongs to brand.
func decodeSnapshot(data []byte, brand string) (pricing.Catalog, error) {
	var catalog pricing.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return pricing.Catalog{}, err
	}
	if catalog.Brand != brand {
		return pricing.Catalog{}, fmt.Errorf("cached snapshot is for brand %q", catalog.Brand)
	}
	return catalog, nil
}
