package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values under "<prefix>:cache:<key>"
// ⭐ SSOT: cache helpers live here only
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value; a missing key reports found=false
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.fullKey(key)).Err()
}

// DeletePrefix removes every cached value whose key starts with keyPrefix.
// Returns the number of deleted keys.
func (c *Cache) DeletePrefix(ctx context.Context, keyPrefix string) (int, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	rdb := c.client.Redis()
	iter := rdb.Scan(ctx, 0, c.fullKey(keyPrefix)+"*", 100).Iterator()

	deleted := 0
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("cache delete failed: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan failed: %w", err)
	}

	return deleted, nil
}

// GetOrSet fills dest from cache, or calls fn and stores its result.
// dest must be a pointer to the type fn writes into; fn populates dest itself.
// A failed Set is ignored: the freshly computed value is still returned.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() error) error {
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if err := fn(); err != nil {
		return err
	}

	_ = c.Set(ctx, key, dest, ttl)
	return nil
}

// Predefined TTLs
const (
	TTLMedium = 10 * time.Minute // KPI reports
	TTLLong   = 1 * time.Hour    // raw observations
)

// KPIKeyPrefix prefixes every cached KPI report key
const KPIKeyPrefix = "kpi:"

// ObservationsKey identifies a cached source query
func ObservationsKey(dataset string) string {
	return fmt.Sprintf("obs:%s", dataset)
}

// KPIKey identifies a cached KPI report computed with the parameter hash
func KPIKey(kpi string, paramsHash string) string {
	return fmt.Sprintf("%s%s:%s", KPIKeyPrefix, kpi, paramsHash)
}
