package source

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/pkg/redis"
)

// Cached memoizes the wrapped source in Redis, keyed by query.
// Cache failures degrade to a direct read; they never fail the request.
type Cached struct {
	src   contracts.ObservationSource
	cache *redis.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// WithCache wraps src. With a disabled redis client every call goes straight through.
// ttl <= 0 uses redis.TTLLong.
func WithCache(src contracts.ObservationSource, cache *redis.Cache, ttl time.Duration, log zerolog.Logger) *Cached {
	if ttl <= 0 {
		ttl = redis.TTLLong
	}
	return &Cached{
		src:   src,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "source.cache").Logger(),
	}
}

// Name identifies the wrapped source
func (c *Cached) Name() string {
	return c.src.Name()
}

// Ping checks the wrapped source
func (c *Cached) Ping(ctx context.Context) error {
	return c.src.Ping(ctx)
}

// InternetPenetration returns memoized KPI 1 rows
func (c *Cached) InternetPenetration(ctx context.Context) ([]contracts.Observation, error) {
	return memoize(ctx, c, QueryInternet, c.src.InternetPenetration)
}

// Localities returns memoized KPI 2 rows
func (c *Cached) Localities(ctx context.Context) ([]contracts.Locality, error) {
	return memoize(ctx, c, QueryLocalities, c.src.Localities)
}

// MobileAccesses returns memoized KPI 3 rows
func (c *Cached) MobileAccesses(ctx context.Context) ([]contracts.MobileAccess, error) {
	return memoize(ctx, c, QueryMobile, c.src.MobileAccesses)
}

// Invalidate drops every memoized query (after an ingest)
func (c *Cached) Invalidate(ctx context.Context) error {
	n, err := c.cache.DeletePrefix(ctx, redis.ObservationsKey(""))
	if err != nil {
		return fmt.Errorf("invalidate observation cache: %w", err)
	}
	c.log.Info().Int("keys", n).Msg("observation cache invalidated")
	return nil
}

func memoize[T any](ctx context.Context, c *Cached, query string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	var (
		rows     []T
		fetched  bool
		fetchErr error
	)

	err := c.cache.GetOrSet(ctx, redis.ObservationsKey(query), &rows, c.ttl, func() error {
		fetched = true
		rows, fetchErr = fetch(ctx)
		return fetchErr
	})
	if err == nil {
		c.log.Debug().Str("query", query).Bool("hit", !fetched).Msg("memoized read")
		return rows, nil
	}
	if fetched {
		return nil, fetchErr
	}

	// an undecodable entry would fail every read until it expires
	c.log.Warn().Err(err).Str("query", query).Msg("cache read failed, reading source directly")
	if delErr := c.cache.Delete(ctx, redis.ObservationsKey(query)); delErr != nil {
		c.log.Debug().Err(delErr).Str("query", query).Msg("cache entry not dropped")
	}
	return fetch(ctx)
}
