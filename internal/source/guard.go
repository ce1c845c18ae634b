package source

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Guarded bounds every call to the wrapped source with a timeout and turns
// any failure into a DataUnavailableError. Results are all-or-nothing.
type Guarded struct {
	src     contracts.ObservationSource
	timeout time.Duration
	log     zerolog.Logger
}

// WithTimeout wraps src; timeout must be positive
func WithTimeout(src contracts.ObservationSource, timeout time.Duration, log zerolog.Logger) *Guarded {
	return &Guarded{
		src:     src,
		timeout: timeout,
		log:     log.With().Str("component", "source.guard").Str("source", src.Name()).Logger(),
	}
}

// Name identifies the wrapped source
func (g *Guarded) Name() string {
	return g.src.Name()
}

// Ping checks the wrapped source within the timeout
func (g *Guarded) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.src.Ping(ctx); err != nil {
		return g.unavailable("ping", err)
	}
	return nil
}

// InternetPenetration fetches KPI 1 rows within the timeout
func (g *Guarded) InternetPenetration(ctx context.Context) ([]contracts.Observation, error) {
	return guard(ctx, g, QueryInternet, g.src.InternetPenetration)
}

// Localities fetches KPI 2 rows within the timeout
func (g *Guarded) Localities(ctx context.Context) ([]contracts.Locality, error) {
	return guard(ctx, g, QueryLocalities, g.src.Localities)
}

// MobileAccesses fetches KPI 3 rows within the timeout
func (g *Guarded) MobileAccesses(ctx context.Context) ([]contracts.MobileAccess, error) {
	return guard(ctx, g, QueryMobile, g.src.MobileAccesses)
}

func guard[T any](ctx context.Context, g *Guarded, query string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	rows, err := fetch(ctx)
	if err == nil {
		// a driver may return rows and only notice the deadline afterwards
		err = ctx.Err()
	}
	if err != nil {
		return nil, g.unavailable(query, err)
	}

	g.log.Debug().
		Str("query", query).
		Int("rows", len(rows)).
		Dur("duration", time.Since(start)).
		Msg("fetched")

	return rows, nil
}

func (g *Guarded) unavailable(query string, err error) error {
	var already *contracts.DataUnavailableError
	if errors.As(err, &already) {
		return err
	}

	g.log.Error().Err(err).Str("query", query).Msg("data source unavailable")
	return &contracts.DataUnavailableError{Source: g.src.Name(), Query: query, Err: err}
}
