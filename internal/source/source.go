// Package source provides the data-access collaborators feeding the pipeline:
// Postgres (source of truth), SQLite (offline copy), Redis memoization and
// a timeout guard that surfaces DataUnavailableError.
package source

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/pkg/config"
	"github.com/wonny/telecom-kpi/pkg/database"
	"github.com/wonny/telecom-kpi/pkg/redis"
)

// Backend is an ObservationSource that also accepts dataset writes
type Backend interface {
	contracts.ObservationSource
	contracts.DatasetWriter
}

// Opened is the assembled source stack and what must be closed afterwards
type Opened struct {
	Source  contracts.ObservationSource // guarded (and memoized when redis is enabled)
	Backend Backend                     // raw backend for writes
	Cache   *Cached                     // nil unless redis is enabled
	DB      *database.DB                // nil unless DATA_SOURCE=postgres

	closers []func() error
}

// Close releases every handle opened by Open
func (o *Opened) Close() error {
	var firstErr error
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open builds the configured backend, the optional Redis memoization and the timeout guard.
// ⭐ SSOT: the only place choosing a data source
func Open(ctx context.Context, cfg *config.Config, rdb *redis.Client, log zerolog.Logger) (*Opened, error) {
	opened := &Opened{}

	switch cfg.Source.Kind {
	case "postgres":
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres source: %w", err)
		}
		opened.DB = db
		opened.Backend = NewPostgres(db.Pool)
		opened.closers = append(opened.closers, func() error { db.Close(); return nil })
	case "sqlite":
		lite, err := NewSQLite(cfg.Source.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite source: %w", err)
		}
		opened.Backend = lite
		opened.closers = append(opened.closers, lite.Close)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source.Kind)
	}

	var src contracts.ObservationSource = opened.Backend
	if rdb != nil && rdb.Enabled() {
		opened.Cache = WithCache(src, redis.NewCache(rdb, "telecom"), cfg.Redis.CacheTTL, log)
		src = opened.Cache
	}
	opened.Source = WithTimeout(src, cfg.Source.QueryTimeout, log)

	log.Info().
		Str("source", cfg.Source.Kind).
		Bool("memoized", opened.Cache != nil).
		Dur("query_timeout", cfg.Source.QueryTimeout).
		Msg("data source opened")

	return opened, nil
}
