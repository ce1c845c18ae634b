// Package ingest loads ENACOM open-data exports into the source of truth.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Fetcher produces a complete dataset (ENACOM portal or local exports)
type Fetcher interface {
	FetchDataset(ctx context.Context) (contracts.Dataset, error)
}

// Recorder keeps the history of runs
type Recorder interface {
	Start(ctx context.Context, id uuid.UUID, dataset string, startedAt time.Time) error
	Finish(ctx context.Context, id uuid.UUID, rows int, runErr error) error
}

// Invalidator drops memoized reads once new rows are written
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Result summarizes one load
type Result struct {
	RunID    uuid.UUID        `json:"run_id"`
	Dataset  string           `json:"dataset"`
	Rows     int              `json:"rows"`
	Duration time.Duration    `json:"duration"`
	Quality  *QualitySnapshot `json:"quality,omitempty"`
}

// Loader fetches a dataset, checks its quality, writes it in one transaction
// and records the run. Recorder, Invalidator and the quality gate are optional.
type Loader struct {
	name         string
	fetcher      Fetcher
	writer       contracts.DatasetWriter
	recorder     Recorder
	invalidators []Invalidator
	quality      *QualityGate
	log          zerolog.Logger
}

// NewLoader creates a loader for the dataset called name
func NewLoader(name string, fetcher Fetcher, writer contracts.DatasetWriter, log zerolog.Logger) *Loader {
	return &Loader{
		name:    name,
		fetcher: fetcher,
		writer:  writer,
		log:     log.With().Str("component", "ingest").Str("dataset", name).Logger(),
	}
}

// WithRecorder records every run
func (l *Loader) WithRecorder(r Recorder) *Loader {
	l.recorder = r
	return l
}

// WithInvalidator adds a memoization layer to invalidate after a successful write
func (l *Loader) WithInvalidator(inv Invalidator) *Loader {
	l.invalidators = append(l.invalidators, inv)
	return l
}

// WithQualityGate refuses datasets scoring below the gate threshold
func (l *Loader) WithQualityGate(g *QualityGate) *Loader {
	l.quality = g
	return l
}

// Run performs one load
func (l *Loader) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.New()
	log := l.log.With().Str("run_id", runID.String()).Logger()

	if l.recorder != nil {
		if err := l.recorder.Start(ctx, runID, l.name, start); err != nil {
			return nil, err
		}
	}

	rows, snapshot, err := l.load(ctx, log)

	if l.recorder != nil {
		if recErr := l.recorder.Finish(ctx, runID, rows, err); recErr != nil {
			log.Error().Err(recErr).Msg("failed to record ingest outcome")
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("ingest failed")
		return nil, err
	}

	for _, inv := range l.invalidators {
		if err := inv.Invalidate(ctx); err != nil {
			// stale memoized entries expire with their TTL
			log.Warn().Err(err).Msg("cache invalidation failed")
		}
	}

	result := &Result{RunID: runID, Dataset: l.name, Rows: rows, Duration: time.Since(start), Quality: snapshot}
	log.Info().
		Int("rows", rows).
		Dur("duration", result.Duration).
		Msg("ingest completed")
	return result, nil
}

func (l *Loader) load(ctx context.Context, log zerolog.Logger) (int, *QualitySnapshot, error) {
	ds, err := l.fetcher.FetchDataset(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("fetch: %w", err)
	}
	if ds.Rows() == 0 {
		return 0, nil, &contracts.InsufficientDataError{Stage: contracts.StageFetch, Reason: "fetched dataset is empty"}
	}

	var snapshot *QualitySnapshot
	if l.quality != nil {
		snapshot, err = l.quality.Check(ds)
		log.Info().
			Float64("score", snapshot.Score).
			Str("latest_period", snapshot.LatestPeriod).
			Strs("unresolved", snapshot.Unresolved).
			Msg("dataset quality")
		if err != nil {
			return 0, snapshot, err
		}
	}

	if err := l.writer.WriteDataset(ctx, ds); err != nil {
		return 0, snapshot, fmt.Errorf("write: %w", err)
	}
	return ds.Rows(), snapshot, nil
}
