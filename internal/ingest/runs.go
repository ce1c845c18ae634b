package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run statuses
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Run is one row of ingest_runs
type Run struct {
	ID         uuid.UUID  `json:"run_id"`
	Dataset    string     `json:"dataset"`
	RowsLoaded int        `json:"rows_loaded"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunStore records ingest runs in Postgres
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore creates a run store
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Start inserts a running row and returns its id
func (s *RunStore) Start(ctx context.Context, id uuid.UUID, dataset string, startedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingest_runs (run_id, dataset, status, started_at)
		VALUES ($1, $2, $3, $4)`,
		id, dataset, StatusRunning, startedAt)
	if err != nil {
		return fmt.Errorf("record ingest start: %w", err)
	}
	return nil
}

// Finish closes a run with its outcome
func (s *RunStore) Finish(ctx context.Context, id uuid.UUID, rows int, runErr error) error {
	status := StatusSuccess
	var errText *string
	if runErr != nil {
		status = StatusFailed
		msg := runErr.Error()
		errText = &msg
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE ingest_runs
		SET rows_loaded = $2, status = $3, error = $4, finished_at = NOW()
		WHERE run_id = $1`,
		id, rows, status, errText)
	if err != nil {
		return fmt.Errorf("record ingest finish: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first
func (s *RunStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, dataset, rows_loaded, status, COALESCE(error, ''), started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Dataset, &r.RowsLoaded, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan ingest run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
