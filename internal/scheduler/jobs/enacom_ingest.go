package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/telecom-kpi/internal/ingest"
	"github.com/wonny/telecom-kpi/pkg/logger"
)

// Ingester runs one load of the ENACOM datasets
type Ingester interface {
	Run(ctx context.Context) (*ingest.Result, error)
}

// ENACOMIngestJob reloads the ENACOM exports into the source of truth
// ⭐ SSOT: the ingest schedule lives in this job only
type ENACOMIngestJob struct {
	loader   Ingester
	schedule string
	logger   *logger.Logger
}

// NewENACOMIngestJob creates a new ingest job. An empty schedule runs daily at 6 AM.
func NewENACOMIngestJob(loader Ingester, schedule string, log *logger.Logger) *ENACOMIngestJob {
	if schedule == "" {
		schedule = "0 0 6 * * *"
	}
	return &ENACOMIngestJob{
		loader:   loader,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ENACOMIngestJob) Name() string {
	return "enacom_ingest"
}

// Schedule returns the cron schedule. ENACOM publishes quarterly, a daily check is enough.
func (j *ENACOMIngestJob) Schedule() string {
	return j.schedule
}

// Run executes the ingestion
func (j *ENACOMIngestJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled ENACOM ingest")

	result, err := j.loader.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   result.RunID.String(),
		"rows":     result.Rows,
		"duration": result.Duration,
	}).Info("Scheduled ENACOM ingest completed")
	return nil
}
