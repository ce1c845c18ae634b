package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/kpi"
	"github.com/wonny/telecom-kpi/pkg/logger"
)

// KPIComputer computes one KPI report
type KPIComputer interface {
	Compute(ctx context.Context, k contracts.KPI, params kpi.Params) (interface{}, error)
}

// CacheWarmJob computes every KPI with the configured parameters so the
// memoized source reads and default reports are hot before the first request
type CacheWarmJob struct {
	service  KPIComputer
	schedule string
	logger   *logger.Logger
}

// NewCacheWarmJob creates a new cache warm job. An empty schedule runs every 30 minutes.
func NewCacheWarmJob(service KPIComputer, schedule string, log *logger.Logger) *CacheWarmJob {
	if schedule == "" {
		schedule = "@every 30m"
	}
	return &CacheWarmJob{
		service:  service,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheWarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron schedule
func (j *CacheWarmJob) Schedule() string {
	return j.schedule
}

// Run computes every KPI. The first failure aborts the run.
func (j *CacheWarmJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache warm")

	for _, k := range contracts.AllKPIs() {
		if _, err := j.service.Compute(ctx, k, kpi.Params{}); err != nil {
			return fmt.Errorf("compute %s: %w", k, err)
		}
	}

	j.logger.WithField("kpis", len(contracts.AllKPIs())).Info("Cache warm completed")
	return nil
}
