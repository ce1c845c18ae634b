// Package kpi computes the three connectivity KPIs by feeding freshly fetched
// observations through the pipeline with the parameters of kpiconfig.
package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/kpiconfig"
	"github.com/wonny/telecom-kpi/internal/pipeline"
)

// Service answers KPI requests. It holds no mutable state; every call fetches
// its own rows and runs the pipeline end to end.
type Service struct {
	src        contracts.ObservationSource
	cfg        *kpiconfig.Config
	paramsHash string
	log        zerolog.Logger
	now        func() time.Time

	reports   ReportCache // nil disables report memoization
	reportTTL time.Duration
}

// NewService validates cfg and binds it to src
func NewService(src contracts.ObservationSource, cfg *kpiconfig.Config, log zerolog.Logger) (*Service, error) {
	if err := kpiconfig.Validate(cfg); err != nil {
		return nil, err
	}
	hash, err := kpiconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash kpi config: %w", err)
	}

	return &Service{
		src:        src,
		cfg:        cfg,
		paramsHash: hash,
		log:        log.With().Str("component", "kpi").Logger(),
		now:        time.Now,
	}, nil
}

// Config returns the KPI parameters in use
func (s *Service) Config() *kpiconfig.Config {
	return s.cfg
}

// ParamsHash identifies the configured parameter set (report cache keys, summary)
func (s *Service) ParamsHash() string {
	return s.paramsHash
}

// Params are per-request overrides of the configured parameters
type Params struct {
	MinYear    *int
	GrowthRate *float64
}

// resolve applies the overrides on top of the configured defaults
func (p Params) resolve(minYear int, rate float64) (int, float64, error) {
	if p.MinYear != nil {
		if err := kpiconfig.ValidateYear(*p.MinYear); err != nil {
			return 0, 0, kpiconfig.ValidationError{Field: "min_year", Message: err.Error()}
		}
		minYear = *p.MinYear
	}
	if p.GrowthRate != nil {
		if err := kpiconfig.ValidateRate(*p.GrowthRate); err != nil {
			return 0, 0, kpiconfig.ValidationError{Field: "growth_rate", Message: err.Error()}
		}
		rate = *p.GrowthRate
	}
	return minYear, rate, nil
}

func (s *Service) pipeline(minYear int, rate float64) (*pipeline.Pipeline, error) {
	return pipeline.New(s.log, pipeline.Options{
		MinYear:     minYear,
		GrowthRate:  rate,
		GroupBy:     contracts.Dimension(s.cfg.Pipeline.GroupDimension),
		RatioStrict: s.cfg.Pipeline.RatioStrict,
	})
}

// mapPoints turns per-province aggregates into map points keyed by the
// normalized province name. Provinces outside the reference table keep no
// coordinates.
func mapPoints(aggs contracts.Aggregates) []contracts.MapPoint {
	sorted := aggs.Sorted()
	out := make([]contracts.MapPoint, len(sorted))
	for i, agg := range sorted {
		pt := contracts.MapPoint{Province: agg.Key, Value: agg.Value}
		if info, ok := contracts.LookupProvince(agg.Key); ok {
			pt.Code = info.Code
			pt.Latitude = info.Latitude
			pt.Longitude = info.Longitude
		}
		out[i] = pt
	}
	return out
}

// normalizeProvinces rewrites province names to their map key
func normalizeProvinces(obs []contracts.Observation) []contracts.Observation {
	out := make([]contracts.Observation, len(obs))
	for i, o := range obs {
		o.Province = contracts.NormalizeProvince(o.Province)
		out[i] = o
	}
	return out
}

func firstPoint(series contracts.ProvinceSeries) (contracts.Observation, bool) {
	if len(series.Points) == 0 {
		return contracts.Observation{}, false
	}
	return series.Points[0], true
}

// Compute runs one KPI with params and returns its report
func (s *Service) Compute(ctx context.Context, k contracts.KPI, params Params) (interface{}, error) {
	switch k {
	case contracts.KPIInternet:
		return s.Internet(ctx, params)
	case contracts.KPIFiber:
		return s.Fiber(ctx, params)
	case contracts.KPIMobile:
		return s.Mobile(ctx, params)
	default:
		return nil, fmt.Errorf("unknown kpi %q", k)
	}
}
