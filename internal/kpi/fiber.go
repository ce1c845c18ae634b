package kpi

import (
	"context"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/pipeline"
)

// computeFiber builds KPI 2: the share of connected localities with fiber per
// province, the lowest quartile projected by the quartile growth rate and
// the national target card. Params.GrowthRate overrides the quartile rate.
func (s *Service) computeFiber(ctx context.Context, params Params) (*contracts.FiberReport, error) {
	_, rate, err := params.resolve(0, s.cfg.Fiber.QuartileGrowthRate)
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline(0, rate)
	if err != nil {
		return nil, err
	}

	localities, err := s.src.Localities(ctx)
	if err != nil {
		return nil, err
	}

	fiber, all := localityObservations(localities)

	withFiber, err := p.Aggregate(fiber, contracts.ReducerCount)
	if err != nil {
		return nil, err
	}
	total, err := p.Aggregate(all, contracts.ReducerCount)
	if err != nil {
		return nil, err
	}

	coverage, err := p.Ratio(withFiber, total)
	if err != nil {
		return nil, err
	}
	if len(coverage) == 0 {
		return nil, &contracts.InsufficientDataError{
			Stage:  contracts.StageRatio,
			Reason: "no localities with connectivity",
		}
	}

	byProvince := pipeline.RatioAggregates(coverage)

	threshold, err := pipeline.Quantile(byProvince.Values(), 0.25)
	if err != nil {
		return nil, err
	}
	lowest, err := p.LowestQuartile(byProvince)
	if err != nil {
		return nil, err
	}
	lowestProjected, err := p.ProjectAggregates(lowest, rate)
	if err != nil {
		return nil, err
	}

	nationalMean, err := pipeline.Mean(byProvince)
	if err != nil {
		return nil, err
	}

	points, err := s.coverageMap(p, all)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("localities", len(localities)).
		Int("provinces", len(coverage)).
		Float64("quartile_threshold", threshold).
		Int("lowest_quartile", len(lowest)).
		Msg("fiber kpi computed")

	return &contracts.FiberReport{
		Coverage:          coverage,
		QuartileThreshold: threshold,
		LowestCoverage:    lowestProjected,
		Map:               points,
		Cards: contracts.FiberCards{
			NationalMean:     nationalMean,
			Target:           nationalMean * (1 + s.cfg.Fiber.TargetGrowthRate),
			TargetGrowthRate: s.cfg.Fiber.TargetGrowthRate,
		},
		GeneratedAt: s.now(),
	}, nil
}

// coverageMap is the mean fiber indicator per normalized province, in percent
func (s *Service) coverageMap(p *pipeline.Pipeline, all []contracts.Observation) ([]contracts.MapPoint, error) {
	means, err := p.Aggregate(normalizeProvinces(all), contracts.ReducerMean)
	if err != nil {
		return nil, err
	}

	pct := make(contracts.Aggregates, len(means))
	for key, v := range means {
		pct[key] = v * 100
	}
	return mapPoints(pct), nil
}

// localityObservations turns localities into fiber indicator observations:
// fiber holds one row per locality with fiber, all one row per locality
// (Value 1 with fiber, 0 without).
func localityObservations(localities []contracts.Locality) (fiber, all []contracts.Observation) {
	all = make([]contracts.Observation, 0, len(localities))
	for _, l := range localities {
		o := contracts.Observation{Province: l.Province}
		if l.Fiber {
			o.Value = 1
			fiber = append(fiber, o)
		}
		all = append(all, o)
	}
	return fiber, all
}
