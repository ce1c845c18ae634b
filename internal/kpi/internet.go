package kpi

import (
	"context"
	"fmt"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/pipeline"
)

// computeInternet builds KPI 1: accesses per 100 households per province since
// min_year, the latest period of every province against its projection and
// the per-province map layer.
func (s *Service) computeInternet(ctx context.Context, params Params) (*contracts.InternetReport, error) {
	minYear, rate, err := params.resolve(s.cfg.Internet.MinYear, s.cfg.Internet.GrowthRate)
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline(minYear, rate)
	if err != nil {
		return nil, err
	}

	obs, err := s.src.InternetPenetration(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := p.Sorted(obs)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, &contracts.InsufficientDataError{
			Stage:  contracts.StageFilter,
			Reason: fmt.Sprintf("no internet penetration rows since %d", minYear),
		}
	}

	latest, comparison, err := p.ProjectLatest(recent)
	if err != nil {
		return nil, err
	}

	points, err := s.penetrationMap(p, obs)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("min_year", minYear).
		Float64("growth_rate", rate).
		Int("rows", len(recent)).
		Str("latest_period", latest.Label()).
		Msg("internet kpi computed")

	return &contracts.InternetReport{
		MinYear:      minYear,
		GrowthRate:   rate,
		Penetration:  contracts.Labeled(recent),
		LatestPeriod: latest.Label(),
		Comparison:   comparison,
		Map:          points,
		Provinces:    pipeline.Provinces(recent),
		GeneratedAt:  s.now(),
	}, nil
}

// InternetEvolution returns one province's series since min_year with the
// projected next quarter appended.
func (s *Service) InternetEvolution(ctx context.Context, province string, params Params) (*contracts.ProvinceEvolution, error) {
	minYear, rate, err := params.resolve(s.cfg.Internet.MinYear, s.cfg.Internet.GrowthRate)
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline(minYear, rate)
	if err != nil {
		return nil, err
	}

	obs, err := s.src.InternetPenetration(ctx)
	if err != nil {
		return nil, err
	}

	series, err := p.Series(obs, province)
	if err != nil {
		return nil, err
	}
	if first, ok := firstPoint(series); ok {
		// report the spelling stored in the source, not the one requested
		series.Province = first.Province
	}
	projected, err := p.Project(series)
	if err != nil {
		return nil, err
	}

	return &contracts.ProvinceEvolution{
		Province:   projected.Province,
		GrowthRate: rate,
		Points:     contracts.Labeled(projected.Points),
	}, nil
}

// penetrationMap averages every province since map_min_year
func (s *Service) penetrationMap(p *pipeline.Pipeline, obs []contracts.Observation) ([]contracts.MapPoint, error) {
	recent := normalizeProvinces(pipeline.FilterMinYear(obs, s.cfg.Internet.MapMinYear))
	if len(recent) == 0 {
		return []contracts.MapPoint{}, nil
	}

	means, err := p.Aggregate(recent, contracts.ReducerMean)
	if err != nil {
		return nil, err
	}
	return mapPoints(means), nil
}
