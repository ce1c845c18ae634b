package kpi

import (
	"context"
	"fmt"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/pipeline"
)

// nationalSeries is the series key of country-wide mobile totals
const nationalSeries = "Argentina"

// computeMobile builds KPI 3: the national postpaid series since min_year with its
// projected next quarter, the headline cards and the postpaid/prepaid split
// of the distribution year.
func (s *Service) computeMobile(ctx context.Context, params Params) (*contracts.MobileReport, error) {
	minYear, rate, err := params.resolve(s.cfg.Mobile.MinYear, s.cfg.Mobile.GrowthRate)
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline(minYear, rate)
	if err != nil {
		return nil, err
	}

	rows, err := s.src.MobileAccesses(ctx)
	if err != nil {
		return nil, err
	}
	postpaid, prepaid := mobileObservations(rows)

	series, err := p.Series(postpaid, nationalSeries)
	if err != nil {
		return nil, err
	}
	projected, err := p.Project(series)
	if err != nil {
		return nil, err
	}

	current, _ := series.Last()
	next, _ := projected.Projection()

	dist, err := s.distribution(p, postpaid, prepaid)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("min_year", minYear).
		Float64("growth_rate", rate).
		Str("current_period", current.Period().Label()).
		Float64("projected", next.Value).
		Msg("mobile kpi computed")

	return &contracts.MobileReport{
		MinYear:    minYear,
		GrowthRate: rate,
		Evolution:  contracts.Labeled(projected.Points),
		Cards: contracts.MobileCards{
			CurrentPeriod:   current.Period().Label(),
			Current:         current.Value,
			ProjectedPeriod: next.Period().Label(),
			Projected:       next.Value,
			Delta:           next.Value - current.Value,
		},
		Distribution: dist,
		GeneratedAt:  s.now(),
	}, nil
}

// distribution sums postpaid and prepaid accesses over the distribution year
func (s *Service) distribution(p *pipeline.Pipeline, postpaid, prepaid []contracts.Observation) (contracts.MobileDistribution, error) {
	year := s.cfg.Mobile.DistributionYear

	post, err := p.Aggregate(pipeline.FilterYear(postpaid, year), contracts.ReducerSum)
	if err != nil {
		return contracts.MobileDistribution{}, err
	}
	pre, err := p.Aggregate(pipeline.FilterYear(prepaid, year), contracts.ReducerSum)
	if err != nil {
		return contracts.MobileDistribution{}, err
	}

	total := post[nationalSeries] + pre[nationalSeries]
	if total == 0 {
		return contracts.MobileDistribution{}, &contracts.InsufficientDataError{
			Stage:  contracts.StageAggregate,
			Reason: fmt.Sprintf("no mobile accesses in %d", year),
		}
	}

	return contracts.MobileDistribution{
		Year:          year,
		Postpaid:      post[nationalSeries],
		Prepaid:       pre[nationalSeries],
		PostpaidShare: post[nationalSeries] / total * 100,
		PrepaidShare:  pre[nationalSeries] / total * 100,
	}, nil
}

// mobileObservations splits national mobile rows into two series
func mobileObservations(rows []contracts.MobileAccess) (postpaid, prepaid []contracts.Observation) {
	postpaid = make([]contracts.Observation, len(rows))
	prepaid = make([]contracts.Observation, len(rows))
	for i, r := range rows {
		base := contracts.Observation{Province: nationalSeries, Year: r.Year, Quarter: r.Quarter}

		postpaid[i] = base
		postpaid[i].Value = float64(r.Postpaid)

		prepaid[i] = base
		prepaid[i].Value = float64(r.Prepaid)
	}
	return postpaid, prepaid
}
