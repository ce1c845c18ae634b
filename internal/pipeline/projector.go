package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// ErrInvalidGrowthRate rejects NaN, infinities and rates <= -100%
var ErrInvalidGrowthRate = errors.New("growth rate must be finite and greater than -1")

// ValidateGrowthRate checks a multiplicative growth rate (0.02 = +2%)
func ValidateGrowthRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= -1 {
		return fmt.Errorf("%w: %v", ErrInvalidGrowthRate, rate)
	}
	return nil
}

// Projector appends one synthetic point: last value * (1 + rate) at the next quarter.
//
// This is a naive single-step projection with a caller-supplied rate.
// It is NOT a forecast and infers nothing from the historical trend.
type Projector struct {
	log zerolog.Logger
}

// NewProjector creates a projector
func NewProjector(log zerolog.Logger) *Projector {
	return &Projector{
		log: log.With().Str("component", "pipeline.projector").Logger(),
	}
}

// Project returns a new series ending in exactly one projected point.
// A projected point already present is discarded first, so repeated calls
// yield the same series. An empty series fails with InsufficientDataError.
func (p *Projector) Project(series contracts.ProvinceSeries, rate float64) (contracts.ProvinceSeries, error) {
	if err := ValidateGrowthRate(rate); err != nil {
		return contracts.ProvinceSeries{}, err
	}

	history := series.Historical()
	if len(history) == 0 {
		return contracts.ProvinceSeries{}, &contracts.InsufficientDataError{
			Stage:  contracts.StageProject,
			Reason: fmt.Sprintf("no historical points for %q", series.Province),
		}
	}

	for i := 1; i < len(history); i++ {
		if !history[i-1].Period().Before(history[i].Period()) {
			return contracts.ProvinceSeries{}, &contracts.InvalidPeriodError{
				Year:    history[i].Year,
				Quarter: history[i].Quarter,
				Reason:  "series is not strictly ascending",
			}
		}
	}

	last := history[len(history)-1]
	if err := last.Period().Validate(); err != nil {
		return contracts.ProvinceSeries{}, err
	}
	next := last.Period().Next()

	projected := contracts.Observation{
		Province:  last.Province,
		Year:      next.Year,
		Quarter:   next.Quarter,
		Value:     last.Value * (1 + rate),
		Projected: true,
	}

	p.log.Debug().
		Str("province", series.Province).
		Str("anchor", last.Period().Label()).
		Str("period", next.Label()).
		Float64("growth_rate", rate).
		Float64("value", projected.Value).
		Msg("projected")

	return contracts.ProvinceSeries{
		Province: series.Province,
		Points:   append(history, projected),
	}, nil
}

// ProjectAggregates applies the same factor to every group, sorted by key
func (p *Projector) ProjectAggregates(aggs contracts.Aggregates, rate float64) ([]contracts.ProjectedAggregate, error) {
	if err := ValidateGrowthRate(rate); err != nil {
		return nil, err
	}

	sorted := aggs.Sorted()
	out := make([]contracts.ProjectedAggregate, len(sorted))
	for i, agg := range sorted {
		out[i] = contracts.ProjectedAggregate{
			Key:        agg.Key,
			Current:    agg.Value,
			Projected:  agg.Value * (1 + rate),
			GrowthRate: rate,
		}
	}
	return out, nil
}

// ProjectLatest takes the most recent period in obs, averages it per province
// and projects each province value by rate.
func (p *Projector) ProjectLatest(agg *Aggregator, obs []contracts.Observation, rate float64) (contracts.Period, []contracts.ProjectedAggregate, error) {
	latest, err := LatestPeriod(obs)
	if err != nil {
		return contracts.Period{}, nil, err
	}

	current, err := agg.Aggregate(FilterPeriod(obs, latest), contracts.DimensionProvince, contracts.ReducerMean)
	if err != nil {
		return contracts.Period{}, nil, err
	}

	projected, err := p.ProjectAggregates(current, rate)
	if err != nil {
		return contracts.Period{}, nil, err
	}
	return latest, projected, nil
}
