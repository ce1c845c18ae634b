// Package pipeline is the metric transformation engine shared by every KPI:
// filter → period keys → aggregate / ratio → projection → lowest quartile.
// Every stage returns a new value and never mutates its input.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Options are the recognized pipeline parameters
type Options struct {
	MinYear     int                 `json:"min_year"`
	GrowthRate  float64             `json:"growth_rate"`
	GroupBy     contracts.Dimension `json:"group_dimension"`
	RatioStrict bool                `json:"ratio_strict"`
}

// Validate checks the options; an empty GroupBy means province
func (o Options) Validate() error {
	if o.MinYear < 0 {
		return fmt.Errorf("min_year must be >= 0, got %d", o.MinYear)
	}
	if err := ValidateGrowthRate(o.GrowthRate); err != nil {
		return err
	}
	if o.GroupBy != "" && !o.GroupBy.Valid() {
		return fmt.Errorf("group_dimension must be province or period, got %q", o.GroupBy)
	}
	return nil
}

// Pipeline bundles the stages configured with one set of Options
type Pipeline struct {
	opts       Options
	aggregator *Aggregator
	ratio      *RatioCalculator
	projector  *Projector
	log        zerolog.Logger
}

// New validates opts and builds a pipeline
func New(log zerolog.Logger, opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline options: %w", err)
	}
	if opts.GroupBy == "" {
		opts.GroupBy = contracts.DimensionProvince
	}

	return &Pipeline{
		opts:       opts,
		aggregator: NewAggregator(log),
		ratio:      NewRatioCalculator(opts.RatioStrict, log),
		projector:  NewProjector(log),
		log:        log.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Options returns the options the pipeline was built with
func (p *Pipeline) Options() Options {
	return p.opts
}

// Filter applies the min_year cutoff
func (p *Pipeline) Filter(obs []contracts.Observation) []contracts.Observation {
	out := FilterMinYear(obs, p.opts.MinYear)
	p.log.Debug().
		Int("min_year", p.opts.MinYear).
		Int("in", len(obs)).
		Int("out", len(out)).
		Msg("filtered")
	return out
}

// Sorted filters then orders by period
func (p *Pipeline) Sorted(obs []contracts.Observation) ([]contracts.Observation, error) {
	return SortObservations(p.Filter(obs))
}

// Series filters then builds the series of one province
func (p *Pipeline) Series(obs []contracts.Observation, province string) (contracts.ProvinceSeries, error) {
	return BuildSeries(p.Filter(obs), province)
}

// Aggregate reduces obs grouped by the configured dimension
func (p *Pipeline) Aggregate(obs []contracts.Observation, reducer contracts.Reducer) (contracts.Aggregates, error) {
	return p.aggregator.Aggregate(obs, p.opts.GroupBy, reducer)
}

// Ratio joins numerator and denominator aggregates
func (p *Pipeline) Ratio(num, den contracts.Aggregates) ([]contracts.RatioResult, error) {
	return p.ratio.Ratio(num, den)
}

// Project appends the configured growth-rate projection
func (p *Pipeline) Project(series contracts.ProvinceSeries) (contracts.ProvinceSeries, error) {
	return p.projector.Project(series, p.opts.GrowthRate)
}

// ProjectAggregates projects every group by rate
func (p *Pipeline) ProjectAggregates(aggs contracts.Aggregates, rate float64) ([]contracts.ProjectedAggregate, error) {
	return p.projector.ProjectAggregates(aggs, rate)
}

// ProjectLatest projects the latest period per province by the configured rate
func (p *Pipeline) ProjectLatest(obs []contracts.Observation) (contracts.Period, []contracts.ProjectedAggregate, error) {
	return p.projector.ProjectLatest(p.aggregator, obs, p.opts.GrowthRate)
}

// LowestQuartile selects the groups strictly below Q1
func (p *Pipeline) LowestQuartile(aggs contracts.Aggregates) (contracts.Aggregates, error) {
	return LowestQuartile(aggs)
}
