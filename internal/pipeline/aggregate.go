package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Aggregator groups observations by a dimension and reduces each group
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{
		log: log.With().Str("component", "pipeline.aggregator").Logger(),
	}
}

// Aggregate returns one entry per group present in obs.
// Groups absent from the input get no entry; empty input yields empty Aggregates.
func (a *Aggregator) Aggregate(obs []contracts.Observation, dim contracts.Dimension, reducer contracts.Reducer) (contracts.Aggregates, error) {
	if !dim.Valid() {
		return nil, fmt.Errorf("%s: unknown dimension %q", contracts.StageAggregate, dim)
	}
	if !reducer.Valid() {
		return nil, fmt.Errorf("%s: unknown reducer %q", contracts.StageAggregate, reducer)
	}

	groups := groupByKey(obs, dim.KeyOf)

	out := make(contracts.Aggregates, len(groups))
	for key, group := range groups {
		out[key] = reduce(group, reducer)
	}

	a.log.Debug().
		Str("dimension", string(dim)).
		Str("reducer", string(reducer)).
		Int("observations", len(obs)).
		Int("groups", len(out)).
		Msg("aggregated")

	return out, nil
}

func reduce(group []contracts.Observation, reducer contracts.Reducer) float64 {
	switch reducer {
	case contracts.ReducerCount:
		return float64(len(group))
	case contracts.ReducerSum:
		return sum(group)
	default:
		return sum(group) / float64(len(group))
	}
}

func sum(group []contracts.Observation) float64 {
	var total float64
	for _, o := range group {
		total += o.Value
	}
	return total
}

// groupByKey groups observations by keyFn
func groupByKey(obs []contracts.Observation, keyFn func(contracts.Observation) string) map[string][]contracts.Observation {
	groups := make(map[string][]contracts.Observation)
	for _, o := range obs {
		key := keyFn(o)
		groups[key] = append(groups[key], o)
	}
	return groups
}

// Mean returns the arithmetic mean of the aggregate values
func Mean(aggs contracts.Aggregates) (float64, error) {
	if len(aggs) == 0 {
		return 0, &contracts.InsufficientDataError{
			Stage:  contracts.StageAggregate,
			Reason: "mean of no groups",
		}
	}
	var total float64
	for _, v := range aggs.Values() {
		total += v
	}
	return total / float64(len(aggs)), nil
}
