package pipeline

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// RatioCalculator computes numerator/denominator*100 per group
type RatioCalculator struct {
	strict bool
	log    zerolog.Logger
}

// NewRatioCalculator creates a calculator. A strict calculator fails on
// numerator-only groups instead of logging and dropping them.
func NewRatioCalculator(strict bool, log zerolog.Logger) *RatioCalculator {
	return &RatioCalculator{
		strict: strict,
		log:    log.With().Str("component", "pipeline.ratio").Logger(),
	}
}

// Ratio joins two aggregates on group key.
//   - key in both: num/den*100
//   - key only in den: 0%
//   - den == 0: excluded
//   - key only in num: data inconsistency (warned and excluded, or an error when strict)
//
// Results are sorted ascending by percentage, then key.
func (r *RatioCalculator) Ratio(num, den contracts.Aggregates) ([]contracts.RatioResult, error) {
	var orphans []string
	for key := range num {
		if _, ok := den[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)

	if len(orphans) > 0 {
		if r.strict {
			return nil, &contracts.DataInconsistencyError{Stage: contracts.StageRatio, Keys: orphans}
		}
		r.log.Warn().
			Strs("groups", orphans).
			Msg("numerator groups without denominator excluded")
	}

	results := make([]contracts.RatioResult, 0, len(den))
	excluded := 0
	for key, d := range den {
		if d == 0 {
			excluded++
			continue
		}
		n := num[key] // zero when absent
		results = append(results, contracts.RatioResult{
			Key:         key,
			Numerator:   n,
			Denominator: d,
			Percentage:  n / d * 100,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Percentage != results[j].Percentage {
			return results[i].Percentage < results[j].Percentage
		}
		return results[i].Key < results[j].Key
	})

	if excluded > 0 {
		r.log.Debug().Int("groups", excluded).Msg("zero-denominator groups excluded")
	}

	return results, nil
}

// RatioAggregates converts ratio results back into key -> percentage
func RatioAggregates(results []contracts.RatioResult) contracts.Aggregates {
	out := make(contracts.Aggregates, len(results))
	for _, r := range results {
		out[r.Key] = r.Percentage
	}
	return out
}
