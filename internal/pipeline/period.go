package pipeline

import (
	"fmt"
	"sort"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Label formats (year, quarter) as "{year} T{quarter}"
func Label(year, quarter int) string {
	return contracts.Period{Year: year, Quarter: quarter}.Label()
}

// OrderKey returns year*10+quarter. Callers validate 1 <= quarter <= 4 first.
func OrderKey(year, quarter int) int {
	return contracts.Period{Year: year, Quarter: quarter}.OrderKey()
}

// SortObservations returns a copy ordered by (year, quarter), then province.
// Any quarter outside 1..4 fails with InvalidPeriodError.
func SortObservations(obs []contracts.Observation) ([]contracts.Observation, error) {
	if err := validatePeriods(obs); err != nil {
		return nil, err
	}

	sorted := make([]contracts.Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Period().Compare(sorted[j].Period()); c != 0 {
			return c < 0
		}
		return sorted[i].Province < sorted[j].Province
	})

	return sorted, nil
}

// BuildSeries extracts the period-ordered series of one province.
// Duplicate periods fail with InvalidPeriodError; an empty series is valid here.
func BuildSeries(obs []contracts.Observation, province string) (contracts.ProvinceSeries, error) {
	sorted, err := SortObservations(FilterProvince(obs, province))
	if err != nil {
		return contracts.ProvinceSeries{}, err
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Period() == sorted[i-1].Period() {
			p := sorted[i].Period()
			return contracts.ProvinceSeries{}, &contracts.InvalidPeriodError{
				Year:    p.Year,
				Quarter: p.Quarter,
				Reason:  fmt.Sprintf("duplicate period in series of %s", province),
			}
		}
	}

	return contracts.ProvinceSeries{Province: province, Points: sorted}, nil
}

// Provinces returns the distinct province names present, sorted
func Provinces(obs []contracts.Observation) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, o := range obs {
		if _, ok := seen[o.Province]; ok {
			continue
		}
		seen[o.Province] = struct{}{}
		out = append(out, o.Province)
	}
	sort.Strings(out)
	return out
}

// LatestPeriod returns the most recent period present in obs
func LatestPeriod(obs []contracts.Observation) (contracts.Period, error) {
	if len(obs) == 0 {
		return contracts.Period{}, &contracts.InsufficientDataError{
			Stage:  contracts.StagePeriodKeys,
			Reason: "no observations to take the latest period from",
		}
	}
	if err := validatePeriods(obs); err != nil {
		return contracts.Period{}, err
	}

	latest := obs[0].Period()
	for _, o := range obs[1:] {
		if latest.Before(o.Period()) {
			latest = o.Period()
		}
	}
	return latest, nil
}

func validatePeriods(obs []contracts.Observation) error {
	for _, o := range obs {
		if err := o.Period().Validate(); err != nil {
			return err
		}
	}
	return nil
}
