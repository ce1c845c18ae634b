package pipeline

import "github.com/wonny/telecom-kpi/internal/contracts"

// FilterMinYear keeps observations with Year >= minYear.
// Returns a new slice; an empty result is valid.
func FilterMinYear(obs []contracts.Observation, minYear int) []contracts.Observation {
	return filter(obs, func(o contracts.Observation) bool { return o.Year >= minYear })
}

// FilterYear keeps observations of exactly one year
func FilterYear(obs []contracts.Observation, year int) []contracts.Observation {
	return filter(obs, func(o contracts.Observation) bool { return o.Year == year })
}

// FilterPeriod keeps observations of exactly one period
func FilterPeriod(obs []contracts.Observation, p contracts.Period) []contracts.Observation {
	return filter(obs, func(o contracts.Observation) bool { return o.Period() == p })
}

// FilterProvince keeps observations of one province, matched by normalized name
func FilterProvince(obs []contracts.Observation, province string) []contracts.Observation {
	key := contracts.NormalizeProvince(province)
	return filter(obs, func(o contracts.Observation) bool {
		return contracts.NormalizeProvince(o.Province) == key
	})
}

func filter(obs []contracts.Observation, keep func(contracts.Observation) bool) []contracts.Observation {
	out := make([]contracts.Observation, 0, len(obs))
	for _, o := range obs {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
