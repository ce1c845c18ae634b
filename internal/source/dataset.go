package source

import (
	"sort"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// datasetProvinces returns the distinct province names referenced by ds
func datasetProvinces(ds contracts.Dataset) []string {
	seen := make(map[string]struct{})
	for _, o := range ds.Internet {
		seen[o.Province] = struct{}{}
	}
	for _, l := range ds.Localities {
		seen[l.Province] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// datasetPeriods returns the distinct periods referenced by ds, ascending
func datasetPeriods(ds contracts.Dataset) []contracts.Period {
	seen := make(map[contracts.Period]struct{})
	for _, o := range ds.Internet {
		seen[o.Period()] = struct{}{}
	}
	for _, m := range ds.Mobile {
		seen[m.Period()] = struct{}{}
	}

	out := make([]contracts.Period, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// validateDataset rejects rows that would break the period ordering
func validateDataset(ds contracts.Dataset) error {
	for _, p := range datasetPeriods(ds) {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
