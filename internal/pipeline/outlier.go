package pipeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Quantile returns the p-quantile (0 <= p <= 1) by linear interpolation
// between order statistics: h = (n-1)*p, v = x[floor h] + (h - floor h)*(x[ceil h] - x[floor h]).
// This is the Hyndman-Fan type 7 estimator.
func Quantile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, &contracts.InsufficientDataError{
			Stage:  contracts.StageOutlier,
			Reason: "quantile of no values",
		}
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%s: quantile %v outside [0, 1]", contracts.StageOutlier, p)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &contracts.DataInconsistencyError{
				Stage:  contracts.StageOutlier,
				Reason: fmt.Sprintf("non-finite value %v", v),
			}
		}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))

	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo]), nil
}

// LowestQuartile returns the groups strictly below the first quartile.
// Groups equal to the threshold are excluded. A NaN or infinite group
// value is a DataInconsistencyError naming the offending groups.
func LowestQuartile(aggs contracts.Aggregates) (contracts.Aggregates, error) {
	var bad []string
	for key, v := range aggs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, &contracts.DataInconsistencyError{
			Stage:  contracts.StageOutlier,
			Keys:   bad,
			Reason: "non-finite aggregate values",
		}
	}

	q1, err := Quantile(aggs.Values(), 0.25)
	if err != nil {
		return nil, err
	}

	out := make(contracts.Aggregates)
	for key, v := range aggs {
		if v < q1 {
			out[key] = v
		}
	}
	return out, nil
}
