package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"four values q1", []float64{40, 10, 30, 20}, 0.25, 17.5},
		{"single value", []float64{7}, 0.25, 7},
		{"two values", []float64{0, 100}, 0.25, 25},
		{"median odd", []float64{3, 1, 2}, 0.5, 2},
		{"min", []float64{5, 1, 9}, 0, 1},
		{"max", []float64{5, 1, 9}, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quantile(tt.values, tt.p)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestQuantile_Errors(t *testing.T) {
	_, err := Quantile(nil, 0.25)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)

	_, err = Quantile([]float64{1}, 1.5)
	assert.Error(t, err)

	_, err = Quantile([]float64{1, math.Inf(1)}, 0.25)
	assert.ErrorIs(t, err, contracts.ErrDataInconsistency)
}

func TestQuantile_DoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, err := Quantile(values, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestLowestQuartile(t *testing.T) {
	got, err := LowestQuartile(contracts.Aggregates{"a": 10, "b": 20, "c": 30, "d": 40})
	require.NoError(t, err)
	assert.Equal(t, contracts.Aggregates{"a": 10}, got)
}

func TestLowestQuartile_TiesAtThresholdExcluded(t *testing.T) {
	// Q1 of {5,5,5,5} is 5: nothing is strictly below it
	got, err := LowestQuartile(contracts.Aggregates{"a": 5, "b": 5, "c": 5, "d": 5})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLowestQuartile_FewGroups(t *testing.T) {
	// n=2: Q1 = 10 + 0.25*(30-10) = 15
	got, err := LowestQuartile(contracts.Aggregates{"formosa": 10, "caba": 30})
	require.NoError(t, err)
	assert.Equal(t, contracts.Aggregates{"formosa": 10}, got)

	_, err = LowestQuartile(contracts.Aggregates{})
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestLowestQuartile_NonFiniteRejected(t *testing.T) {
	tests := []struct {
		name     string
		aggs     contracts.Aggregates
		wantKeys []string
	}{
		{"nan", contracts.Aggregates{"a": math.NaN(), "b": 20, "c": 30, "d": 40}, []string{"a"}},
		{"inf", contracts.Aggregates{"a": 10, "b": math.Inf(1), "c": math.Inf(-1)}, []string{"b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LowestQuartile(tt.aggs)
			require.ErrorIs(t, err, contracts.ErrDataInconsistency)
			assert.Nil(t, got)

			var inconsistency *contracts.DataInconsistencyError
			require.ErrorAs(t, err, &inconsistency)
			assert.Equal(t, contracts.StageOutlier, inconsistency.Stage)
			assert.Equal(t, tt.wantKeys, inconsistency.Keys)
		})
	}
}
