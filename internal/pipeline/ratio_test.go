package pipeline

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

func TestRatio_DenominatorOnlyIsZero(t *testing.T) {
	calc := NewRatioCalculator(false, zerolog.Nop())

	got, err := calc.Ratio(
		contracts.Aggregates{"salta": 3},
		contracts.Aggregates{"salta": 12, "jujuy": 5},
	)
	require.NoError(t, err)

	assert.Equal(t, []contracts.RatioResult{
		{Key: "jujuy", Numerator: 0, Denominator: 5, Percentage: 0},
		{Key: "salta", Numerator: 3, Denominator: 12, Percentage: 25},
	}, got)
}

func TestRatio_ZeroDenominatorExcluded(t *testing.T) {
	calc := NewRatioCalculator(false, zerolog.Nop())

	got, err := calc.Ratio(contracts.Aggregates{}, contracts.Aggregates{"chubut": 0, "salta": 4})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "salta", got[0].Key)
}

func TestRatio_NumeratorOnly(t *testing.T) {
	num := contracts.Aggregates{"salta": 3, "tucuman": 2}
	den := contracts.Aggregates{"salta": 12}

	t.Run("lenient logs and excludes", func(t *testing.T) {
		var buf bytes.Buffer
		calc := NewRatioCalculator(false, zerolog.New(&buf))

		got, err := calc.Ratio(num, den)
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, "salta", got[0].Key)
		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), "tucuman")
	})

	t.Run("strict fails", func(t *testing.T) {
		calc := NewRatioCalculator(true, zerolog.Nop())

		_, err := calc.Ratio(num, den)
		require.ErrorIs(t, err, contracts.ErrDataInconsistency)

		var inconsistency *contracts.DataInconsistencyError
		require.ErrorAs(t, err, &inconsistency)
		assert.Equal(t, []string{"tucuman"}, inconsistency.Keys)
	})
}

func TestRatio_WithinBounds(t *testing.T) {
	agg := NewAggregator(zerolog.Nop())
	calc := NewRatioCalculator(true, zerolog.Nop())

	var localities, withFiber []contracts.Observation
	for i, province := range []string{"a", "a", "a", "b", "b", "c", "d", "d", "d", "d"} {
		o := contracts.Observation{Province: province, Value: float64(i % 2)}
		localities = append(localities, o)
		if o.Value == 1 {
			withFiber = append(withFiber, o)
		}
	}

	num, err := agg.Aggregate(withFiber, contracts.DimensionProvince, contracts.ReducerCount)
	require.NoError(t, err)
	den, err := agg.Aggregate(localities, contracts.DimensionProvince, contracts.ReducerCount)
	require.NoError(t, err)

	got, err := calc.Ratio(num, den)
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i, r := range got {
		assert.GreaterOrEqual(t, r.Percentage, 0.0)
		assert.LessOrEqual(t, r.Percentage, 100.0)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].Percentage, r.Percentage, "ascending order")
		}
	}

	want := contracts.Aggregates{"a": 100.0 / 3, "b": 50, "c": 100, "d": 50}
	byKey := RatioAggregates(got)
	for k, v := range want {
		assert.InDelta(t, v, byKey[k], 1e-9, k)
	}
}
