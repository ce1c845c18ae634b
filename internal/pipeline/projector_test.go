package pipeline

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

func chacoSeries(t *testing.T) contracts.ProvinceSeries {
	t.Helper()
	series, err := BuildSeries(FilterMinYear([]contracts.Observation{
		obs("chaco", 2023, 1, 40.0),
		obs("chaco", 2023, 2, 42.0),
	}, 2023), "chaco")
	require.NoError(t, err)
	return series
}

func TestProject_Chaco(t *testing.T) {
	p := NewProjector(zerolog.Nop())

	got, err := p.Project(chacoSeries(t), 0.02)
	require.NoError(t, err)

	require.Equal(t, 3, got.Len())
	last, _ := got.Last()
	assert.True(t, last.Projected)
	assert.Equal(t, "chaco", last.Province)
	assert.Equal(t, contracts.Period{Year: 2023, Quarter: 3}, last.Period())
	assert.InDelta(t, 42.84, last.Value, 1e-9)

	for _, pt := range got.Points[:2] {
		assert.False(t, pt.Projected)
	}
}

func TestProject_Idempotent(t *testing.T) {
	p := NewProjector(zerolog.Nop())
	original := chacoSeries(t)

	once, err := p.Project(original, 0.02)
	require.NoError(t, err)
	twice, err := p.Project(once, 0.02)
	require.NoError(t, err)
	again, err := p.Project(original, 0.02)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, once, again)
	assert.Equal(t, 2, original.Len(), "input series untouched")

	projected := 0
	for _, pt := range twice.Points {
		if pt.Projected {
			projected++
		}
	}
	assert.Equal(t, 1, projected)
}

func TestProject_YearRollover(t *testing.T) {
	p := NewProjector(zerolog.Nop())
	series := contracts.ProvinceSeries{
		Province: "salta",
		Points:   []contracts.Observation{obs("salta", 2023, 4, 100)},
	}

	got, err := p.Project(series, 0.05)
	require.NoError(t, err)

	last, _ := got.Last()
	assert.Equal(t, "2024 T1", last.Period().Label())
	assert.InDelta(t, 105.0, last.Value, 1e-9)
}

func TestProject_Errors(t *testing.T) {
	p := NewProjector(zerolog.Nop())

	t.Run("empty series", func(t *testing.T) {
		_, err := p.Project(contracts.ProvinceSeries{Province: "jujuy"}, 0.02)
		require.ErrorIs(t, err, contracts.ErrInsufficientData)

		var insufficient *contracts.InsufficientDataError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, contracts.StageProject, insufficient.Stage)
	})

	t.Run("only a projected point", func(t *testing.T) {
		series := contracts.ProvinceSeries{Points: []contracts.Observation{{Year: 2024, Quarter: 1, Projected: true}}}
		_, err := p.Project(series, 0.02)
		assert.ErrorIs(t, err, contracts.ErrInsufficientData)
	})

	t.Run("unsorted series", func(t *testing.T) {
		series := contracts.ProvinceSeries{Points: []contracts.Observation{obs("a", 2024, 2, 1), obs("a", 2024, 1, 1)}}
		_, err := p.Project(series, 0.02)
		assert.ErrorIs(t, err, contracts.ErrInvalidPeriod)
	})

	for _, rate := range []float64{math.NaN(), math.Inf(1), -1, -2} {
		_, err := p.Project(chacoSeries(t), rate)
		assert.ErrorIs(t, err, ErrInvalidGrowthRate, "rate %v", rate)
	}
}

func TestProjectAggregates(t *testing.T) {
	p := NewProjector(zerolog.Nop())

	got, err := p.ProjectAggregates(contracts.Aggregates{"formosa": 10, "chaco": 20}, 0.30)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "chaco", got[0].Key)
	assert.InDelta(t, 26.0, got[0].Projected, 1e-9)
	assert.InDelta(t, 13.0, got[1].Projected, 1e-9)
	assert.Equal(t, 0.30, got[1].GrowthRate)
}

func TestProjectLatest(t *testing.T) {
	p := NewProjector(zerolog.Nop())
	agg := NewAggregator(zerolog.Nop())

	latest, got, err := p.ProjectLatest(agg, []contracts.Observation{
		obs("caba", 2023, 4, 100),
		obs("caba", 2024, 1, 120),
		obs("salta", 2024, 1, 50),
		obs("jujuy", 2023, 4, 40),
	}, 0.02)
	require.NoError(t, err)

	assert.Equal(t, "2024 T1", latest.Label())
	require.Len(t, got, 2, "provinces without the latest period are left out")
	assert.Equal(t, "caba", got[0].Key)
	assert.InDelta(t, 122.4, got[0].Projected, 1e-9)

	_, _, err = p.ProjectLatest(agg, nil, 0.02)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}
