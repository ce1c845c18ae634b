package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

func obs(province string, year, quarter int, value float64) contracts.Observation {
	return contracts.Observation{Province: province, Year: year, Quarter: quarter, Value: value}
}

func TestLabelAndOrderKey(t *testing.T) {
	assert.Equal(t, "2023 T1", Label(2023, 1))
	assert.Equal(t, 20234, OrderKey(2023, 4))

	prev := OrderKey(2022, 4)
	for year := 2023; year <= 2025; year++ {
		for quarter := 1; quarter <= 4; quarter++ {
			key := OrderKey(year, quarter)
			assert.Greater(t, key, prev, "order key must increase at %s", Label(year, quarter))
			prev = key
		}
	}
}

func TestSortObservations(t *testing.T) {
	input := []contracts.Observation{
		obs("salta", 2024, 1, 3),
		obs("chaco", 2023, 4, 2),
		obs("caba", 2024, 1, 4),
		obs("chaco", 2023, 1, 1),
	}

	sorted, err := SortObservations(input)
	require.NoError(t, err)

	labels := make([]string, len(sorted))
	for i, o := range sorted {
		labels[i] = o.Period().Label() + "/" + o.Province
	}
	assert.Equal(t, []string{"2023 T1/chaco", "2023 T4/chaco", "2024 T1/caba", "2024 T1/salta"}, labels)

	// input untouched
	assert.Equal(t, "salta", input[0].Province)
}

func TestSortObservations_InvalidQuarter(t *testing.T) {
	_, err := SortObservations([]contracts.Observation{obs("chaco", 2023, 5, 1)})
	assert.ErrorIs(t, err, contracts.ErrInvalidPeriod)
}

func TestBuildSeries(t *testing.T) {
	input := []contracts.Observation{
		obs("Chaco", 2023, 2, 42),
		obs("Salta", 2023, 1, 10),
		obs("Chaco", 2023, 1, 40),
	}

	series, err := BuildSeries(input, "chaco")
	require.NoError(t, err)

	require.Equal(t, 2, series.Len())
	assert.Equal(t, 1, series.Points[0].Quarter)
	assert.Equal(t, 2, series.Points[1].Quarter)
}

func TestBuildSeries_DuplicatePeriod(t *testing.T) {
	input := []contracts.Observation{
		obs("chaco", 2023, 1, 40),
		obs("chaco", 2023, 1, 41),
	}

	_, err := BuildSeries(input, "chaco")
	assert.ErrorIs(t, err, contracts.ErrInvalidPeriod)
}

func TestLatestPeriod(t *testing.T) {
	latest, err := LatestPeriod([]contracts.Observation{
		obs("a", 2023, 4, 1),
		obs("b", 2024, 1, 1),
		obs("c", 2023, 3, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, contracts.Period{Year: 2024, Quarter: 1}, latest)

	_, err = LatestPeriod(nil)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestProvinces(t *testing.T) {
	got := Provinces([]contracts.Observation{
		obs("salta", 2023, 1, 1),
		obs("caba", 2023, 1, 1),
		obs("salta", 2023, 2, 1),
	})
	assert.Equal(t, []string{"caba", "salta"}, got)
}
