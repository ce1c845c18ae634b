package ingest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// completeDataset has every province in 2024 T1 plus one earlier period
func completeDataset() contracts.Dataset {
	var ds contracts.Dataset
	for i, p := range contracts.Provinces() {
		ds.Internet = append(ds.Internet,
			contracts.Observation{Province: p.Name, Year: 2023, Quarter: 4, Value: 50},
			contracts.Observation{Province: p.Name, Year: 2024, Quarter: 1, Value: 52},
		)
		ds.Localities = append(ds.Localities, contracts.Locality{ID: int64(i + 1), Name: p.Name, Province: p.Name})
	}
	ds.Mobile = []contracts.MobileAccess{
		{Year: 2023, Quarter: 4, Postpaid: 8301200, Prepaid: 52500000},
		{Year: 2024, Quarter: 1, Postpaid: 8398514, Prepaid: 52000000},
	}
	return ds
}

func TestQualityGate_Complete(t *testing.T) {
	snapshot, err := NewQualityGate(QualityConfig{MinScore: 0.9}).Check(completeDataset())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, snapshot.Score, 1e-9)
	assert.Equal(t, "2024 T1", snapshot.LatestPeriod)
	assert.Empty(t, snapshot.MissingInternet)
	assert.Empty(t, snapshot.Unresolved)
	for key := range qualityWeights {
		assert.InDelta(t, 1.0, snapshot.Coverage[key], 1e-9, key)
	}
}

func TestQualityGate_PartialCoverage(t *testing.T) {
	ds := completeDataset()
	// drop Tucumán from the latest period and the 2023 T4 mobile total
	ds.Internet = ds.Internet[:len(ds.Internet)-1]
	ds.Mobile = ds.Mobile[1:]
	ds.Localities = append(ds.Localities, contracts.Locality{ID: 99, Name: "X", Province: "Atlantis"})

	snapshot, err := NewQualityGate(QualityConfig{MinScore: 0.5}).Check(ds)
	require.NoError(t, err)

	assert.InDelta(t, 23.0/24.0, snapshot.Coverage["internet"], 1e-9)
	assert.Equal(t, []string{"Tucumán"}, snapshot.MissingInternet)
	assert.InDelta(t, 0.5, snapshot.Coverage["mobile"], 1e-9)
	assert.Equal(t, []string{"Atlantis"}, snapshot.Unresolved)
	assert.Less(t, snapshot.Score, 1.0)
}

func TestQualityGate_BelowThreshold(t *testing.T) {
	snapshot, err := NewQualityGate(QualityConfig{MinScore: 0.5}).Check(sampleDataset())

	assert.ErrorIs(t, err, contracts.ErrDataInconsistency)
	require.NotNil(t, snapshot)
	assert.InDelta(t, 0.35/24+0.2+0.2, snapshot.Score, 1e-9)
	assert.Len(t, snapshot.MissingInternet, 23)
}

func TestLoader_QualityGate(t *testing.T) {
	writer := &memoryWriter{}
	gate := NewQualityGate(QualityConfig{MinScore: 0.5})

	rejected := NewLoader("enacom", staticFetcher{ds: sampleDataset()}, writer, zerolog.Nop()).WithQualityGate(gate)
	_, err := rejected.Run(context.Background())
	assert.ErrorIs(t, err, contracts.ErrDataInconsistency)
	assert.Empty(t, writer.written)

	accepted := NewLoader("enacom", staticFetcher{ds: completeDataset()}, writer, zerolog.Nop()).WithQualityGate(gate)
	result, err := accepted.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Quality)
	assert.InDelta(t, 1.0, result.Quality.Score, 1e-9)
	assert.Len(t, writer.written, 1)
}
