package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	lite, err := NewSQLite(filepath.Join(t.TempDir(), "telecom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })
	return lite
}

func TestNewSQLite_RequiresPath(t *testing.T) {
	_, err := NewSQLite("")
	assert.Error(t, err)
}

func TestSQLite_WriteAndRead(t *testing.T) {
	ctx := context.Background()
	lite := newTestSQLite(t)

	require.NoError(t, lite.WriteDataset(ctx, fixtureDataset()))
	require.NoError(t, lite.Ping(ctx))

	internet, err := lite.InternetPenetration(ctx)
	require.NoError(t, err)
	require.Len(t, internet, 4)
	assert.Equal(t, contracts.Observation{Province: "CABA", Year: 2023, Quarter: 1, Value: 100}, internet[0])

	localities, err := lite.Localities(ctx)
	require.NoError(t, err)
	require.Len(t, localities, 3, "localities without fiber or wireless are not part of the map")
	for _, l := range localities {
		assert.True(t, l.Fiber || l.Wireless)
	}

	mobile, err := lite.MobileAccesses(ctx)
	require.NoError(t, err)
	require.Len(t, mobile, 2)
	assert.Equal(t, int64(8397205), mobile[1].Postpaid)
}

func TestSQLite_WriteIsUpsert(t *testing.T) {
	ctx := context.Background()
	lite := newTestSQLite(t)

	ds := fixtureDataset()
	require.NoError(t, lite.WriteDataset(ctx, ds))

	ds.Internet[0].Value = 41.5
	require.NoError(t, lite.WriteDataset(ctx, ds))

	internet, err := lite.InternetPenetration(ctx)
	require.NoError(t, err)
	require.Len(t, internet, 4)

	for _, o := range internet {
		if o.Province == "Chaco" && o.Quarter == 1 {
			assert.Equal(t, 41.5, o.Value)
		}
	}
}

func TestSQLite_RejectsInvalidQuarter(t *testing.T) {
	lite := newTestSQLite(t)

	err := lite.WriteDataset(context.Background(), contracts.Dataset{
		Mobile: []contracts.MobileAccess{{Year: 2024, Quarter: 5, Postpaid: 1}},
	})
	assert.ErrorIs(t, err, contracts.ErrInvalidPeriod)
}
