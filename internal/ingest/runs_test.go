package ingest

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStore connects to DATABASE_URL (migrated schema) or skips
func runStore(t *testing.T) *RunStore {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewRunStore(pool)
}

func TestRunStore_Lifecycle(t *testing.T) {
	store := runStore(t)
	ctx := context.Background()

	ok := uuid.New()
	require.NoError(t, store.Start(ctx, ok, "enacom_test", time.Now()))
	require.NoError(t, store.Finish(ctx, ok, 42, nil))

	failed := uuid.New()
	require.NoError(t, store.Start(ctx, failed, "enacom_test", time.Now().Add(time.Second)))
	require.NoError(t, store.Finish(ctx, failed, 0, errors.New("portal down")))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)

	byID := make(map[uuid.UUID]Run)
	for _, r := range runs {
		byID[r.ID] = r
	}

	require.Contains(t, byID, ok)
	assert.Equal(t, StatusSuccess, byID[ok].Status)
	assert.Equal(t, 42, byID[ok].RowsLoaded)
	assert.NotNil(t, byID[ok].FinishedAt)

	require.Contains(t, byID, failed)
	assert.Equal(t, StatusFailed, byID[failed].Status)
	assert.Equal(t, "portal down", byID[failed].Error)
}
