package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

func TestGuarded_PassesThrough(t *testing.T) {
	stub := &stubSource{ds: fixtureDataset()}
	g := WithTimeout(stub, time.Second, zerolog.Nop())

	rows, err := g.InternetPenetration(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "stub", g.Name())
}

func TestGuarded_TimeoutIsUnavailable(t *testing.T) {
	stub := &stubSource{ds: fixtureDataset(), delay: time.Second}
	g := WithTimeout(stub, 20*time.Millisecond, zerolog.Nop())

	_, err := g.MobileAccesses(context.Background())
	require.ErrorIs(t, err, contracts.ErrDataUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var unavailable *contracts.DataUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, QueryMobile, unavailable.Query)
	assert.Equal(t, "stub", unavailable.Source)
}

func TestGuarded_FailureIsUnavailable(t *testing.T) {
	stub := &stubSource{err: errConnRefused}
	g := WithTimeout(stub, time.Second, zerolog.Nop())

	_, err := g.Localities(context.Background())
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
	assert.ErrorIs(t, err, errConnRefused)

	assert.ErrorIs(t, g.Ping(context.Background()), contracts.ErrDataUnavailable)
}

func TestGuarded_NoDoubleWrap(t *testing.T) {
	inner := &contracts.DataUnavailableError{Source: "postgres", Query: QueryInternet, Err: errConnRefused}
	g := WithTimeout(&stubSource{err: inner}, time.Second, zerolog.Nop())

	_, err := g.InternetPenetration(context.Background())
	assert.Same(t, inner, err)
}
