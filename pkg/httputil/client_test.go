package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/telecom-kpi/pkg/logger"
)

func TestNew(t *testing.T) {
	client := New(logger.Nop())
	require.NotNil(t, client)

	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 3, client.retryConfig.MaxRetries)
	assert.True(t, client.retryConfig.Enabled)
	assert.Nil(t, client.limiter)
}

func TestNewWithTimeout(t *testing.T) {
	client := NewWithTimeout(logger.Nop(), 5*time.Second)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestWithRetryAndDisable(t *testing.T) {
	client := New(logger.Nop()).WithRetry(5, 2*time.Second)
	assert.Equal(t, 5, client.retryConfig.MaxRetries)
	assert.Equal(t, 2*time.Second, client.retryConfig.InitialDelay)

	client.DisableRetry()
	assert.False(t, client.retryConfig.Enabled)
}

func TestWithRateLimit(t *testing.T) {
	client := New(logger.Nop()).WithRateLimit(0)
	assert.Nil(t, client.limiter, "non-positive rps leaves the client unlimited")

	client.WithRateLimit(4)
	require.NotNil(t, client.limiter)
	assert.Equal(t, 4, client.limiter.Burst())
}

func TestGetBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("anio,trimestre\n2024,1\n"))
	}))
	defer server.Close()

	body, err := New(logger.Nop()).GetBytes(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "anio,trimestre\n2024,1\n", string(body))
}

func TestGetBytesNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(logger.Nop()).GetBytes(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestRetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`ok`))
	}))
	defer server.Close()

	client := New(logger.Nop()).WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := New(logger.Nop()).WithRetry(5, time.Second)

	_, err := client.Get(ctx, server.URL)
	assert.Error(t, err)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.statusCode))
		})
	}
}
