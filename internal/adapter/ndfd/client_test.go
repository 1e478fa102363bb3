package ndfd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwatcher/ndfd-forecast/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(baseURL string, maxRetries int) *Client {
	return NewClient(baseURL, 5*time.Second, maxRetries, observability.NewMetricsForTesting(), discardLogger())
}

func TestFetchXMLSuccess(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte("<dwml/>"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)
	body, err := client.FetchXML(context.Background(), 38.99, -77.01)
	require.NoError(t, err)
	assert.Equal(t, "<dwml/>", body)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"38.99"}, query["lat"])
	assert.Equal(t, []string{"-77.01"}, query["lon"])
	assert.Equal(t, []string{"time-series"}, query["product"])
	assert.Equal(t, []string{"Submit"}, query["Submit"])
	for _, element := range RequestElements {
		assert.Equal(t, []string{element}, query[element], "element %s must be requested", element)
	}
}

func TestFetchXMLRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<dwml/>"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)
	body, err := client.FetchXML(context.Background(), 38.99, -77.01)
	require.NoError(t, err)
	assert.Equal(t, "<dwml/>", body)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchXMLDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such product"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 3)
	_, err := client.FetchXML(context.Background(), 38.99, -77.01)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "no such product")
	assert.Equal(t, int32(1), calls.Load(), "client errors must not be retried")
}

func TestFetchXMLCircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	// No retries, so each call is a single breaker execution.
	client := newTestClient(srv.URL, 0)
	for i := 0; i < 6; i++ {
		_, err := client.FetchXML(context.Background(), 38.99, -77.01)
		require.Error(t, err)
	}

	_, err := client.FetchXML(context.Background(), 38.99, -77.01)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit open")
}

func TestFetchXMLContextCancelled(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0", 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchXML(ctx, 38.99, -77.01)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second, 30*time.Second))
	assert.Equal(t, 16*time.Second, nextBackoff(8*time.Second, 30*time.Second))
	assert.Equal(t, 30*time.Second, nextBackoff(20*time.Second, 30*time.Second))
	assert.Equal(t, 30*time.Second, nextBackoff(30*time.Second, 30*time.Second))
}
