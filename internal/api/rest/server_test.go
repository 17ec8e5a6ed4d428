package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snapshotv1 "github.com/muhammadchandra19/market-sim/internal/domain/snapshot/v1"
	tapev1 "github.com/muhammadchandra19/market-sim/internal/domain/tape/v1"
	"github.com/muhammadchandra19/market-sim/internal/infra/metrics"
	"github.com/muhammadchandra19/market-sim/pkg/errors"
	"github.com/muhammadchandra19/market-sim/pkg/logger"
)

type fakeSource struct {
	snap snapshotv1.Snapshot
	err  error
}

func (f *fakeSource) Snapshot(ctx context.Context) (snapshotv1.Snapshot, error) {
	return f.snap, f.err
}

func newTestServer(t *testing.T, source *fakeSource) *Server {
	t.Helper()

	log, err := logger.NewLogger()
	require.NoError(t, err)

	return NewServer(source, metrics.Handler(metrics.Init(log)), log)
}

// Test 1: /api/state returns the snapshot as JSON
func TestServer_State(t *testing.T) {
	source := &fakeSource{
		snap: snapshotv1.Snapshot{
			Bids:         map[string]int64{"99.50": 10},
			Asks:         map[string]int64{},
			Trades:       []tapev1.Trade{{Time: 1700000000000, Price: 100.00, Quantity: 5}},
			IsSimulating: true,
		},
	}
	server := newTestServer(t, source)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap snapshotv1.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, source.snap, snap)
}

// Test 2: /api/state only accepts GET
func TestServer_StateMethodNotAllowed(t *testing.T) {
	server := newTestServer(t, &fakeSource{})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/state", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// Test 3: A failed snapshot request maps to 503
func TestServer_StateUnavailable(t *testing.T) {
	source := &fakeSource{
		err: errors.New(errors.ErrSnapshotUnavailable, "simulation shutting down"),
	}
	server := newTestServer(t, source)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// Test 4: Health check
func TestServer_Health(t *testing.T) {
	server := newTestServer(t, &fakeSource{})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

// Test 5: Metrics endpoint is mounted
func TestServer_Metrics(t *testing.T) {
	server := newTestServer(t, &fakeSource{})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orders_generated_total")
}
