package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/store"
	"github.com/asad-zip/fogbound/internal/store/memory"
	"github.com/asad-zip/fogbound/internal/weather"
)

func f64(v float64) *float64 { return &v }

func seedStore(t *testing.T) *memory.ObservationStore {
	t.Helper()
	db := memory.New()
	base := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	for i, visibility := range []float64{8000, 400, 12000} {
		obs := weather.Observation{
			ObservedAt:   base.Add(time.Duration(i) * time.Hour),
			StationID:    "KPHL",
			TemperatureC: f64(4.5),
			VisibilityM:  f64(visibility),
		}
		_, err := db.Insert(context.Background(), obs)
		require.NoError(t, err)
	}
	return db
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := NewServer(memory.New(), zap.NewNop())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	s := NewServer(memory.New(), zap.NewNop())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type unpingableStore struct {
	*memory.ObservationStore
}

func (unpingableStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestReadyzDatabaseDown(t *testing.T) {
	s := NewServer(unpingableStore{memory.New()}, zap.NewNop())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unavailable")
}

func TestStationObservations(t *testing.T) {
	s := NewServer(seedStore(t), zap.NewNop())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/stations/KPHL/observations?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		StationID    string           `json:"station_id"`
		Observations []observationDTO `json:"observations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "KPHL", body.StationID)
	require.Len(t, body.Observations, 2)
	assert.True(t, body.Observations[0].ObservedAt.After(body.Observations[1].ObservedAt), "newest first")
	assert.False(t, body.Observations[0].Foggy)
	assert.True(t, body.Observations[1].Foggy)
}

func TestStationObservationsUnknownStation(t *testing.T) {
	s := NewServer(seedStore(t), zap.NewNop())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/stations/KXYZ/observations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"observations":[]`)
}

func TestStationObservationsBadLimit(t *testing.T) {
	s := NewServer(seedStore(t), zap.NewNop())
	for _, limit := range []string{"abc", "0", "-5"} {
		rec := doRequest(t, s.Handler(), http.MethodGet, "/stations/KPHL/observations?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestStats(t *testing.T) {
	s := NewServer(seedStore(t), zap.NewNop())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/stats?station=KPHL")
	require.Equal(t, http.StatusOK, rec.Code)

	var body statsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Total)
	assert.Equal(t, int64(1), body.FogEvents)
	require.NotNil(t, body.Earliest)
	require.NotNil(t, body.Latest)
	assert.True(t, body.Latest.After(*body.Earliest))
}

func TestStatsError(t *testing.T) {
	s := NewServer(failingStatsStore{memory.New()}, zap.NewNop())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type failingStatsStore struct {
	*memory.ObservationStore
}

func (failingStatsStore) Stats(context.Context, string) (store.Stats, error) {
	return store.Stats{}, errors.New("relation does not exist")
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(memory.New(), zap.NewNop())
	rec := doRequest(t, s.Handler(), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
