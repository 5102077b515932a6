// Package api exposes the operator HTTP interface: health and readiness
// probes, stored-observation queries, summary statistics, and the Prometheus
// scrape endpoint.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/metrics"
	"github.com/asad-zip/fogbound/internal/store"
	"github.com/asad-zip/fogbound/internal/weather"
)

const (
	defaultObservationLimit = 25
	maxObservationLimit     = 500
	queryTimeout            = 5 * time.Second
)

// Server wires HTTP handlers to the observation store.
type Server struct {
	router chi.Router
	store  store.ObservationStore
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(st store.ObservationStore, logger *zap.Logger) *Server {
	s := &Server{
		store:  st,
		logger: logger.Named("api"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/stats", s.stats)
	r.Get("/stations/{station_id}/observations", s.stationObservations)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// stats handles GET /stats?station=. An empty station covers all stations.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stationID := r.URL.Query().Get("station")
	stats, err := s.store.Stats(ctx, stationID)
	if err != nil {
		s.logger.Error("stats query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load statistics")
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stationID, stats))
}

// stationObservations handles GET /stations/{station_id}/observations?limit=.
func (s *Server) stationObservations(w http.ResponseWriter, r *http.Request) {
	stationID := chi.URLParam(r, "station_id")
	if stationID == "" {
		writeError(w, http.StatusBadRequest, "missing station id")
		return
	}

	limit := defaultObservationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxObservationLimit {
		limit = maxObservationLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	observations, err := s.store.Recent(ctx, stationID, limit)
	if err != nil {
		s.logger.Error("observation query failed", zap.String("station", stationID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load observations")
		return
	}

	dtos := make([]observationDTO, 0, len(observations))
	for _, o := range observations {
		dtos = append(dtos, toObservationDTO(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"station_id":   stationID,
		"observations": dtos,
	})
}

type observationDTO struct {
	StationID          string    `json:"station_id"`
	StationName        string    `json:"station_name,omitempty"`
	ObservedAt         time.Time `json:"observed_at"`
	TemperatureC       *float64  `json:"temperature_c"`
	DewpointC          *float64  `json:"dewpoint_c"`
	DewpointSpreadC    *float64  `json:"dewpoint_spread_c"`
	RelativeHumidity   *float64  `json:"relative_humidity"`
	BarometricPressure *float64  `json:"barometric_pressure_hpa"`
	VisibilityM        *float64  `json:"visibility_m"`
	WindSpeedKMH       *float64  `json:"wind_speed_kmh"`
	WindGustKMH        *float64  `json:"wind_gust_kmh"`
	WindDirection      string    `json:"wind_direction,omitempty"`
	ConditionsText     string    `json:"conditions,omitempty"`
	CloudCoverage      string    `json:"cloud_coverage,omitempty"`
	Foggy              bool      `json:"foggy"`
}

func toObservationDTO(o weather.Observation) observationDTO {
	return observationDTO{
		StationID:          o.StationID,
		StationName:        o.StationName,
		ObservedAt:         o.ObservedAt,
		TemperatureC:       o.TemperatureC,
		DewpointC:          o.DewpointC,
		DewpointSpreadC:    o.DewpointSpreadC,
		RelativeHumidity:   o.RelativeHumidity,
		BarometricPressure: o.BarometricPressure,
		VisibilityM:        o.VisibilityM,
		WindSpeedKMH:       o.WindSpeedKMH,
		WindGustKMH:        o.WindGustKMH,
		WindDirection:      o.WindDirection,
		ConditionsText:     o.ConditionsText,
		CloudCoverage:      o.CloudCoverage,
		Foggy:              o.Foggy(),
	}
}

type statsDTO struct {
	Station   string     `json:"station,omitempty"`
	Total     int64      `json:"total_observations"`
	FogEvents int64      `json:"fog_events"`
	Earliest  *time.Time `json:"earliest,omitempty"`
	Latest    *time.Time `json:"latest,omitempty"`
}

func toStatsDTO(stationID string, st store.Stats) statsDTO {
	return statsDTO{
		Station:   stationID,
		Total:     st.Total,
		FogEvents: st.FogEvents,
		Earliest:  st.Earliest,
		Latest:    st.Latest,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
