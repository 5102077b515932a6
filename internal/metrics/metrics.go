// Package metrics exposes Prometheus collectors for the collection pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	collectorCyclesTotal *prometheus.CounterVec
	fogEventsTotal       *prometheus.CounterVec
	fetchDurationSeconds *prometheus.HistogramVec
	backfillRecordsTotal *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		collectorCyclesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fogbound_collector_cycles_total",
				Help: "Collection cycles executed, labeled by station and outcome.",
			},
			[]string{"station", "outcome"},
		)

		fogEventsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fogbound_fog_events_total",
				Help: "Observations that qualified as fog (visibility < 1000 m), by station.",
			},
			[]string{"station"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fogbound_fetch_duration_seconds",
				Help:    "Upstream fetch latency, labeled by endpoint.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"endpoint"},
		)

		backfillRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fogbound_backfill_records_total",
				Help: "Backfill records processed, labeled by station and result.",
			},
			[]string{"station", "result"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveCycle records one collection cycle outcome for a station.
func ObserveCycle(station, outcome string) {
	collectorCyclesTotal.WithLabelValues(station, outcome).Inc()
}

// ObserveFog records a fog event for a station.
func ObserveFog(station string) {
	fogEventsTotal.WithLabelValues(station).Inc()
}

// ObserveFetch records the latency of one upstream request.
func ObserveFetch(endpoint string, duration time.Duration) {
	fetchDurationSeconds.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveBackfillRecord records the result of processing one historic record.
func ObserveBackfillRecord(station, result string) {
	backfillRecordsTotal.WithLabelValues(station, result).Inc()
}
