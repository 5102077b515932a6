// Package collector runs the fetch/normalize/validate/persist cycle.
package collector

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/alert"
	"github.com/asad-zip/fogbound/internal/logging"
	"github.com/asad-zip/fogbound/internal/metrics"
	"github.com/asad-zip/fogbound/internal/store"
	"github.com/asad-zip/fogbound/internal/weather"
)

// Outcome classifies one collection cycle.
type Outcome int

const (
	// Success means a fresh observation was stored.
	Success Outcome = iota
	// Duplicate means the provider returned an observation already on record.
	Duplicate
	// Failed means the cycle produced nothing usable.
	Failed
)

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Duplicate:
		return "duplicate"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher retrieves the current observation for a station.
type Fetcher interface {
	Latest(ctx context.Context, stationID string) (weather.Observation, error)
}

// Inserter persists observations with duplicate awareness.
type Inserter interface {
	Insert(ctx context.Context, o weather.Observation) (store.Outcome, error)
}

// Collector polls one station on a fixed interval.
type Collector struct {
	stationID string
	interval  time.Duration
	fetcher   Fetcher
	inserter  Inserter
	alerts    alert.Publisher
	logger    *zap.Logger
}

// New builds a Collector for a single station.
func New(stationID string, interval time.Duration, f Fetcher, ins Inserter, alerts alert.Publisher, logger *zap.Logger) *Collector {
	if alerts == nil {
		alerts = alert.NoOpPublisher{}
	}
	return &Collector{
		stationID: stationID,
		interval:  interval,
		fetcher:   f,
		inserter:  ins,
		alerts:    alerts,
		logger:    logging.ForStation(logger, "collector", stationID),
	}
}

// CollectOnce runs a single cycle. A cycle that starts runs to completion
// even if ctx is cancelled mid-flight; only its timeouts are honored.
func (c *Collector) CollectOnce(ctx context.Context) Outcome {
	cycleCtx := context.WithoutCancel(ctx)

	obs, err := c.fetcher.Latest(cycleCtx, c.stationID)
	if err != nil {
		c.logger.Warn("fetch failed", zap.Error(err))
		metrics.ObserveCycle(c.stationID, Failed.String())
		return Failed
	}

	if err := weather.Validate(obs); err != nil {
		c.logger.Warn("observation rejected", zap.Error(err))
		metrics.ObserveCycle(c.stationID, Failed.String())
		return Failed
	}

	result, err := c.inserter.Insert(cycleCtx, obs)
	if err != nil {
		c.logger.Error("insert failed", zap.Error(err))
		metrics.ObserveCycle(c.stationID, Failed.String())
		return Failed
	}

	outcome := Success
	if result == store.OutcomeDuplicate {
		outcome = Duplicate
		c.logger.Info("observation already recorded", zap.Time("observed_at", obs.ObservedAt))
	} else {
		c.logger.Info("observation stored",
			zap.Time("observed_at", obs.ObservedAt),
			zap.Bool("foggy", obs.Foggy()),
		)
	}
	metrics.ObserveCycle(c.stationID, outcome.String())

	if obs.Foggy() {
		metrics.ObserveFog(c.stationID)
		if err := c.alerts.FogAlert(cycleCtx, obs); err != nil {
			c.logger.Warn("fog alert failed", zap.Error(err))
		}
	}

	return outcome
}

// Run polls until ctx is cancelled. The first cycle starts immediately.
func (c *Collector) Run(ctx context.Context) {
	c.logger.Info("collector started", zap.Duration("interval", c.interval))
	for {
		c.CollectOnce(ctx)

		select {
		case <-ctx.Done():
			c.logger.Info("collector stopped")
			return
		case <-time.After(c.interval):
		}
	}
}
