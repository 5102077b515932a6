package collector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/alert"
)

// RoundSummary tallies the outcomes of one pass over every station.
type RoundSummary struct {
	Successful int
	Duplicates int
	Failed     int
}

// MultiCollector polls a fleet of stations sequentially, with a courtesy
// delay between stations so the upstream API is not hammered.
type MultiCollector struct {
	stations     []*Collector
	interval     time.Duration
	stationDelay time.Duration
	logger       *zap.Logger
}

// NewMulti builds a MultiCollector over the given station IDs. All stations
// share the fetcher, inserter, and alert publisher.
func NewMulti(stationIDs []string, interval, stationDelay time.Duration, f Fetcher, ins Inserter, alerts alert.Publisher, logger *zap.Logger) *MultiCollector {
	collectors := make([]*Collector, 0, len(stationIDs))
	for _, id := range stationIDs {
		collectors = append(collectors, New(id, interval, f, ins, alerts, logger))
	}
	return &MultiCollector{
		stations:     collectors,
		interval:     interval,
		stationDelay: stationDelay,
		logger:       logger.Named("multi-collector"),
	}
}

// Round collects once from every station. A panic or failure at one station
// never stops the rest; cancellation is honored at station boundaries.
func (m *MultiCollector) Round(ctx context.Context) RoundSummary {
	roundID := uuid.NewString()
	logger := m.logger.With(zap.String("round_id", roundID))
	logger.Info("collection round started", zap.Int("stations", len(m.stations)))

	var summary RoundSummary
	for i, c := range m.stations {
		if ctx.Err() != nil {
			logger.Info("collection round interrupted", zap.Int("remaining", len(m.stations)-i))
			break
		}

		switch m.collectStation(ctx, c) {
		case Success:
			summary.Successful++
		case Duplicate:
			summary.Duplicates++
		default:
			summary.Failed++
		}

		if i < len(m.stations)-1 && m.stationDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(m.stationDelay):
			}
		}
	}

	logger.Info("collection round finished",
		zap.Int("successful", summary.Successful),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("failed", summary.Failed),
	)
	return summary
}

func (m *MultiCollector) collectStation(ctx context.Context, c *Collector) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("station collection panicked",
				zap.String("station", c.stationID),
				zap.Any("panic", r),
			)
			outcome = Failed
		}
	}()
	return c.CollectOnce(ctx)
}

// Run repeats rounds until ctx is cancelled. The first round starts
// immediately.
func (m *MultiCollector) Run(ctx context.Context) {
	m.logger.Info("multi collector started",
		zap.Int("stations", len(m.stations)),
		zap.Duration("interval", m.interval),
	)
	for {
		m.Round(ctx)

		select {
		case <-ctx.Done():
			m.logger.Info("multi collector stopped")
			return
		case <-time.After(m.interval):
		}
	}
}
