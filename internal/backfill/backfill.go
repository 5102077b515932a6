// Package backfill loads historic observations for stations in one pass.
package backfill

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/metrics"
	"github.com/asad-zip/fogbound/internal/nws"
	"github.com/asad-zip/fogbound/internal/store"
	"github.com/asad-zip/fogbound/internal/weather"
)

// HistoricFetcher retrieves raw historic observation features.
type HistoricFetcher interface {
	Historic(ctx context.Context, stationID string, since time.Time, limit int) ([]nws.ObservationFeature, error)
}

// Inserter persists observations with duplicate awareness.
type Inserter interface {
	Insert(ctx context.Context, o weather.Observation) (store.Outcome, error)
}

// Summary tallies one station's backfill run.
type Summary struct {
	StationID  string
	Fetched    int
	Inserted   int
	Duplicates int
	Errors     int
}

// Runner executes backfill passes. One pass per station: a single capped
// historic fetch, then per-record normalize/validate/insert where a bad
// record costs only itself.
type Runner struct {
	fetcher  HistoricFetcher
	inserter Inserter
	days     int
	limit    int
	logger   *zap.Logger
}

// New builds a Runner covering the trailing days window.
func New(f HistoricFetcher, ins Inserter, days, limit int, logger *zap.Logger) *Runner {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = nws.MaxHistoricRecords
	}
	return &Runner{
		fetcher:  f,
		inserter: ins,
		days:     days,
		limit:    limit,
		logger:   logger.Named("backfill"),
	}
}

// Run backfills one station. The fetch failing is the only fatal error;
// record-level problems are counted and logged, never returned.
func (r *Runner) Run(ctx context.Context, stationID string) (Summary, error) {
	logger := r.logger.With(zap.String("station", stationID))
	since := time.Now().UTC().AddDate(0, 0, -r.days)

	features, err := r.fetcher.Historic(ctx, stationID, since, r.limit)
	if err != nil {
		return Summary{StationID: stationID}, err
	}

	summary := Summary{StationID: stationID, Fetched: len(features)}
	if len(features) == 0 {
		logger.Info("no historic observations in window", zap.Time("since", since))
		return summary, nil
	}

	for _, feature := range features {
		obs, err := nws.Normalize(feature.Properties, stationID)
		if err != nil {
			logger.Warn("record rejected", zap.String("feature_id", feature.ID), zap.Error(err))
			summary.Errors++
			metrics.ObserveBackfillRecord(stationID, "error")
			continue
		}
		if err := weather.Validate(obs); err != nil {
			logger.Warn("record rejected", zap.String("feature_id", feature.ID), zap.Error(err))
			summary.Errors++
			metrics.ObserveBackfillRecord(stationID, "error")
			continue
		}

		outcome, err := r.inserter.Insert(ctx, obs)
		switch {
		case err != nil:
			logger.Warn("insert failed", zap.Time("observed_at", obs.ObservedAt), zap.Error(err))
			summary.Errors++
			metrics.ObserveBackfillRecord(stationID, "error")
		case outcome == store.OutcomeDuplicate:
			summary.Duplicates++
			metrics.ObserveBackfillRecord(stationID, "duplicate")
		default:
			summary.Inserted++
			metrics.ObserveBackfillRecord(stationID, "inserted")
			if obs.Foggy() {
				logger.Info("historic fog event",
					zap.Time("observed_at", obs.ObservedAt),
					zap.Float64p("visibility_m", obs.VisibilityM),
				)
			}
		}
	}

	logger.Info("backfill finished",
		zap.Time("since", since),
		zap.Int("fetched", summary.Fetched),
		zap.Int("inserted", summary.Inserted),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("errors", summary.Errors),
	)
	return summary, nil
}

// RunAll backfills each station in turn. A failed station is reported in its
// summary and does not stop the rest.
func (r *Runner) RunAll(ctx context.Context, stationIDs []string) []Summary {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID))
	logger.Info("backfill run started", zap.Int("stations", len(stationIDs)))

	summaries := make([]Summary, 0, len(stationIDs))
	for _, id := range stationIDs {
		if ctx.Err() != nil {
			logger.Info("backfill run interrupted")
			break
		}
		summary, err := r.Run(ctx, id)
		if err != nil {
			logger.Error("station backfill failed", zap.String("station", id), zap.Error(err))
			summary.Errors++
		}
		summaries = append(summaries, summary)
	}

	logger.Info("backfill run finished", zap.Int("stations_processed", len(summaries)))
	return summaries
}
