// Package main runs a one-shot backfill of historic observations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/backfill"
	"github.com/asad-zip/fogbound/internal/config"
	"github.com/asad-zip/fogbound/internal/logging"
	"github.com/asad-zip/fogbound/internal/metrics"
	"github.com/asad-zip/fogbound/internal/nws"
	"github.com/asad-zip/fogbound/internal/store/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	station := flag.String("station", "", "Backfill a single station instead of the configured list")
	days := flag.Int("days", 0, "Override the configured backfill window in days")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	stations := cfg.Stations
	if *station != "" {
		stations = []string{*station}
	}
	if len(stations) == 0 {
		fmt.Fprintln(os.Stderr, "no stations to backfill")
		os.Exit(1)
	}
	window := cfg.Backfill.Days
	if *days > 0 {
		window = *days
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	db, err := postgres.New(ctx, postgres.Config{
		DSN:             cfg.DB.DSN,
		MaxConns:        cfg.DB.MaxConns,
		MinConns:        cfg.DB.MinConns,
		MaxConnLifetime: cfg.DB.MaxConnLifetime(),
	})
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal("schema setup failed", zap.Error(err))
	}

	client := nws.New(nws.Config{
		BaseURL:         cfg.Provider.BaseURL,
		UserAgent:       cfg.Provider.UserAgent,
		LatestTimeout:   cfg.Provider.LatestTimeout(),
		HistoricTimeout: cfg.Provider.HistoricTimeout(),
	}, logger)

	runner := backfill.New(client, db, window, cfg.Backfill.Limit, logger)
	summaries := runner.RunAll(ctx, stations)

	allFailed := len(summaries) > 0
	for _, s := range summaries {
		fmt.Printf("%s: fetched=%d inserted=%d duplicates=%d errors=%d\n",
			s.StationID, s.Fetched, s.Inserted, s.Duplicates, s.Errors)
		if s.Errors == 0 || s.Inserted+s.Duplicates > 0 {
			allFailed = false
		}
	}

	if stats, err := db.Stats(ctx, ""); err == nil {
		logger.Info("store totals after backfill",
			zap.Int64("observations", stats.Total),
			zap.Int64("fog_events", stats.FogEvents),
		)
	}

	if allFailed {
		os.Exit(1)
	}
}
