// Package main runs the fogbound collection service: the multi-station
// polling loop plus the operator HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/alert"
	"github.com/asad-zip/fogbound/internal/api"
	"github.com/asad-zip/fogbound/internal/collector"
	"github.com/asad-zip/fogbound/internal/config"
	"github.com/asad-zip/fogbound/internal/logging"
	"github.com/asad-zip/fogbound/internal/metrics"
	"github.com/asad-zip/fogbound/internal/nws"
	"github.com/asad-zip/fogbound/internal/store/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Stations) == 0 {
		fmt.Fprintln(os.Stderr, "no stations configured")
		os.Exit(1)
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

	alerts, err := buildAlertPublisher(ctx, cfg.Alerts, logger)
	if err != nil {
		logger.Fatal("alert publisher init failed", zap.Error(err))
	}
	defer func() {
		if err := alerts.Close(); err != nil {
			logger.Warn("alert publisher close failed", zap.Error(err))
		}
	}()

	client := nws.New(nws.Config{
		BaseURL:         cfg.Provider.BaseURL,
		UserAgent:       cfg.Provider.UserAgent,
		LatestTimeout:   cfg.Provider.LatestTimeout(),
		HistoricTimeout: cfg.Provider.HistoricTimeout(),
	}, logger)

	multi := collector.NewMulti(
		cfg.Stations,
		cfg.Collector.Interval(),
		cfg.Collector.StationDelay(),
		client,
		db,
		alerts,
		logger,
	)

	apiServer := api.NewServer(db, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go multi.Run(ctx)

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func buildAlertPublisher(ctx context.Context, cfg config.AlertConfig, logger *zap.Logger) (alert.Publisher, error) {
	switch cfg.Publisher {
	case "pubsub":
		return alert.NewPubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID)
	case "noop":
		return alert.NoOpPublisher{}, nil
	default:
		return alert.NewLogPublisher(logger), nil
	}
}
