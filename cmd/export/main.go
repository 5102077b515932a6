// Package main dumps the observation table to a CSV file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/config"
	"github.com/asad-zip/fogbound/internal/export"
	"github.com/asad-zip/fogbound/internal/logging"
	"github.com/asad-zip/fogbound/internal/store/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	out := flag.String("out", "weather_data.csv", "Output CSV path")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("create output file failed", zap.String("path", *out), zap.Error(err))
	}

	n, err := export.WriteCSV(ctx, db, f)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}

	fmt.Printf("Exported %d observations to %s\n", n, *out)
}
