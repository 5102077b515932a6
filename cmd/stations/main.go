// Package main lists provider stations near a coordinate pair, so operators
// can discover station IDs worth collecting.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asad-zip/fogbound/internal/config"
	"github.com/asad-zip/fogbound/internal/logging"
	"github.com/asad-zip/fogbound/internal/metrics"
	"github.com/asad-zip/fogbound/internal/nws"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	lat := flag.Float64("lat", 0, "Latitude")
	lon := flag.Float64("lon", 0, "Longitude")
	flag.Parse()

	if *lat == 0 && *lon == 0 {
		fmt.Fprintln(os.Stderr, "usage: stations -lat <latitude> -lon <longitude>")
		os.Exit(2)
	}

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

	metrics.Init()

	client := nws.New(nws.Config{
		BaseURL:         cfg.Provider.BaseURL,
		UserAgent:       cfg.Provider.UserAgent,
		LatestTimeout:   cfg.Provider.LatestTimeout(),
		HistoricTimeout: cfg.Provider.HistoricTimeout(),
	}, logger)

	stations, err := client.NearbyStations(ctx, *lat, *lon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "station lookup failed: %v\n", err)
		os.Exit(1)
	}
	if len(stations) == 0 {
		fmt.Println("No stations found near that point.")
		return
	}

	fmt.Printf("Stations near %.4f,%.4f:\n", *lat, *lon)
	for _, s := range stations {
		fmt.Printf("  %-6s %s (%.4f, %.4f)\n", s.ID, s.Name, s.Lat, s.Lon)
	}
}
