// Package postgres provides the Postgres-backed observation store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asad-zip/fogbound/internal/store"
	"github.com/asad-zip/fogbound/internal/weather"
)

// uniqueViolation is the SQLSTATE class for a unique-constraint conflict.
// Duplicate detection inspects this code structurally rather than matching
// the error text, which is driver- and locale-dependent.
const uniqueViolation = "23505"

// Schema is the table this store writes. The unique constraint on
// (station_id, observed_at) carries the idempotence guarantee for the whole
// pipeline.
const Schema = `
CREATE TABLE IF NOT EXISTS weather_observations (
	id                  BIGSERIAL PRIMARY KEY,
	observed_at         TIMESTAMPTZ NOT NULL,
	station_id          VARCHAR(10) NOT NULL,
	station_name        VARCHAR(100),
	temperature_c       NUMERIC(5,2),
	dewpoint_c          NUMERIC(5,2),
	dewpoint_spread_c   NUMERIC(5,2),
	relative_humidity   NUMERIC(5,2),
	barometric_pressure NUMERIC(7,2),
	visibility_m        NUMERIC(8,2),
	wind_speed_kmh      NUMERIC(5,2),
	wind_direction      VARCHAR(10),
	wind_gust_kmh       NUMERIC(5,2),
	conditions_text     VARCHAR(100),
	cloud_coverage      VARCHAR(50),
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT uix_station_time UNIQUE (station_id, observed_at)
)`

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// pool is the slice of pgxpool.Pool this store uses; pgxmock satisfies it.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// ObservationStore implements store.ObservationStore on Postgres.
type ObservationStore struct {
	pool pool
}

// New connects a pool using the provided config.
func New(ctx context.Context, cfg Config) (*ObservationStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &ObservationStore{pool: p}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(p pool) (*ObservationStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &ObservationStore{pool: p}, nil
}

// EnsureSchema creates the observations table if it does not exist.
func (s *ObservationStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const insertSQL = `
INSERT INTO weather_observations (
	observed_at, station_id, station_name,
	temperature_c, dewpoint_c, dewpoint_spread_c,
	relative_humidity, barometric_pressure, visibility_m,
	wind_speed_kmh, wind_direction, wind_gust_kmh,
	conditions_text, cloud_coverage
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

// Insert writes one observation row. A unique-constraint conflict on
// (station_id, observed_at) is reported as OutcomeDuplicate with a nil error;
// the caller treats it as success-already-had-this.
func (s *ObservationStore) Insert(ctx context.Context, obs weather.Observation) (store.Outcome, error) {
	_, err := s.pool.Exec(ctx, insertSQL,
		obs.ObservedAt,
		obs.StationID,
		obs.StationName,
		obs.TemperatureC,
		obs.DewpointC,
		obs.DewpointSpreadC,
		obs.RelativeHumidity,
		obs.BarometricPressure,
		obs.VisibilityM,
		obs.WindSpeedKMH,
		obs.WindDirection,
		obs.WindGustKMH,
		obs.ConditionsText,
		obs.CloudCoverage,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.OutcomeDuplicate, nil
		}
		return store.OutcomeError, fmt.Errorf("insert observation: %w", err)
	}
	return store.OutcomeInserted, nil
}

const selectColumns = `
	observed_at, station_id, station_name,
	temperature_c, dewpoint_c, dewpoint_spread_c,
	relative_humidity, barometric_pressure, visibility_m,
	wind_speed_kmh, wind_direction, wind_gust_kmh,
	conditions_text, cloud_coverage`

// Recent returns up to limit observations for a station, newest first.
func (s *ObservationStore) Recent(ctx context.Context, stationID string, limit int) ([]weather.Observation, error) {
	query := `SELECT` + selectColumns + `
		FROM weather_observations
		WHERE station_id = $1
		ORDER BY observed_at DESC
		LIMIT $2`
	rows, err := s.pool.Query(ctx, query, stationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent observations: %w", err)
	}
	defer rows.Close()
	return scanObservations(rows)
}

// All returns every stored observation ordered by station then time.
func (s *ObservationStore) All(ctx context.Context) ([]weather.Observation, error) {
	query := `SELECT` + selectColumns + `
		FROM weather_observations
		ORDER BY station_id, observed_at`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all observations: %w", err)
	}
	defer rows.Close()
	return scanObservations(rows)
}

// Stats aggregates totals, fog-event counts, and the observed time range,
// optionally filtered to one station.
func (s *ObservationStore) Stats(ctx context.Context, stationID string) (store.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE visibility_m < 1000),
			MIN(observed_at),
			MAX(observed_at)
		FROM weather_observations
		WHERE ($1 = '' OR station_id = $1)`

	var stats store.Stats
	err := s.pool.QueryRow(ctx, query, stationID).Scan(
		&stats.Total,
		&stats.FogEvents,
		&stats.Earliest,
		&stats.Latest,
	)
	if err != nil {
		return store.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}

// Ping verifies database connectivity.
func (s *ObservationStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *ObservationStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func scanObservations(rows pgx.Rows) ([]weather.Observation, error) {
	var out []weather.Observation
	for rows.Next() {
		var obs weather.Observation
		err := rows.Scan(
			&obs.ObservedAt,
			&obs.StationID,
			&obs.StationName,
			&obs.TemperatureC,
			&obs.DewpointC,
			&obs.DewpointSpreadC,
			&obs.RelativeHumidity,
			&obs.BarometricPressure,
			&obs.VisibilityM,
			&obs.WindSpeedKMH,
			&obs.WindDirection,
			&obs.WindGustKMH,
			&obs.ConditionsText,
			&obs.CloudCoverage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan observation row: %w", err)
		}
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observation rows: %w", err)
	}
	return out, nil
}
