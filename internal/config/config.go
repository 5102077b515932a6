// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Stations  []string        `mapstructure:"stations"`
	Server    ServerConfig    `mapstructure:"server"`
	Collector CollectorConfig `mapstructure:"collector"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	DB        DBConfig        `mapstructure:"db"`
	Backfill  BackfillConfig  `mapstructure:"backfill"`
	Alerts    AlertConfig     `mapstructure:"alerts"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls the operator HTTP surface.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CollectorConfig governs the polling loops.
type CollectorConfig struct {
	IntervalMinutes     int `mapstructure:"interval_minutes"`
	StationDelaySeconds int `mapstructure:"station_delay_seconds"`
}

// Interval is the sleep between collection rounds.
func (c CollectorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// StationDelay is the courtesy pause between per-station attempts.
func (c CollectorConfig) StationDelay() time.Duration {
	return time.Duration(c.StationDelaySeconds) * time.Second
}

// ProviderConfig configures the upstream weather API client.
type ProviderConfig struct {
	BaseURL                string `mapstructure:"base_url"`
	UserAgent              string `mapstructure:"user_agent"`
	LatestTimeoutSeconds   int    `mapstructure:"latest_timeout_seconds"`
	HistoricTimeoutSeconds int    `mapstructure:"historic_timeout_seconds"`
}

// LatestTimeout is the budget for one latest-observation fetch.
func (c ProviderConfig) LatestTimeout() time.Duration {
	return time.Duration(c.LatestTimeoutSeconds) * time.Second
}

// HistoricTimeout is the budget for one historic range fetch.
func (c ProviderConfig) HistoricTimeout() time.Duration {
	return time.Duration(c.HistoricTimeoutSeconds) * time.Second
}

// DBConfig controls access to the relational store.
type DBConfig struct {
	DSN                    string `mapstructure:"dsn"`
	MaxConns               int32  `mapstructure:"max_conns"`
	MinConns               int32  `mapstructure:"min_conns"`
	MaxConnLifetimeMinutes int    `mapstructure:"max_conn_lifetime_minutes"`
}

// MaxConnLifetime converts the lifetime knob into a duration.
func (c DBConfig) MaxConnLifetime() time.Duration {
	return time.Duration(c.MaxConnLifetimeMinutes) * time.Minute
}

// BackfillConfig bounds the historic window.
type BackfillConfig struct {
	Days  int `mapstructure:"days"`
	Limit int `mapstructure:"limit"`
}

// AlertConfig selects the fog alert publisher.
type AlertConfig struct {
	Publisher string `mapstructure:"publisher"` // log, pubsub, or noop
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FOGBOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Every key gets a default so AutomaticEnv can override it even when no
	// config file is present.
	v.SetDefault("stations", []string{})
	v.SetDefault("server.port", 8080)
	v.SetDefault("collector.interval_minutes", 30)
	v.SetDefault("collector.station_delay_seconds", 2)
	v.SetDefault("provider.base_url", "https://api.weather.gov")
	v.SetDefault("provider.user_agent", "fogbound-collector/1.0 (github.com/asad-zip/fogbound)")
	v.SetDefault("provider.latest_timeout_seconds", 10)
	v.SetDefault("provider.historic_timeout_seconds", 30)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_conns", 8)
	v.SetDefault("db.min_conns", 2)
	v.SetDefault("db.max_conn_lifetime_minutes", 60)
	v.SetDefault("backfill.days", 7)
	v.SetDefault("backfill.limit", 500)
	v.SetDefault("alerts.publisher", "log")
	v.SetDefault("alerts.project_id", "")
	v.SetDefault("alerts.topic_id", "")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Collector.IntervalMinutes <= 0 {
		return fmt.Errorf("collector.interval_minutes must be > 0")
	}
	if c.Collector.StationDelaySeconds < 0 {
		return fmt.Errorf("collector.station_delay_seconds must be >= 0")
	}
	if c.Provider.LatestTimeoutSeconds <= 0 {
		return fmt.Errorf("provider.latest_timeout_seconds must be > 0")
	}
	if c.Provider.HistoricTimeoutSeconds <= 0 {
		return fmt.Errorf("provider.historic_timeout_seconds must be > 0")
	}
	if c.Backfill.Days <= 0 {
		return fmt.Errorf("backfill.days must be > 0")
	}
	if c.Backfill.Limit <= 0 {
		return fmt.Errorf("backfill.limit must be > 0")
	}
	switch c.Alerts.Publisher {
	case "log", "noop":
	case "pubsub":
		if c.Alerts.ProjectID == "" || c.Alerts.TopicID == "" {
			return fmt.Errorf("alerts.project_id and alerts.topic_id must be set when alerts.publisher is pubsub")
		}
	default:
		return fmt.Errorf("unknown alerts.publisher %q", c.Alerts.Publisher)
	}
	return nil
}
