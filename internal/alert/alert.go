// Package alert defines the fog alert publisher abstraction. Alerts are
// purely observational: a publish failure is logged by callers and never
// changes pipeline behavior.
package alert

import (
	"context"

	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/weather"
)

// Publisher receives fog alerts for observations that qualify.
type Publisher interface {
	// FogAlert signals that the given observation met the fog condition.
	FogAlert(ctx context.Context, obs weather.Observation) error

	// Close cleans up any client connections and resources.
	Close() error
}

// NoOpPublisher discards alerts. Useful for tests and for running without an
// alerting backend configured.
type NoOpPublisher struct{}

// FogAlert for NoOpPublisher does nothing and returns nil.
func (NoOpPublisher) FogAlert(_ context.Context, _ weather.Observation) error { return nil }

// Close for NoOpPublisher does nothing and returns nil.
func (NoOpPublisher) Close() error { return nil }

// LogPublisher emits fog alerts as structured warning logs.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher builds a LogPublisher on the given logger.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("fog-alert")}
}

// FogAlert logs the alert at warning level.
func (p *LogPublisher) FogAlert(_ context.Context, obs weather.Observation) error {
	fields := []zap.Field{
		zap.String("station", obs.StationID),
		zap.Time("observed_at", obs.ObservedAt),
	}
	if obs.VisibilityM != nil {
		fields = append(fields, zap.Float64("visibility_m", *obs.VisibilityM))
	}
	p.logger.Warn("fog detected", fields...)
	return nil
}

// Close for LogPublisher does nothing and returns nil.
func (p *LogPublisher) Close() error { return nil }
