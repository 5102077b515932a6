// Package logging builds the service loggers. Every component receives a
// named child of the root logger; station-scoped components additionally
// carry their station id on every entry.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the root logger. Development mode means console encoding with
// colored levels; production emits JSON. Stacktraces are suppressed outside
// development since fetch failures are routine and would drown the logs.
func New(development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = !development

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ForStation returns a component child logger tagged with the station it
// serves, so every entry from a station-scoped loop is attributable.
func ForStation(root *zap.Logger, component, stationID string) *zap.Logger {
	return root.Named(component).With(zap.String("station", stationID))
}
