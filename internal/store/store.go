// Package store defines the persistence contracts for observation rows.
// Implementations live in subpackages; callers depend on these interfaces so
// tests can swap in the memory store or a mock pool.
package store

import (
	"context"
	"time"

	"github.com/asad-zip/fogbound/internal/weather"
)

// Outcome is the discriminated result of an insert attempt. Duplicate is a
// first-class outcome, not an error: the row already being present is the
// desired end state of an at-least-once pipeline.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeDuplicate
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "error"
	}
}

// Stats summarizes the stored data for operator-facing output. Earliest and
// Latest are nil when no rows match.
type Stats struct {
	Total     int64
	FogEvents int64
	Earliest  *time.Time
	Latest    *time.Time
}

// ObservationStore is the persistence gateway for canonical observations.
type ObservationStore interface {
	// Insert attempts a single-row insert. The unique constraint on
	// (station_id, observed_at) is the sole duplicate-detection mechanism;
	// there is no existence pre-check. A constraint violation yields
	// (OutcomeDuplicate, nil); any other failure yields (OutcomeError, err).
	Insert(ctx context.Context, obs weather.Observation) (Outcome, error)

	// Recent returns up to limit observations for a station, newest first.
	Recent(ctx context.Context, stationID string, limit int) ([]weather.Observation, error)

	// Stats aggregates counts over all rows, or over one station when
	// stationID is non-empty.
	Stats(ctx context.Context, stationID string) (Stats, error)

	// All returns every stored observation, for the offline export utility.
	All(ctx context.Context) ([]weather.Observation, error)

	// Ping verifies connectivity; the collector refuses to start without it.
	Ping(ctx context.Context) error

	Close()
}
