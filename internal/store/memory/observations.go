// Package memory provides an in-memory observation store with the same
// outcome semantics as the Postgres implementation. It backs unit tests and
// local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/asad-zip/fogbound/internal/store"
	"github.com/asad-zip/fogbound/internal/weather"
)

// ObservationStore keeps observations in a slice guarded by a mutex.
type ObservationStore struct {
	mu           sync.Mutex
	observations []weather.Observation
}

// New returns an empty store.
func New() *ObservationStore {
	return &ObservationStore{}
}

// Insert appends the observation unless the (station_id, observed_at) pair is
// already present, mirroring the database unique constraint.
func (s *ObservationStore) Insert(_ context.Context, obs weather.Observation) (store.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.observations {
		if existing.StationID == obs.StationID && existing.ObservedAt.Equal(obs.ObservedAt) {
			return store.OutcomeDuplicate, nil
		}
	}
	s.observations = append(s.observations, obs)
	return store.OutcomeInserted, nil
}

// Recent returns up to limit observations for a station, newest first.
func (s *ObservationStore) Recent(_ context.Context, stationID string, limit int) ([]weather.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []weather.Observation
	for _, obs := range s.observations {
		if obs.StationID == stationID {
			matched = append(matched, obs)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ObservedAt.After(matched[j].ObservedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Stats aggregates over all rows, or one station when stationID is non-empty.
func (s *ObservationStore) Stats(_ context.Context, stationID string) (store.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats store.Stats
	for _, obs := range s.observations {
		if stationID != "" && obs.StationID != stationID {
			continue
		}
		stats.Total++
		if obs.Foggy() {
			stats.FogEvents++
		}
		t := obs.ObservedAt
		if stats.Earliest == nil || t.Before(*stats.Earliest) {
			earliest := t
			stats.Earliest = &earliest
		}
		if stats.Latest == nil || t.After(*stats.Latest) {
			latest := t
			stats.Latest = &latest
		}
	}
	return stats, nil
}

// All returns a copy of every stored observation.
func (s *ObservationStore) All(_ context.Context) ([]weather.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]weather.Observation, len(s.observations))
	copy(out, s.observations)
	return out, nil
}

// Ping always succeeds.
func (s *ObservationStore) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *ObservationStore) Close() {}

// Len reports the number of stored rows (test helper).
func (s *ObservationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observations)
}
