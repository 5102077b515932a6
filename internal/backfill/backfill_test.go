package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/metrics"
	"github.com/asad-zip/fogbound/internal/nws"
	"github.com/asad-zip/fogbound/internal/store"
	"github.com/asad-zip/fogbound/internal/store/memory"
	"github.com/asad-zip/fogbound/internal/weather"
)

func TestMain(m *testing.M) {
	metrics.Init()
	m.Run()
}

func qv(v float64) nws.QuantityValue { return nws.QuantityValue{Value: &v} }

func feature(station, timestamp string, tempC float64) nws.ObservationFeature {
	return nws.ObservationFeature{
		ID: "https://api.weather.gov/stations/" + station + "/observations/" + timestamp,
		Properties: nws.ObservationProperties{
			Station:     "https://api.weather.gov/stations/" + station,
			Timestamp:   timestamp,
			Temperature: qv(tempC),
			Visibility:  qv(8000),
		},
	}
}

type stubHistoric struct {
	features  []nws.ObservationFeature
	err       error
	lastSince time.Time
	lastLimit int
}

func (s *stubHistoric) Historic(_ context.Context, _ string, since time.Time, limit int) ([]nws.ObservationFeature, error) {
	s.lastSince = since
	s.lastLimit = limit
	return s.features, s.err
}

func TestRunInsertsRecords(t *testing.T) {
	fetcher := &stubHistoric{features: []nws.ObservationFeature{
		feature("KPHL", "2024-01-02T10:00:00+00:00", 4.5),
		feature("KPHL", "2024-01-02T09:00:00+00:00", 4.1),
		feature("KPHL", "2024-01-02T08:00:00+00:00", 3.8),
	}}
	db := memory.New()

	r := New(fetcher, db, 7, 500, zap.NewNop())
	summary, err := r.Run(context.Background(), "KPHL")
	require.NoError(t, err)

	assert.Equal(t, Summary{StationID: "KPHL", Fetched: 3, Inserted: 3}, summary)
	assert.Equal(t, 3, db.Len())
	assert.Equal(t, 500, fetcher.lastLimit)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -7), fetcher.lastSince, time.Minute)
}

func TestRunIsIdempotent(t *testing.T) {
	fetcher := &stubHistoric{features: []nws.ObservationFeature{
		feature("KPHL", "2024-01-02T10:00:00+00:00", 4.5),
		feature("KPHL", "2024-01-02T09:00:00+00:00", 4.1),
	}}
	db := memory.New()
	r := New(fetcher, db, 7, 500, zap.NewNop())

	first, err := r.Run(context.Background(), "KPHL")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := r.Run(context.Background(), "KPHL")
	require.NoError(t, err)
	assert.Equal(t, Summary{StationID: "KPHL", Fetched: 2, Duplicates: 2}, second)
	assert.Equal(t, 2, db.Len())
}

func TestRunBadRecordCostsOnlyItself(t *testing.T) {
	tooHot := feature("KPHL", "2024-01-02T09:00:00+00:00", 81.0)
	noTimestamp := feature("KPHL", "", 4.0)
	fetcher := &stubHistoric{features: []nws.ObservationFeature{
		feature("KPHL", "2024-01-02T10:00:00+00:00", 4.5),
		tooHot,
		noTimestamp,
		feature("KPHL", "2024-01-02T07:00:00+00:00", 3.2),
	}}
	db := memory.New()

	r := New(fetcher, db, 7, 500, zap.NewNop())
	summary, err := r.Run(context.Background(), "KPHL")
	require.NoError(t, err)

	assert.Equal(t, Summary{StationID: "KPHL", Fetched: 4, Inserted: 2, Errors: 2}, summary)
	assert.Equal(t, 2, db.Len())
}

func TestRunEmptyWindow(t *testing.T) {
	fetcher := &stubHistoric{}
	r := New(fetcher, memory.New(), 7, 500, zap.NewNop())

	summary, err := r.Run(context.Background(), "KPHL")
	require.NoError(t, err)
	assert.Equal(t, Summary{StationID: "KPHL"}, summary)
}

func TestRunFetchFailureIsFatal(t *testing.T) {
	fetcher := &stubHistoric{err: errors.New("historic KPHL: unexpected status 503")}
	r := New(fetcher, memory.New(), 7, 500, zap.NewNop())

	_, err := r.Run(context.Background(), "KPHL")
	assert.Error(t, err)
}

type erroringInserter struct{}

func (erroringInserter) Insert(context.Context, weather.Observation) (store.Outcome, error) {
	return store.OutcomeError, errors.New("connection reset")
}

func TestRunInsertErrorsAreCounted(t *testing.T) {
	fetcher := &stubHistoric{features: []nws.ObservationFeature{
		feature("KPHL", "2024-01-02T10:00:00+00:00", 4.5),
		feature("KPHL", "2024-01-02T09:00:00+00:00", 4.1),
	}}
	r := New(fetcher, erroringInserter{}, 7, 500, zap.NewNop())

	summary, err := r.Run(context.Background(), "KPHL")
	require.NoError(t, err, "insert errors are per-record, not fatal")
	assert.Equal(t, Summary{StationID: "KPHL", Fetched: 2, Errors: 2}, summary)
}

func TestRunAllIsolatesStationFailures(t *testing.T) {
	fetcher := &perStationHistoric{
		features: map[string][]nws.ObservationFeature{
			"KPHL": {feature("KPHL", "2024-01-02T10:00:00+00:00", 4.5)},
		},
		errs: map[string]error{
			"KTTN": errors.New("historic KTTN: unexpected status 404"),
		},
	}
	db := memory.New()
	r := New(fetcher, db, 7, 500, zap.NewNop())

	summaries := r.RunAll(context.Background(), []string{"KTTN", "KPHL"})
	require.Len(t, summaries, 2)

	assert.Equal(t, "KTTN", summaries[0].StationID)
	assert.Equal(t, 1, summaries[0].Errors)
	assert.Equal(t, "KPHL", summaries[1].StationID)
	assert.Equal(t, 1, summaries[1].Inserted)
	assert.Equal(t, 1, db.Len())
}

type perStationHistoric struct {
	features map[string][]nws.ObservationFeature
	errs     map[string]error
}

func (p *perStationHistoric) Historic(_ context.Context, stationID string, _ time.Time, _ int) ([]nws.ObservationFeature, error) {
	if err := p.errs[stationID]; err != nil {
		return nil, err
	}
	return p.features[stationID], nil
}
