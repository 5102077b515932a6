package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asad-zip/fogbound/internal/store/memory"
	"github.com/asad-zip/fogbound/internal/weather"
)

func f64(v float64) *float64 { return &v }

func TestWriteCSV(t *testing.T) {
	db := memory.New()
	_, err := db.Insert(context.Background(), weather.Observation{
		ObservedAt:         time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		StationID:          "KPHL",
		TemperatureC:       f64(4.5),
		DewpointC:          f64(4.1),
		DewpointSpreadC:    f64(0.4),
		RelativeHumidity:   f64(97.2),
		BarometricPressure: f64(1013.25),
		VisibilityM:        f64(400),
		WindSpeedKMH:       f64(7.2),
		WindDirection:      "NE",
		ConditionsText:     "Fog",
		CloudCoverage:      "OVC",
	})
	require.NoError(t, err)
	_, err = db.Insert(context.Background(), weather.Observation{
		ObservedAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		StationID:  "KPHL",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := WriteCSV(context.Background(), db, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{
		"2024-01-02T08:00:00Z", "KPHL",
		"4.5", "4.1", "0.4", "97.2", "1013.25", "400", "7.2", "",
		"NE", "Fog", "OVC",
	}, records[1])

	// Missing measurements export as empty cells.
	assert.Equal(t, "2024-01-02T09:00:00Z", records[2][0])
	assert.Equal(t, "", records[2][2])
	assert.Equal(t, "", records[2][10])
}

func TestWriteCSVEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(context.Background(), memory.New(), &buf)
	require.NoError(t, err)
	assert.Zero(t, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "header only")
}

type failingLister struct{}

func (failingLister) All(context.Context) ([]weather.Observation, error) {
	return nil, errors.New("connection refused")
}

func TestWriteCSVStoreError(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteCSV(context.Background(), failingLister{}, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
