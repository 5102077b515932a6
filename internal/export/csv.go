// Package export writes stored observations out as CSV for backup/sharing.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/asad-zip/fogbound/internal/weather"
)

// Lister provides the full observation set to export.
type Lister interface {
	All(ctx context.Context) ([]weather.Observation, error)
}

var header = []string{
	"observed_at",
	"station_id",
	"temperature_c",
	"dewpoint_c",
	"dewpoint_spread_c",
	"relative_humidity",
	"barometric_pressure",
	"visibility_m",
	"wind_speed_kmh",
	"wind_gust_kmh",
	"wind_direction",
	"conditions_text",
	"cloud_coverage",
}

// WriteCSV streams every stored observation to w as CSV, header first.
// It returns the number of data rows written.
func WriteCSV(ctx context.Context, src Lister, w io.Writer) (int, error) {
	observations, err := src.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load observations: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	for i, o := range observations {
		if err := cw.Write(toRow(o)); err != nil {
			return i, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(observations), fmt.Errorf("flush: %w", err)
	}
	return len(observations), nil
}

func toRow(o weather.Observation) []string {
	return []string{
		o.ObservedAt.UTC().Format(time.RFC3339),
		o.StationID,
		formatFloat(o.TemperatureC),
		formatFloat(o.DewpointC),
		formatFloat(o.DewpointSpreadC),
		formatFloat(o.RelativeHumidity),
		formatFloat(o.BarometricPressure),
		formatFloat(o.VisibilityM),
		formatFloat(o.WindSpeedKMH),
		formatFloat(o.WindGustKMH),
		o.WindDirection,
		o.ConditionsText,
		o.CloudCoverage,
	}
}

// formatFloat renders a nullable measurement; missing values become empty
// cells, not zeroes.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
