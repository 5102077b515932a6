// Package weather defines the canonical observation record and the physical
// rules that apply to it: unit rounding, compass bucketing, fog detection, and
// plausibility validation. It is pure domain code with no I/O.
package weather

import (
	"math"
	"time"
)

// FogVisibilityThresholdM is the visibility below which an observation counts
// as a fog event. The comparison is strict: exactly 1000 m is not fog.
const FogVisibilityThresholdM = 1000.0

// Observation is the canonical weather record persisted by the pipeline.
// It is fully constructed by the normalizer or not at all, and is immutable
// once built. Optional measurements are pointers; nil means the provider
// reported no data for that quantity.
type Observation struct {
	ObservedAt  time.Time
	StationID   string
	StationName string

	TemperatureC    *float64
	DewpointC       *float64
	DewpointSpreadC *float64

	RelativeHumidity   *float64
	BarometricPressure *float64 // hectopascals

	VisibilityM *float64 // meters; the primary fog signal

	WindSpeedKMH  *float64
	WindGustKMH   *float64
	WindDirection string // one of the eight compass points, or ""

	ConditionsText string
	CloudCoverage  string
}

// Foggy reports whether the observation qualifies as a fog event.
func (o Observation) Foggy() bool {
	return o.VisibilityM != nil && *o.VisibilityM < FogVisibilityThresholdM
}

// Round2 rounds to two decimal places, half away from zero. This rounding is
// authoritative: every numeric field of an Observation passes through it at
// normalization time, and tests pin its exact results.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// DegreesToCompass buckets a wind direction in degrees to the nearest of the
// eight compass points: round(deg/45) mod 8, so 0 maps to N and 360 wraps
// back to N.
func DegreesToCompass(degrees float64) string {
	idx := int(math.Round(degrees/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return compassPoints[idx]
}
