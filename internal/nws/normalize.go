package nws

import (
	"fmt"
	"strings"
	"time"

	"github.com/asad-zip/fogbound/internal/weather"
)

// Normalize converts a provider properties bag into a canonical observation.
// It either yields a complete candidate or fails; there is no partial
// construction. The only fatal condition is a missing or unparseable
// timestamp; every measured quantity is independently optional.
//
// Conversions are deterministic and rounded to two decimals (half away from
// zero) at extraction time: pressure Pa→hPa (/100), wind m/s→km/h (*3.6),
// wind direction degrees→eight-point compass, dewpoint spread computed from
// the already-rounded temperature and dewpoint.
func Normalize(props ObservationProperties, fallbackStationID string) (weather.Observation, error) {
	if props.Timestamp == "" {
		return weather.Observation{}, fmt.Errorf("normalize: observation has no timestamp")
	}
	observedAt, err := time.Parse(time.RFC3339, props.Timestamp)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("normalize: parse timestamp %q: %w", props.Timestamp, err)
	}

	obs := weather.Observation{
		ObservedAt:     observedAt,
		StationID:      stationIDFromURL(props.Station, fallbackStationID),
		StationName:    props.Station,
		ConditionsText: props.TextDescription,
	}

	obs.TemperatureC = extract(props.Temperature)
	obs.DewpointC = extract(props.Dewpoint)
	if obs.TemperatureC != nil && obs.DewpointC != nil {
		spread := weather.Round2(*obs.TemperatureC - *obs.DewpointC)
		obs.DewpointSpreadC = &spread
	}

	obs.RelativeHumidity = extract(props.RelativeHumidity)
	obs.VisibilityM = extract(props.Visibility)

	if pa := extract(props.BarometricPressure); pa != nil {
		hpa := weather.Round2(*pa / 100)
		obs.BarometricPressure = &hpa
	}
	if ms := extract(props.WindSpeed); ms != nil {
		kmh := weather.Round2(*ms * 3.6)
		obs.WindSpeedKMH = &kmh
	}
	if ms := extract(props.WindGust); ms != nil {
		kmh := weather.Round2(*ms * 3.6)
		obs.WindGustKMH = &kmh
	}
	if deg := props.WindDirection.Value; deg != nil {
		obs.WindDirection = weather.DegreesToCompass(*deg)
	}

	if len(props.CloudLayers) > 0 {
		obs.CloudCoverage = props.CloudLayers[0].Amount
	}

	return obs, nil
}

// extract pulls a rounded value out of a quantity field; nil means the
// provider reported no data.
func extract(q QuantityValue) *float64 {
	if q.Value == nil {
		return nil
	}
	v := weather.Round2(*q.Value)
	return &v
}

// stationIDFromURL prefers the identifier embedded in the provider station
// URL, falling back to the id the caller asked for.
func stationIDFromURL(stationURL, fallback string) string {
	if stationURL == "" {
		return fallback
	}
	parts := strings.Split(strings.TrimRight(stationURL, "/"), "/")
	if id := parts[len(parts)-1]; id != "" {
		return id
	}
	return fallback
}
