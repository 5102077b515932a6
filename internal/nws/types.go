// Package nws talks to the api.weather.gov observation endpoints and turns
// their payloads into canonical weather.Observation records.
package nws

// QuantityValue is how the provider reports a single measured quantity: a
// nullable value plus unit metadata. A missing field or a null value both mean
// "no data", never an error.
type QuantityValue struct {
	Value          *float64 `json:"value"`
	UnitCode       string   `json:"unitCode"`
	QualityControl string   `json:"qualityControl,omitempty"`
}

// CloudLayer is one entry of the ordered cloud layer list.
type CloudLayer struct {
	Base   QuantityValue `json:"base"`
	Amount string        `json:"amount"`
}

// ObservationProperties is the provider's properties bag for one observation.
// Units are the provider's native ones: Celsius, pascals, meters, m/s, degrees.
type ObservationProperties struct {
	Station            string        `json:"station"` // station URL; last path segment is the id
	Timestamp          string        `json:"timestamp"`
	TextDescription    string        `json:"textDescription"`
	Temperature        QuantityValue `json:"temperature"`
	Dewpoint           QuantityValue `json:"dewpoint"`
	WindDirection      QuantityValue `json:"windDirection"`
	WindSpeed          QuantityValue `json:"windSpeed"`
	WindGust           QuantityValue `json:"windGust"`
	BarometricPressure QuantityValue `json:"barometricPressure"`
	Visibility         QuantityValue `json:"visibility"`
	RelativeHumidity   QuantityValue `json:"relativeHumidity"`
	CloudLayers        []CloudLayer  `json:"cloudLayers"`
}

// ObservationFeature is one GeoJSON feature from the observations endpoints.
type ObservationFeature struct {
	ID         string                `json:"id"`
	Properties ObservationProperties `json:"properties"`
}

// observationCollection is the shape of the historic range response.
// Features arrive newest-first, per provider convention.
type observationCollection struct {
	Features []ObservationFeature `json:"features"`
}

// Station describes one entry from the nearby-station discovery endpoint.
type Station struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

type stationCollection struct {
	Features []struct {
		Properties struct {
			StationIdentifier string `json:"stationIdentifier"`
			Name              string `json:"name"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"features"`
}
