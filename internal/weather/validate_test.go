package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validObservation() Observation {
	return Observation{
		ObservedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		StationID:  "KPNE",
	}
}

func TestValidateAccepts(t *testing.T) {
	t.Parallel()

	cases := map[string]Observation{
		"minimal required fields": validObservation(),
		"temperature at lower bound": func() Observation {
			o := validObservation()
			o.TemperatureC = f64(-50)
			return o
		}(),
		"temperature at upper bound": func() Observation {
			o := validObservation()
			o.TemperatureC = f64(50)
			return o
		}(),
		"humidity at bounds": func() Observation {
			o := validObservation()
			o.RelativeHumidity = f64(100)
			return o
		}(),
		"zero visibility": func() Observation {
			o := validObservation()
			o.VisibilityM = f64(0)
			return o
		}(),
	}
	for name, obs := range cases {
		assert.NoError(t, Validate(obs), name)
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Observation)
		field   string
	}{
		{"missing observed_at", func(o *Observation) { o.ObservedAt = time.Time{} }, "observed_at"},
		{"missing station_id", func(o *Observation) { o.StationID = "" }, "station_id"},
		{"temperature too hot", func(o *Observation) { o.TemperatureC = f64(51) }, "temperature_c"},
		{"temperature too cold", func(o *Observation) { o.TemperatureC = f64(-50.01) }, "temperature_c"},
		{"humidity over 100", func(o *Observation) { o.RelativeHumidity = f64(101) }, "relative_humidity"},
		{"humidity negative", func(o *Observation) { o.RelativeHumidity = f64(-0.5) }, "relative_humidity"},
		{"negative visibility", func(o *Observation) { o.VisibilityM = f64(-1) }, "visibility_m"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			obs := validObservation()
			tc.mutate(&obs)

			err := Validate(obs)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
