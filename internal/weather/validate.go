package weather

import "fmt"

// Plausibility bounds enforced by Validate. Bounds are inclusive: a reading
// exactly at a limit is accepted.
const (
	MinTemperatureC = -50.0
	MaxTemperatureC = 50.0
	MinHumidity     = 0.0
	MaxHumidity     = 100.0
)

// ValidationError describes why an observation was rejected before persistence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid observation: %s %s", e.Field, e.Reason)
}

// Validate is the final gate before persistence. A nil return means the
// observation may be inserted; passing validation does not guarantee the
// insert succeeds (a duplicate row is a separate, expected outcome).
func Validate(o Observation) error {
	if o.ObservedAt.IsZero() {
		return &ValidationError{Field: "observed_at", Reason: "is missing"}
	}
	if o.StationID == "" {
		return &ValidationError{Field: "station_id", Reason: "is missing"}
	}
	if t := o.TemperatureC; t != nil && (*t < MinTemperatureC || *t > MaxTemperatureC) {
		return &ValidationError{
			Field:  "temperature_c",
			Reason: fmt.Sprintf("%.2f outside [%g, %g]", *t, MinTemperatureC, MaxTemperatureC),
		}
	}
	if h := o.RelativeHumidity; h != nil && (*h < MinHumidity || *h > MaxHumidity) {
		return &ValidationError{
			Field:  "relative_humidity",
			Reason: fmt.Sprintf("%.2f outside [%g, %g]", *h, MinHumidity, MaxHumidity),
		}
	}
	if v := o.VisibilityM; v != nil && *v < 0 {
		return &ValidationError{
			Field:  "visibility_m",
			Reason: fmt.Sprintf("%.2f is negative", *v),
		}
	}
	return nil
}
