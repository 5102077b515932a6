package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestDegreesToCompass(t *testing.T) {
	t.Parallel()

	cases := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{46, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{337, "NW"},
		{338, "N"},
		{359, "N"}, // wraps past NW back to N
		{360, "N"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DegreesToCompass(tc.degrees), "degrees=%v", tc.degrees)
	}
}

func TestRound2(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{1013.25, 1013.25},
		{1013.249, 1013.25},
		{17.999999, 18},
		{2.125, 2.13}, // exact half rounds away from zero
		{-2.125, -2.13},
		{0, 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Round2(tc.in), 1e-9, "in=%v", tc.in)
	}
}

func TestFoggy(t *testing.T) {
	t.Parallel()

	assert.True(t, Observation{VisibilityM: f64(999)}.Foggy())
	assert.True(t, Observation{VisibilityM: f64(500)}.Foggy())
	// Strictly less than: exactly 1000 m is not fog.
	assert.False(t, Observation{VisibilityM: f64(1000)}.Foggy())
	assert.False(t, Observation{VisibilityM: f64(10000)}.Foggy())
	assert.False(t, Observation{}.Foggy())
}
