package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/asad-zip/fogbound/internal/weather"
)

func TestLogPublisherEmitsWarning(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	p := NewLogPublisher(zap.New(core))

	visibility := 420.0
	obs := weather.Observation{
		ObservedAt:  time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC),
		StationID:   "KPNE",
		VisibilityM: &visibility,
	}

	assert.NoError(t, p.FogAlert(context.Background(), obs))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "fog detected", entries[0].Message)
		fields := entries[0].ContextMap()
		assert.Equal(t, "KPNE", fields["station"])
		assert.Equal(t, 420.0, fields["visibility_m"])
	}
}

func TestNoOpPublisher(t *testing.T) {
	t.Parallel()

	var p Publisher = NoOpPublisher{}
	assert.NoError(t, p.FogAlert(context.Background(), weather.Observation{}))
	assert.NoError(t, p.Close())
}
