package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"

	"github.com/asad-zip/fogbound/internal/weather"
)

// PubSubPublisher publishes fog alerts to a Google Cloud Pub/Sub topic so
// downstream consumers (dashboards, pagers) can react without polling the
// database. Authentication uses Application Default Credentials.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// fogAlertMessage is the JSON payload published per alert.
type fogAlertMessage struct {
	StationID   string    `json:"station_id"`
	ObservedAt  time.Time `json:"observed_at"`
	VisibilityM *float64  `json:"visibility_m,omitempty"`
	Conditions  string    `json:"conditions,omitempty"`
}

// NewPubSubPublisher creates a Pub/Sub client and verifies the topic exists.
func NewPubSubPublisher(ctx context.Context, projectID, topicID string) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("check pubsub topic %q: %w", topicID, err)
	}
	if !exists {
		_ = client.Close()
		return nil, fmt.Errorf("pubsub topic %q does not exist in project %q", topicID, projectID)
	}

	return &PubSubPublisher{client: client, topic: topic}, nil
}

// FogAlert publishes the alert. The send is asynchronous; the Pub/Sub client
// batches and retries in the background, so this never blocks a collection
// cycle.
func (p *PubSubPublisher) FogAlert(ctx context.Context, obs weather.Observation) error {
	payload, err := json.Marshal(fogAlertMessage{
		StationID:   obs.StationID,
		ObservedAt:  obs.ObservedAt,
		VisibilityM: obs.VisibilityM,
		Conditions:  obs.ConditionsText,
	})
	if err != nil {
		return fmt.Errorf("marshal fog alert: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"station": obs.StationID,
		},
	})
	_ = result // fire and forget; delivery is handled by the client

	return nil
}

// Close stops the topic publisher and closes the client connection.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
