package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/asad-zip/fogbound/internal/metrics"
	"github.com/asad-zip/fogbound/internal/weather"
)

// MaxHistoricRecords is the provider-imposed ceiling on a single historic
// range request. The client never asks for more; data past the cap is simply
// not retrieved.
const MaxHistoricRecords = 500

const (
	defaultBaseURL         = "https://api.weather.gov"
	defaultUserAgent       = "fogbound-collector/1.0 (github.com/asad-zip/fogbound)"
	defaultLatestTimeout   = 10 * time.Second
	defaultHistoricTimeout = 30 * time.Second
)

// Config controls Client behavior. Zero values fall back to defaults.
type Config struct {
	BaseURL         string
	UserAgent       string
	LatestTimeout   time.Duration
	HistoricTimeout time.Duration
}

// Client fetches observations from api.weather.gov. The latest-observation
// path runs behind a circuit breaker so a flapping upstream trips fast instead
// of burning the full timeout every cycle; the historic path has no breaker
// because backfill is a one-shot operation that must fail loudly.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.LatestTimeout <= 0 {
		cfg.LatestTimeout = defaultLatestTimeout
	}
	if cfg.HistoricTimeout <= 0 {
		cfg.HistoricTimeout = defaultHistoricTimeout
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nws-latest",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		cfg:     cfg,
		http:    &http.Client{},
		breaker: breaker,
		logger:  logger.Named("nws"),
	}
}

// Latest fetches and normalizes the most recent observation for a station.
// Any transport error, non-2xx status, malformed payload, normalization
// failure, or open breaker comes back as an error the caller treats as a
// failed cycle; the next scheduled tick is the retry.
func (c *Client) Latest(ctx context.Context, stationID string) (weather.Observation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.LatestTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/stations/%s/observations/latest", c.cfg.BaseURL, url.PathEscape(stationID))

	result, err := c.breaker.Execute(func() (any, error) {
		var feature ObservationFeature
		if err := c.getJSON(ctx, "latest", endpoint, &feature); err != nil {
			return nil, err
		}
		return feature, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.Observation{}, fmt.Errorf("latest %s: circuit open: %w", stationID, err)
		}
		return weather.Observation{}, fmt.Errorf("latest %s: %w", stationID, err)
	}

	feature, ok := result.(ObservationFeature)
	if !ok {
		return weather.Observation{}, fmt.Errorf("latest %s: unexpected breaker result type", stationID)
	}

	obs, err := Normalize(feature.Properties, stationID)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("latest %s: %w", stationID, err)
	}
	return obs, nil
}

// Historic fetches up to limit raw observation features for a station since
// the given instant, newest first. The limit is capped at MaxHistoricRecords;
// no pagination past the cap is attempted. Errors propagate to the caller
// because backfill has no steady-state retry loop behind it.
func (c *Client) Historic(ctx context.Context, stationID string, since time.Time, limit int) ([]ObservationFeature, error) {
	if limit <= 0 || limit > MaxHistoricRecords {
		limit = MaxHistoricRecords
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.HistoricTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("start", since.UTC().Format(time.RFC3339))
	q.Set("limit", fmt.Sprintf("%d", limit))
	endpoint := fmt.Sprintf("%s/stations/%s/observations?%s", c.cfg.BaseURL, url.PathEscape(stationID), q.Encode())

	var coll observationCollection
	if err := c.getJSON(ctx, "historic", endpoint, &coll); err != nil {
		return nil, fmt.Errorf("historic %s: %w", stationID, err)
	}

	c.logger.Debug("historic observations fetched",
		zap.String("station", stationID),
		zap.Int("count", len(coll.Features)))
	return coll.Features, nil
}

// NearbyStations lists provider stations around a coordinate pair, in the
// provider's proximity order.
func (c *Client) NearbyStations(ctx context.Context, lat, lon float64) ([]Station, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HistoricTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/points/%.4f,%.4f/stations", c.cfg.BaseURL, lat, lon)

	var coll stationCollection
	if err := c.getJSON(ctx, "stations", endpoint, &coll); err != nil {
		return nil, fmt.Errorf("nearby stations: %w", err)
	}

	stations := make([]Station, 0, len(coll.Features))
	for _, f := range coll.Features {
		s := Station{
			ID:   f.Properties.StationIdentifier,
			Name: f.Properties.Name,
		}
		if len(f.Geometry.Coordinates) == 2 {
			s.Lon = f.Geometry.Coordinates[0]
			s.Lat = f.Geometry.Coordinates[1]
		}
		stations = append(stations, s)
	}
	return stations, nil
}

func (c *Client) getJSON(ctx context.Context, kind, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	// NWS requires an identifying User-Agent on every request.
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveFetch(kind, time.Since(start))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
