package ipma

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/couchcryptid/ipma-weather/internal/domain"
	"github.com/couchcryptid/ipma-weather/internal/observability"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the root of the IPMA open-data API.
const DefaultBaseURL = "https://api.ipma.pt/open-data"

// Resource paths relative to the base URL.
const (
	pathLocations    = "/distrits-islands.json"
	pathWeatherTypes = "/weather-type-classe.json"
	pathWindSpeeds   = "/wind-speed-daily-classe.json"
	pathForecast     = "/forecast/meteorology/cities/daily/%d.json"
	pathObservations = "/observation/meteorology/stations/observations.json"
)

// Endpoint labels used in logs and metrics.
const (
	endpointDistricts    = "districts"
	endpointIslands      = "islands"
	endpointWeatherTypes = "weather_types"
	endpointWindSpeeds   = "wind_speed_classes"
	endpointForecast     = "forecast"
	endpointObservations = "observations"
)

// Client implements domain.Upstream against the IPMA REST API. It performs
// exactly one GET per call and never retries.
type Client struct {
	http     *resty.Client
	validate *validator.Validate
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewClient creates an IPMA client for baseURL with a fixed per-request
// timeout. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
		logger:   logger,
	}
}

// FetchDistricts returns the entries of the locations index typed "D".
func (c *Client) FetchDistricts(ctx context.Context) ([]domain.Location, error) {
	return fetchList[locationRecord, domain.Location](ctx, c, endpointDistricts, pathLocations, hasLocationType(locationTypeDistrict))
}

// FetchIslands returns the entries of the locations index typed "I".
func (c *Client) FetchIslands(ctx context.Context) ([]domain.Location, error) {
	return fetchList[locationRecord, domain.Location](ctx, c, endpointIslands, pathLocations, hasLocationType(locationTypeIsland))
}

// FetchWeatherTypes returns the weather-type lookup table.
func (c *Client) FetchWeatherTypes(ctx context.Context) ([]domain.WeatherType, error) {
	return fetchList[weatherTypeRecord, domain.WeatherType](ctx, c, endpointWeatherTypes, pathWeatherTypes, nil)
}

// FetchWindSpeedClasses returns the daily wind-speed class lookup table.
func (c *Client) FetchWindSpeedClasses(ctx context.Context) ([]domain.WindSpeedClass, error) {
	return fetchList[windSpeedRecord, domain.WindSpeedClass](ctx, c, endpointWindSpeeds, pathWindSpeeds, nil)
}

// FetchForecast returns the daily forecast for an internal location id.
func (c *Client) FetchForecast(ctx context.Context, globalID int) ([]domain.ForecastDay, error) {
	return fetchList[forecastRecord, domain.ForecastDay](ctx, c, endpointForecast, fmt.Sprintf(pathForecast, globalID), nil)
}

// FetchObservations returns the latest station observations.
func (c *Client) FetchObservations(ctx context.Context) ([]domain.Observation, error) {
	body, err := c.get(ctx, endpointObservations, pathObservations)
	if err != nil {
		return nil, err
	}
	records, err := decodeObservations(c.validate, body)
	if err != nil {
		return nil, c.invalid(endpointObservations, err)
	}
	c.record(endpointObservations, "")
	return convert[observationRecord, domain.Observation](records), nil
}

// fetchList fetches a {"data": [...]} resource, validates the records that
// pass keep, and converts them to domain values.
func fetchList[R wireRecord[D], D any](ctx context.Context, c *Client, endpoint, path string, keep func(json.RawMessage) bool) ([]D, error) {
	body, err := c.get(ctx, endpoint, path)
	if err != nil {
		return nil, err
	}
	records, err := decodeData[R](c.validate, body, keep)
	if err != nil {
		return nil, c.invalid(endpoint, err)
	}
	c.record(endpoint, "")
	return convert[R, D](records), nil
}

func convert[R wireRecord[D], D any](records []R) []D {
	out := make([]D, len(records))
	for i := range records {
		out[i] = records[i].toDomain()
	}
	return out
}

// get performs the request and normalizes transport failures and non-2xx
// statuses into *domain.Error.
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(path)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		c.record(endpoint, domain.KindNetwork)
		c.logger.Warn("ipma request failed", "endpoint", endpoint, "path", path, "error", err)
		return nil, &domain.Error{Kind: domain.KindNetwork, Message: "network error occurred", Err: err}
	}

	status := resp.StatusCode()
	c.logger.Debug("ipma request",
		"endpoint", endpoint,
		"path", path,
		"status", status,
		"duration", time.Since(start),
	)

	switch {
	case status == http.StatusNotFound:
		c.record(endpoint, domain.KindNotFound)
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: "resource not found", Status: status}
	case status < 200 || status > 299:
		c.record(endpoint, domain.KindInvalidResponse)
		return nil, &domain.Error{
			Kind:    domain.KindInvalidResponse,
			Message: fmt.Sprintf("api error: status %d", status),
			Status:  status,
			Err:     fmt.Errorf("%s: %s", resp.Status(), truncate(resp.Body(), 256)),
		}
	}
	return resp.Body(), nil
}

// invalid records a schema failure and wraps it as a validation error.
func (c *Client) invalid(endpoint string, err error) error {
	c.record(endpoint, domain.KindValidation)
	c.logger.Warn("ipma response failed validation", "endpoint", endpoint, "error", err)
	return &domain.Error{Kind: domain.KindValidation, Message: "invalid data received from api", Err: err}
}

// record counts a finished request. An empty kind means success.
func (c *Client) record(endpoint string, kind domain.ErrorKind) {
	outcome := "success"
	if kind != "" {
		outcome = strings.ToLower(string(kind))
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

// truncate shortens b to at most n bytes without splitting a UTF-8 sequence.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return string(b[:n]) + "..."
}
