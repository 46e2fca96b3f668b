package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const maxResponseBytes = 1 << 20

// APIError is a non-2xx answer from the proxy service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather api: status %d", e.Status)
	}
	return fmt.Sprintf("weather api: status %d: %s", e.Status, e.Message)
}

// Backend is what the dashboard needs from the proxy service.
type Backend interface {
	Weather(ctx context.Context, city string) (weather.WeatherSnapshot, error)
	Forecast(ctx context.Context, city string) (weather.Forecast, error)
	Cities(ctx context.Context, query string) ([]cities.Suggestion, error)
}

// APIClient talks to the proxy service over HTTP.
type APIClient struct {
	baseURL string
	client  *http.Client
}

var _ Backend = (*APIClient)(nil)

func NewAPIClient(client *http.Client, baseURL string) *APIClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (c *APIClient) Weather(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	var out weather.WeatherSnapshot
	err := c.get(ctx, "/api/weather", url.Values{"city": {city}}, &out)
	return out, err
}

func (c *APIClient) Forecast(ctx context.Context, city string) (weather.Forecast, error) {
	var out weather.Forecast
	err := c.get(ctx, "/api/forecast", url.Values{"city": {city}}, &out)
	return out, err
}

func (c *APIClient) Cities(ctx context.Context, query string) ([]cities.Suggestion, error) {
	var out []cities.Suggestion
	err := c.get(ctx, "/api/cities", url.Values{"query": {query}}, &out)
	return out, err
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &envelope)
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(envelope.Message)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
