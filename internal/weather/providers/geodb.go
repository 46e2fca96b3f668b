package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/common"
)

// GeoDBProvider implements cities.Provider for the GeoDB Cities API on RapidAPI.
type GeoDBProvider struct {
	name    string
	apiKey  string
	baseURL string
	host    string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

var _ cities.Provider = (*GeoDBProvider)(nil)

func NewGeoDBProvider(client *http.Client, apiKey, baseURL string) *GeoDBProvider {
	base := strings.TrimRight(baseURL, "/")
	host := ""
	if u, err := url.Parse(base); err == nil {
		host = u.Host
	}
	return &GeoDBProvider{
		name:    "geodb",
		apiKey:  apiKey,
		baseURL: base,
		host:    host,
		client:  client,
		circuit: newBreaker("geodb"),
	}
}

func (p *GeoDBProvider) Name() string {
	return p.name
}

type geoDBPayload struct {
	Data *[]struct {
		Name        string `json:"name"`
		CountryCode string `json:"countryCode"`
	} `json:"data"`
}

// Search calls /v1/geo/cities with a name prefix.
func (p *GeoDBProvider) Search(ctx context.Context, prefix string, limit int) ([]cities.City, error) {
	values := url.Values{}
	values.Set("namePrefix", prefix)
	values.Set("limit", strconv.Itoa(limit))

	u := fmt.Sprintf("%s/v1/geo/cities?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &apperrors.UpstreamError{Err: fmt.Errorf("build cities request: %w", err)}
	}
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", p.host)

	body, err := doRequest(p.client, p.circuit, req)
	if err != nil {
		return nil, err
	}

	var payload geoDBPayload
	if err := decodePayload(body, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, malformed("cities response has no data array")
	}

	out := make([]cities.City, 0, len(*payload.Data))
	for _, c := range *payload.Data {
		if common.Blank(c.Name) {
			continue
		}
		out = append(out, cities.City{Name: c.Name, CountryCode: c.CountryCode})
	}
	return out, nil
}
