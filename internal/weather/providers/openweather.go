package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// OpenWeatherProvider implements weather.Provider for the OpenWeatherMap 2.5 API.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
}

type owmWind struct {
	Speed float64 `json:"speed"`
}

type owmCurrentPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main    *owmMain       `json:"main"`
	Wind    owmWind        `json:"wind"`
	Weather []owmCondition `json:"weather"`
}

type owmForecastItem struct {
	Dt      int64          `json:"dt"`
	Main    *owmMain       `json:"main"`
	Wind    owmWind        `json:"wind"`
	Weather []owmCondition `json:"weather"`
}

type owmForecastPayload struct {
	List []owmForecastItem `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// Current fetches /weather for city in metric units.
func (p *OpenWeatherProvider) Current(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	body, err := p.get(ctx, "weather", city)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}

	var payload owmCurrentPayload
	if err := decodePayload(body, &payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	if payload.Main == nil {
		return weather.WeatherSnapshot{}, malformed("current weather has no main block")
	}

	cond := firstCondition(payload.Weather)
	return weather.WeatherSnapshot{
		LocationName:         payload.Name,
		CountryCode:          payload.Sys.Country,
		TemperatureC:         payload.Main.Temp,
		FeelsLikeC:           payload.Main.FeelsLike,
		HumidityPct:          weather.ClampHumidity(int(math.Round(payload.Main.Humidity))),
		WindSpeedMs:          payload.Wind.Speed,
		ConditionLabel:       cond.Main,
		ConditionDescription: cond.Description,
		IconCode:             cond.Icon,
	}, nil
}

// Forecast fetches the 5 day / 3 hour /forecast series for city. Samples
// without a timestamp or main block are dropped.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, city string) (weather.ForecastSeries, error) {
	body, err := p.get(ctx, "forecast", city)
	if err != nil {
		return weather.ForecastSeries{}, err
	}

	var payload owmForecastPayload
	if err := decodePayload(body, &payload); err != nil {
		return weather.ForecastSeries{}, err
	}

	samples := make([]weather.Sample, 0, len(payload.List))
	for _, item := range payload.List {
		if item.Dt <= 0 || item.Main == nil {
			continue
		}
		cond := firstCondition(item.Weather)
		samples = append(samples, weather.Sample{
			Time:                 time.Unix(item.Dt, 0).UTC(),
			TemperatureC:         item.Main.Temp,
			FeelsLikeC:           item.Main.FeelsLike,
			HumidityPct:          weather.ClampHumidity(int(math.Round(item.Main.Humidity))),
			WindSpeedMs:          item.Wind.Speed,
			ConditionLabel:       cond.Main,
			ConditionDescription: cond.Description,
			IconCode:             cond.Icon,
		})
	}

	return weather.ForecastSeries{
		Samples:          samples,
		UTCOffsetSeconds: payload.City.Timezone,
	}, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint, city string) ([]byte, error) {
	if p.apiKey == "" {
		return nil, &apperrors.UpstreamError{Message: "weather provider API key is not configured"}
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &apperrors.UpstreamError{Err: fmt.Errorf("build %s request: %w", endpoint, err)}
	}
	return doRequest(p.client, p.circuit, req)
}

func firstCondition(items []owmCondition) owmCondition {
	if len(items) == 0 {
		return owmCondition{}
	}
	return items[0]
}
