package weather

import (
	"context"
)

// Provider abstracts the upstream weather data source (e.g. OpenWeatherMap).
// Implementations report failures as *apperrors.UpstreamError.
type Provider interface {
	Name() string
	Current(ctx context.Context, city string) (WeatherSnapshot, error)
	Forecast(ctx context.Context, city string) (ForecastSeries, error)
}
