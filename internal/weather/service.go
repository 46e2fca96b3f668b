package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
)

// Service relays current-weather and forecast lookups to a provider and
// normalizes the result. Nothing is cached: every call is a live round trip.
type Service struct {
	provider Provider
	boundary DayBoundary
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(provider Provider, boundary DayBoundary, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		boundary: boundary,
		logger:   logger.With("component", "weather.service"),
	}
}

// Current returns the current conditions for city.
func (s *Service) Current(ctx context.Context, city string) (WeatherSnapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return WeatherSnapshot{}, apperrors.Required("city")
	}

	snapshot, err := s.provider.Current(ctx, city)
	if err != nil {
		s.logger.Warn("current weather lookup failed", "provider", s.provider.Name(), "city", city, "error", err)
		return WeatherSnapshot{}, fmt.Errorf("current weather for %q: %w", city, err)
	}
	return snapshot, nil
}

// Forecast returns the daily forecast window for city: the first sample of each
// calendar day, capped at MaxForecastDays.
func (s *Service) Forecast(ctx context.Context, city string) (Forecast, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperrors.Required("city")
	}

	series, err := s.provider.Forecast(ctx, city)
	if err != nil {
		s.logger.Warn("forecast lookup failed", "provider", s.provider.Name(), "city", city, "error", err)
		return nil, fmt.Errorf("forecast for %q: %w", city, err)
	}

	loc := s.boundary.Location(series.UTCOffsetSeconds)
	window := WindowForecast(series.Samples, loc, MaxForecastDays)
	s.logger.Debug("forecast windowed", "city", city, "samples", len(series.Samples), "days", len(window), "boundary", s.boundary.String())
	return window, nil
}
