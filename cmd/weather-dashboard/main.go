package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	dotenvErr := config.LoadDotEnv()
	log := logger.New("weather-dashboard")
	if dotenvErr != nil {
		log.Info("no .env file loaded", "error", dotenvErr)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.OpenWeather.APIKey == "" {
		log.Warn("OPENWEATHER_API_KEY is not set; weather lookups will fail")
	}
	if cfg.GeoDB.APIKey == "" {
		log.Warn("GEODB_API_KEY is not set; city suggestions will fail")
	}

	boundary, err := weather.ParseDayBoundary(cfg.ForecastTimezone)
	if err != nil {
		log.Error("invalid forecast timezone", "value", cfg.ForecastTimezone, "error", err)
		os.Exit(1)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Providers, each behind its own circuit breaker.
	owm := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeather.APIKey, cfg.OpenWeather.BaseURL)
	geodb := providers.NewGeoDBProvider(httpClient, cfg.GeoDB.APIKey, cfg.GeoDB.BaseURL)

	weatherSvc := weather.NewService(owm, boundary, log)
	citySvc := cities.NewService(geodb, log)

	app := httpapi.NewApp(log, cfg.CORSAllowOrigins)
	httpapi.RegisterRoutes(app, weatherSvc, citySvc)

	// Start server with graceful shutdown
	go func() {
		log.Info("server starting", "port", cfg.Port, "forecast_timezone", boundary.String())
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server exited")
}
