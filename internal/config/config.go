package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"
	defaultGeoDBURL       = "https://wft-geo-db.p.rapidapi.com"
)

var validate = validator.New()

// AppConfig is the proxy service configuration.
type AppConfig struct {
	Port string `yaml:"port" validate:"required,numeric"`

	OpenWeather ProviderConfig `yaml:"openWeather"`
	GeoDB       ProviderConfig `yaml:"geoDb"`

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration `yaml:"httpTimeout" validate:"gt=0"`

	// ForecastTimezone picks the calendar used to bucket forecast samples:
	// "UTC", "provider", or an IANA zone name.
	ForecastTimezone string `yaml:"forecastTimezone" validate:"required"`

	CORSAllowOrigins string `yaml:"corsAllowOrigins" validate:"required"`
}

// ProviderConfig holds credentials and endpoint for one upstream API.
type ProviderConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl" validate:"required,url"`
}

// ClientConfig is the dashboard client configuration.
type ClientConfig struct {
	APIBaseURL  string        `yaml:"apiBaseUrl" validate:"required,url"`
	StatePath   string        `yaml:"statePath" validate:"required"`
	HTTPTimeout time.Duration `yaml:"httpTimeout" validate:"gte=0"`
}

// Load reads the proxy configuration: defaults, then an optional YAML file
// (CONFIG_PATH), then environment variables. Call LoadDotEnv first to pick up
// a .env file.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:             "5000",
		OpenWeather:      ProviderConfig{BaseURL: defaultOpenWeatherURL},
		GeoDB:            ProviderConfig{BaseURL: defaultGeoDBURL},
		HTTPTimeout:      10 * time.Second,
		ForecastTimezone: "UTC",
		CORSAllowOrigins: "*",
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.OpenWeather.APIKey = common.FirstNonBlank(os.Getenv("OPENWEATHER_API_KEY"), os.Getenv("API_KEY"), cfg.OpenWeather.APIKey)
	cfg.OpenWeather.BaseURL = getenvDefault("OPENWEATHER_BASE_URL", cfg.OpenWeather.BaseURL)
	cfg.GeoDB.APIKey = getenvDefault("GEODB_API_KEY", cfg.GeoDB.APIKey)
	cfg.GeoDB.BaseURL = getenvDefault("GEODB_BASE_URL", cfg.GeoDB.BaseURL)
	cfg.ForecastTimezone = getenvDefault("FORECAST_TIMEZONE", cfg.ForecastTimezone)
	cfg.CORSAllowOrigins = getenvDefault("CORS_ALLOW_ORIGINS", cfg.CORSAllowOrigins)

	timeout, err := getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks struct constraints and that the forecast timezone resolves.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := weather.ParseDayBoundary(c.ForecastTimezone); err != nil {
		return err
	}
	return nil
}

// LoadClient reads the dashboard client configuration.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{
		APIBaseURL:  "http://localhost:5000",
		StatePath:   defaultStatePath(),
		HTTPTimeout: 15 * time.Second,
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.APIBaseURL = strings.TrimRight(getenvDefault("WEATHER_API_BASE_URL", cfg.APIBaseURL), "/")
	cfg.StatePath = getenvDefault("WEATHER_STATE_PATH", cfg.StatePath)

	timeout, err := getenvDuration("WEATHER_CLIENT_TIMEOUT", cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from the given files, or from .env in
// the working directory when none are given. Variables already set win. A
// missing file is reported as an error the caller is free to ignore.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

func hydrateFromFile(out any, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".weather-dashboard.db"
	}
	return filepath.Join(dir, "weather-dashboard", "state.db")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); !common.Blank(v) {
		return strings.TrimSpace(v)
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
