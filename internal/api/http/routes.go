package httpapi

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// WeatherService is the part of weather.Service the handlers use.
type WeatherService interface {
	Current(ctx context.Context, city string) (weather.WeatherSnapshot, error)
	Forecast(ctx context.Context, city string) (weather.Forecast, error)
}

// CityService is the part of cities.Service the handlers use.
type CityService interface {
	Suggest(ctx context.Context, query string) ([]cities.Suggestion, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, weatherSvc WeatherService, citySvc CityService) {
	api := app.Group("/api")

	api.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return err
		}

		snapshot, err := weatherSvc.Current(c.UserContext(), q.City)
		if err != nil {
			return upstreamFailure(err, "Failed to fetch weather data")
		}
		return c.JSON(snapshot)
	})

	api.Get("/forecast", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return err
		}

		forecast, err := weatherSvc.Forecast(c.UserContext(), q.City)
		if err != nil {
			return upstreamFailure(err, "Failed to fetch forecast data")
		}
		if forecast == nil {
			forecast = weather.Forecast{}
		}
		return c.JSON(forecast)
	})

	api.Get("/cities", func(c *fiber.Ctx) error {
		q := suggestQuery{Query: strings.TrimSpace(c.Query("query"))}
		if err := validate.Struct(q); err != nil {
			return apperrors.Required("query")
		}

		suggestions, err := citySvc.Suggest(c.UserContext(), q.Query)
		if err != nil {
			return upstreamFailure(err, "Failed to fetch cities data")
		}
		if suggestions == nil {
			suggestions = []cities.Suggestion{}
		}
		return c.JSON(suggestions)
	})
}

// cityQuery holds the query parameters of the weather and forecast endpoints.
type cityQuery struct {
	City string `validate:"required"`
}

type suggestQuery struct {
	Query string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: strings.TrimSpace(c.Query("city"))}
	if err := validate.Struct(q); err != nil {
		return q, apperrors.Required("city")
	}
	return q, nil
}
