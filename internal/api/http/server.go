package httpapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
)

const serviceName = "weather-dashboard"

// NewApp builds the Fiber app with the shared middleware stack and the
// {message} error envelope. Routes are added with RegisterRoutes.
func NewApp(log *slog.Logger, allowOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler(log.With("component", "http")),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	return app
}

// errorHandler renders every failure as {"message": ...}.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		switch {
		case apperrors.IsValidation(err):
			code = fiber.StatusBadRequest
			message = err.Error()
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				"request_id", c.Locals("requestid"),
				"path", c.Path(),
				"status", code,
				"error", err,
			)
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}

// upstreamFailure converts a service error into the response the client sees:
// the provider's status and message when it sent them, otherwise 500 with
// fallback.
func upstreamFailure(err error, fallback string) error {
	if apperrors.IsValidation(err) {
		return err
	}
	up, ok := apperrors.AsUpstream(err)
	if !ok {
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
	message := up.Message
	if message == "" {
		message = fallback
	}
	return fiber.NewError(up.StatusCode(), message)
}
