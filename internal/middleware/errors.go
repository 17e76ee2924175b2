package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"productos/internal/handlers"
)

// NotFound answers every request that matched no route.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(handlers.Failure("Route not found"))
	}
}

// ErrorHandler is the Fiber error handler. Framework errors (bad method,
// oversized body, ...) keep their status; anything else is logged and
// answered with a generic 500 envelope.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(handlers.Failure(fe.Message))
		}

		log.Error("unhandled error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(handlers.Failure("Internal server error"))
	}
}
