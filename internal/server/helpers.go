package server

import (
	"errors"
	"log/slog"

	"blogsphere/internal/middleware"
	"blogsphere/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts a route parameter by name as a positive uint.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid " + param)
	}
	return uint(id), nil
}

// parseBody decodes the JSON request body into dst.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// respondError writes err with the status of its kind. Errors outside the
// taxonomy are logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
		err = models.NewInternalError(err)
	}

	status := models.StatusFor(err)
	switch status {
	case fiber.StatusGatewayTimeout:
		middleware.PersistenceErrors.WithLabelValues("timeout").Inc()
	case fiber.StatusServiceUnavailable:
		middleware.PersistenceErrors.WithLabelValues("upstream").Inc()
		middleware.Logger.ErrorContext(c.UserContext(), "storage unavailable", slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, err)
}
