package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/middleware"
	"github.com/saeid-a/EvalAdminBack/internal/services"
	"github.com/saeid-a/EvalAdminBack/internal/validation"
	"go.uber.org/zap"
)

// mapServiceError turns a service error into the JSON error body. Errors it
// does not recognize are logged and hidden behind a generic 500.
func mapServiceError(c *fiber.Ctx, err error) error {
	var fieldErrs validation.Errors
	var weightErr *services.DrillWeightError
	var rowsErr *services.ImportRowsError

	switch {
	case errors.As(err, &fieldErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "fields": fieldErrs})
	case errors.As(err, &weightErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid drill configuration", "issues": weightErr.Issues})
	case errors.As(err, &rowsErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error(), "result": rowsErr.Result})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrAccountInactive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is inactive"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrSessionLocked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": services.ErrSessionLocked.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already exists"})
	case errors.Is(err, services.ErrInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Record is still referenced"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Invalid state transition"})
	case errors.Is(err, services.ErrImportHasErrors):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "File storage is not configured"})
	default:
		zap.L().Error("request failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

var errInvalidBody = fmt.Errorf("%w: request body must be valid JSON", services.ErrInvalidInput)

// bindBody decodes the JSON body and runs the struct's validate tags. The
// returned error is meant for mapServiceError.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return validation.Struct(out)
}
