package handler

import (
	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

// statusFor maps a core error onto an HTTP status
func statusFor(err error) int {
	switch {
	case apperr.IsNotFound(err):
		return fiber.StatusNotFound
	case apperr.IsValidation(err), apperr.IsReference(err), apperr.IsInsufficientStock(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err to the client. Unexpected errors are logged and hidden.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("Request failed",
			zap.String("request_id", logger.RequestID(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return fail(c, status, "Internal Server Error")
	}
	return fail(c, status, err.Error())
}

// paramID parses a positive :id route parameter
func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
