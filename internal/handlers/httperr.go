package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rohith4dev/Student-management/internal/apperrors"
)

// respondError maps a service error onto its HTTP status and JSON shape.
func respondError(c *fiber.Ctx, err error) error {
	e := apperrors.FromError(err)
	return c.Status(e.Status).JSON(fiber.Map{"error": e.Message})
}
