package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rohith4dev/Student-management/internal/middleware"
	"github.com/rohith4dev/Student-management/internal/models"
	"github.com/rohith4dev/Student-management/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.DeleteUser(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	var req models.RoleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.users.ChangeRole(c.Context(), middleware.CurrentUser(c), c.Params("id"), req.Role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User role updated successfully"})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req models.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.UpdateOwnProfile(c.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": user})
}
