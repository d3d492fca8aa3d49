package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rohith4dev/Student-management/internal/middleware"
	"github.com/rohith4dev/Student-management/internal/models"
	"github.com/rohith4dev/Student-management/internal/services"
)

type StudentHandler struct {
	students *services.StudentService
}

func NewStudentHandler(students *services.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

func (h *StudentHandler) List(c *fiber.Ctx) error {
	students, err := h.students.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(students)
}

func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var req models.StudentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	student, err := h.students.Create(c.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(student)
}

func (h *StudentHandler) Update(c *fiber.Ctx) error {
	var req models.StudentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	student, err := h.students.Update(c.Context(), middleware.CurrentUser(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(student)
}

func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	if err := h.students.Delete(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}

func (h *StudentHandler) UpdateSubjects(c *fiber.Ctx) error {
	var req models.SubjectsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	student, err := h.students.UpdateSemesterSubjects(c.Context(), middleware.CurrentUser(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subjects updated successfully", "student": student})
}

func (h *StudentHandler) Photo(c *fiber.Ctx) error {
	url, err := h.students.PhotoURL(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"photo_url": url, "expires_in": "10 minutes"})
}
