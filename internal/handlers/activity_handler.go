package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rohith4dev/Student-management/internal/audit"
)

type ActivityHandler struct {
	recorder *audit.Recorder
}

func NewActivityHandler(recorder *audit.Recorder) *ActivityHandler {
	return &ActivityHandler{recorder: recorder}
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	logs, err := h.recorder.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}
