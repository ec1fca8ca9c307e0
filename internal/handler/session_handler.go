package handler

import (
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/middleware"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler exposes the session state machine over HTTP.
type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// StartSession handles POST /api/sessions.
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	resp, err := h.sessions.StartSession(c.Context(), middleware.ClaimsFromContext(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSessionStatus handles GET /api/sessions/:id/status.
func (h *SessionHandler) GetSessionStatus(c *fiber.Ctx) error {
	if err := validation.ULIDParam("id", c.Params("id")); err != nil {
		return err
	}
	resp, err := h.sessions.GetSessionStatus(c.Context(), middleware.ClaimsFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitSession handles POST /api/sessions/:id/submit.
func (h *SessionHandler) SubmitSession(c *fiber.Ctx) error {
	if err := validation.ULIDParam("id", c.Params("id")); err != nil {
		return err
	}
	var req dto.SubmitSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	resp, err := h.sessions.SubmitSession(c.Context(), middleware.ClaimsFromContext(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
