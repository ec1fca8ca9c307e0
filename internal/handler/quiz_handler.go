package handler

import (
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/middleware"
	"quizforge/internal/service"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler exposes quiz assembly and topic listing.
type QuizHandler struct {
	quizzes *service.QuizService
}

func NewQuizHandler(quizzes *service.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// GenerateQuiz handles POST /api/quizzes.
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}

	resp, err := h.quizzes.GenerateQuiz(c.Context(), middleware.ClaimsFromContext(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuiz handles GET /api/quizzes/:id.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	if err := validation.ULIDParam("id", c.Params("id")); err != nil {
		return err
	}
	resp, err := h.quizzes.GetQuiz(c.Context(), middleware.ClaimsFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListTopics handles GET /api/topics.
func (h *QuizHandler) ListTopics(c *fiber.Ctx) error {
	resp, err := h.quizzes.ListTopics(c.Context(), middleware.ClaimsFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
