package handler

import (
	"quizforge/internal/middleware"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler exposes the read-only analytics views.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// UserAnalytics handles GET /api/analytics/me.
func (h *AnalyticsHandler) UserAnalytics(c *fiber.Ctx) error {
	resp, err := h.analytics.UserAnalytics(c.Context(), middleware.ClaimsFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// QuizHistory handles GET /api/quiz-history.
func (h *AnalyticsHandler) QuizHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	resp, err := h.analytics.QuizHistory(c.Context(), middleware.ClaimsFromContext(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
