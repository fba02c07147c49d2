package handler

import (
	"context"

	"quizforge/internal/dto"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StreakService is the consistency surface the HTTP layer depends on.
type StreakService interface {
	GetStreak(ctx context.Context, userID string) (*service.StreakSummary, error)
}

// StreakHandler serves the daily practice streak.
type StreakHandler struct {
	service       StreakService
	defaultUserID string
}

// NewStreakHandler creates a new StreakHandler instance
func NewStreakHandler(service StreakService, defaultUserID string) *StreakHandler {
	return &StreakHandler{service: service, defaultUserID: defaultUserID}
}

// GetStreak handles GET /api/streak
func (h *StreakHandler) GetStreak(c *fiber.Ctx) error {
	summary, err := h.service.GetStreak(c.Context(), h.defaultUserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.StreakResponse{
		CurrentStreakDays: summary.CurrentStreakDays,
		TodayAnswersCount: summary.TodayAnswersCount,
		StreakGoal:        summary.DailyGoal,
	})
}
