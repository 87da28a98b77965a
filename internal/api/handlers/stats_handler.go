package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/service"
)

type StatsHandler struct {
	usage  *service.UsageLedger
	logger *zap.Logger
}

func NewStatsHandler(usage *service.UsageLedger, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		usage:  usage,
		logger: logger,
	}
}

// Stats godoc
// @Summary Usage statistics
// @Description Aggregated assistant usage for the admin panel
// @Tags admin
// @Produce json
// @Param period query string false "today, week, month, or all (default all)"
// @Security Bearer
// @Success 200 {object} models.UsageStats
// @Failure 401 {object} map[string]string
// @Router /api/ai-support/stats [get]
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	period := c.Query("period", "all")
	switch period {
	case "today", "week", "month", "all":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid period",
		})
	}

	stats, err := h.usage.Stats(c.Context(), period)
	if err != nil {
		h.logger.Error("Failed to load usage stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load stats",
		})
	}
	return c.JSON(stats)
}
