package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/dto"
	"github.com/LiuTengYing/AI-Support-Widget/internal/provider"
)

type TestHandler struct {
	gateway *provider.Gateway
	logger  *zap.Logger
}

func NewTestHandler(gateway *provider.Gateway, logger *zap.Logger) *TestHandler {
	return &TestHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// Test godoc
// @Summary Test the AI provider connection
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.ProviderTestResponse
// @Failure 401 {object} map[string]string
// @Router /api/ai-support/test [get]
func (h *TestHandler) Test(c *fiber.Ctx) error {
	connected := h.gateway.TestConnection(c.Context())
	if !connected {
		h.logger.Warn("Provider connection test failed",
			zap.String("provider", h.gateway.ProviderName()))
	}

	return c.JSON(dto.ProviderTestResponse{
		Connected: connected,
		Provider:  h.gateway.ProviderName(),
		Model:     h.gateway.ProviderModel(),
	})
}
