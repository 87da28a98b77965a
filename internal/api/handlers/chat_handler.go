package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/dto"
	"github.com/LiuTengYing/AI-Support-Widget/internal/service"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/middleware"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat godoc
// @Summary Ask the support assistant
// @Description Answer a forum user's question using forum posts, the knowledge base, and the configured AI provider
// @Tags chat
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Forum user id"
// @Param X-User-Admin header string false "Set to true for forum admins"
// @Param request body dto.ChatRequest true "User message and optional recent history"
// @Success 200 {object} dto.ChatResponse
// @Failure 403 {object} map[string]string
// @Router /api/ai-support/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		// A malformed body gets the same shape as any other reply so the
		// widget never has to special-case transport errors.
		return c.JSON(dto.NewChatResponse(string(service.StatusInvalidInput), "Please provide a valid message.", nil))
	}

	reply := h.chatService.HandleMessage(c.Context(), actor, req.Message, req.History)

	return c.JSON(dto.NewChatResponse(string(reply.Status), reply.Response, reply.References))
}
