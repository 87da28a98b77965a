package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/dto"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/auth"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"
)

type AdminHandler struct {
	cfg        *config.AdminConfig
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAdminHandler(cfg *config.AdminConfig, jwtManager *auth.JWTManager, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		cfg:        cfg,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Login godoc
// @Summary Log in to the admin panel
// @Description Exchange the admin panel password for a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin password"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 401 {object} map[string]string
// @Router /api/admin/login [post]
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if h.cfg.PasswordHash == "" || !auth.CheckPasswordHash(req.Password, h.cfg.PasswordHash) {
		h.logger.Warn("Failed admin login attempt", zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := h.jwtManager.GenerateToken("admin")
	if err != nil {
		h.logger.Error("Failed to issue admin token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue token",
		})
	}

	return c.JSON(dto.AdminLoginResponse{
		Token:     token,
		ExpiresIn: int64(h.jwtManager.TokenDuration().Seconds()),
	})
}
