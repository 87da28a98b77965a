package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/docs"
	"github.com/LiuTengYing/AI-Support-Widget/internal/api/handlers"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/auth"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/middleware"
)

func SetupRouter(
	cfg *config.Config,
	chatHandler *handlers.ChatHandler,
	kbHandler *handlers.KnowledgeHandler,
	statsHandler *handlers.StatsHandler,
	adminHandler *handlers.AdminHandler,
	testHandler *handlers.TestHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-User-ID,X-User-Admin",
	}))
	app.Use(middleware.RequestLog(appLogger))

	// Swagger
	_ = docs.SwaggerInfo // importing docs registers the spec via init()
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Admin login (public)
	app.Post("/api/admin/login", adminHandler.Login)

	api := app.Group("/api/ai-support")

	// Widget-facing chat endpoint. The forum forwards the user identity.
	api.Post("/chat", middleware.RequireActor(appLogger), chatHandler.Chat)

	// Operator endpoints
	adminOnly := middleware.AdminAuth(jwtManager, appLogger)
	api.Get("/test", adminOnly, testHandler.Test)
	api.Get("/stats", adminOnly, statsHandler.Stats)

	kb := api.Group("/kb", adminOnly)
	// /categories must be registered before /:id.
	kb.Get("/categories", kbHandler.Categories)
	kb.Get("", kbHandler.List)
	kb.Post("", kbHandler.Create)
	kb.Get("/:id", kbHandler.Get)
	kb.Put("/:id", kbHandler.Update)
	kb.Delete("/:id", kbHandler.Delete)

	return app
}
