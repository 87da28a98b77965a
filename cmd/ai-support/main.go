package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LiuTengYing/AI-Support-Widget/internal/api"
	"github.com/LiuTengYing/AI-Support-Widget/internal/api/handlers"
	"github.com/LiuTengYing/AI-Support-Widget/internal/provider"
	"github.com/LiuTengYing/AI-Support-Widget/internal/repository"
	"github.com/LiuTengYing/AI-Support-Widget/internal/service"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/auth"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/logger"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/postgres"

	"go.uber.org/zap"
)

// @title AI Support Widget API
// @version 1.0
// @description Forum-embedded AI support assistant

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting AI support service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	usageRepo := repository.NewUsageRepository(db, appLogger)
	kbRepo := repository.NewKnowledgeRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	forumRepo := repository.NewForumRepository(db, appLogger)

	// Initialize JWT manager for the admin panel
	jwtManager := auth.NewJWTManager(cfg.Admin.JWTSecret, cfg.Admin.JWTExpiry)

	// Initialize services
	usageLedger := service.NewUsageLedger(usageRepo, appLogger)
	forumSearch := service.NewForumSearchService(forumRepo, &cfg.Search, cfg.Forum.BaseURL, appLogger)
	kbSearch := service.NewKnowledgeSearchService(kbRepo, appLogger)
	kbService := service.NewKnowledgeService(kbRepo, categoryRepo, appLogger)

	gateway := provider.NewGateway(&cfg.AI, appLogger)
	appLogger.Info("AI provider configured",
		zap.String("provider", gateway.ProviderName()),
		zap.String("model", gateway.ProviderModel()),
	)

	chatService := service.NewChatService(usageLedger, forumSearch, kbSearch, gateway, &cfg.AI, &cfg.Search, appLogger)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	kbHandler := handlers.NewKnowledgeHandler(kbService, appLogger)
	statsHandler := handlers.NewStatsHandler(usageLedger, appLogger)
	adminHandler := handlers.NewAdminHandler(&cfg.Admin, jwtManager, appLogger)
	testHandler := handlers.NewTestHandler(gateway, appLogger)

	// Setup router
	app := api.SetupRouter(cfg, chatHandler, kbHandler, statsHandler, adminHandler, testHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
