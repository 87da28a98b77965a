package main

import (
	"context"
	"flag"
	"log"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/internal/repository"
	"github.com/LiuTengYing/AI-Support-Widget/internal/service"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/logger"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ai_usage (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		date DATE NOT NULL,
		count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS kb_categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		parent_id BIGINT REFERENCES kb_categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS kb_entries (
		id BIGSERIAL PRIMARY KEY,
		type TEXT NOT NULL,
		question TEXT NOT NULL DEFAULT '',
		answer TEXT NOT NULL,
		keywords TEXT NOT NULL DEFAULT '',
		category_id BIGINT REFERENCES kb_categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_usage_date ON ai_usage (date)`,
	`CREATE INDEX IF NOT EXISTS idx_kb_entries_category ON kb_entries (category_id)`,
}

func main() {
	cleanupDays := flag.Int("cleanup-days", 0, "delete usage rows older than this many days and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if *cleanupDays > 0 {
		usageRepo := repository.NewUsageRepository(db, appLogger)
		ledger := service.NewUsageLedger(usageRepo, appLogger)
		deleted, err := ledger.Cleanup(ctx, *cleanupDays)
		if err != nil {
			appLogger.Fatal("Usage cleanup failed", zap.Error(err))
		}
		appLogger.Info("Usage cleanup completed",
			zap.Int("retention_days", *cleanupDays),
			zap.Int64("deleted", deleted),
		)
		return
	}

	appLogger.Info("Starting database seeding...")

	if err := createSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to create schema", zap.Error(err))
	}

	if err := seedKnowledgeBase(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to seed knowledge base", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")
}

func createSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedKnowledgeBase inserts a starter category tree and a few common
// entries. It is idempotent: a non-empty kb_entries table is left alone.
func seedKnowledgeBase(ctx context.Context, db *pgxpool.Pool, appLogger *zap.Logger) error {
	var count int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM kb_entries").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		appLogger.Info("Knowledge base already seeded, skipping", zap.Int64("entries", count))
		return nil
	}

	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	kbRepo := repository.NewKnowledgeRepository(db, appLogger)

	categories := []*models.Category{
		{Name: "Installation", Description: "Wiring, harnesses, and first power-on"},
		{Name: "Firmware", Description: "Updates and recovery"},
		{Name: "Peripherals", Description: "Cameras, steering wheel controls, CAN bus"},
	}
	for _, category := range categories {
		if err := categoryRepo.Create(ctx, category); err != nil {
			return err
		}
	}

	entries := []*models.KnowledgeEntry{
		{
			Type:       models.KnowledgeTypeQA,
			Question:   "The head unit will not power on after installation",
			Answer:     "Check that the ACC and B+ wires are connected correctly and that the canbus box is plugged in. On most vehicles the unit stays dark when ACC is wired to a switched circuit that is off.",
			Keywords:   "power,install,不开机,安装",
			CategoryID: &categories[0].ID,
		},
		{
			Type:       models.KnowledgeTypeQA,
			Question:   "How do I update the firmware?",
			Answer:     "Download the firmware package for your exact model, copy it to the root of a FAT32 USB drive, and select System Update in settings. Do not power off the unit during the update.",
			Keywords:   "firmware,update,升级,刷机",
			CategoryID: &categories[1].ID,
		},
		{
			Type:       models.KnowledgeTypeContent,
			Answer:     "Steering wheel controls require the correct canbus protocol for your vehicle. Select your car brand under Settings > Car Settings > Protocol. If buttons still do not respond, the canbus box model may not match the vehicle.",
			Keywords:   "steering wheel,swc,方控,协议",
			CategoryID: &categories[2].ID,
		},
	}
	for _, entry := range entries {
		if err := kbRepo.Create(ctx, entry); err != nil {
			return err
		}
	}

	appLogger.Info("Seeded knowledge base",
		zap.Int("categories", len(categories)),
		zap.Int("entries", len(entries)),
	)
	return nil
}
