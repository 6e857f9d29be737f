package main

import (
	"context"
	"flag"
	"log"

	"parent-assistant-be/internal/config"
	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/internal/repository/implementation"
	"parent-assistant-be/internal/repository/unitofwork"
	"parent-assistant-be/internal/service"
	"parent-assistant-be/pkg/database"
	"parent-assistant-be/pkg/embedding"
)

func main() {
	cfg := config.Load()

	dir := flag.String("dir", cfg.Assistant.ChunksDir, "directory holding <level>.json chunk files")
	flag.Parse()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	ctx := context.Background()

	model := cfg.Ai.EmbeddingModel
	if cfg.Ai.EmbeddingProvider == "ollama" {
		model = cfg.Ai.OllamaModel
	}
	embedder, err := embedding.NewProvider(ctx, cfg.Ai.EmbeddingProvider, cfg.Keys.GoogleAPIKey, model, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("Error: embedding provider: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	knowledge := service.NewKnowledgeService(
		implementation.NewKnowledgeChunkRepository(db),
		unitofwork.NewRepositoryFactory(db),
		embedder,
		sysLogger,
	)

	seeded, err := knowledge.Seed(ctx, *dir)
	if err != nil {
		log.Fatalf("Error: seeding failed: %v", err)
	}

	for lv, n := range seeded {
		log.Printf("✓ %s: %d chunks", lv, n)
	}
	log.Println("✅ Success: knowledge chunks seeded.")
}
