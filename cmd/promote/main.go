package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"gamecatalog/internal/archive"
	"gamecatalog/internal/config"
	"gamecatalog/internal/database"
	"gamecatalog/internal/pipeline"
	"gamecatalog/internal/rawstore"
)

func setup() (*pipeline.PromoteService, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}

	dbpool, err := database.ConnectDB(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	ctx := context.Background()
	dbManager := database.NewPostgresDBManager(ctx, dbpool)
	if err := dbManager.EnsureSchema(); err != nil {
		dbpool.Close()
		return nil, nil, err
	}

	arc, err := archive.OpenBadger(cfg.Paths.ArchiveDir)
	if err != nil {
		dbpool.Close()
		return nil, nil, err
	}

	store := rawstore.New(cfg.Paths.RawDir, cfg.Paths.DetailDir)
	service := pipeline.NewPromoteService(dbManager, store, arc, cfg.Paths.SnapshotDir, cfg.Promote.Force)

	cleanupFunc := func() {
		if err := arc.Close(); err != nil {
			log.Printf("Error closing archive: %v", err)
		}
		dbpool.Close()
	}

	return service, cleanupFunc, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	service, cleanupFunc, err := setup()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanupFunc()

	log.Println("Starting promote pass...")
	if err := service.Execute(); err != nil {
		log.Fatalf("Error during promote pass: %v", err)
	}

	log.Printf("Execution time: %s\n", time.Since(startTime))
}
