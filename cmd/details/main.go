package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"gamecatalog/internal/config"
	"gamecatalog/internal/database"
	"gamecatalog/internal/pipeline"
	"gamecatalog/internal/rawg"
	"gamecatalog/internal/rawstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}

	dbpool, err := database.ConnectDB(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer dbpool.Close()

	ctx := context.Background()
	dbManager := database.NewPostgresDBManager(ctx, dbpool)

	client := rawg.NewClient(cfg.RAWG)
	store := rawstore.New(cfg.Paths.RawDir, cfg.Paths.DetailDir)
	service := pipeline.NewDetailService(
		dbManager,
		client,
		store,
		cfg.RAWG.PageDelay,
		cfg.RAWG.DetailCooldown,
		cfg.Promote.PullBatchSize,
	)

	log.Println("Starting detail fetch pass...")
	if err := service.Execute(ctx); err != nil {
		log.Fatalf("Error during detail pass: %v", err)
	}

	log.Println("Detail pass finished.")
	log.Printf("Execution time: %s\n", time.Since(startTime))
}
