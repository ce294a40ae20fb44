package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"gamecatalog/internal/config"
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

	client := rawg.NewClient(cfg.RAWG)
	store := rawstore.New(cfg.Paths.RawDir, cfg.Paths.DetailDir)
	service := pipeline.NewFetchService(client, store)

	log.Println("Starting bulk fetch pass...")
	if err := service.Execute(context.Background(), cfg.RAWG.DatesFrom); err != nil {
		log.Fatalf("Error during fetch pass: %v", err)
	}

	log.Println("Fetch pass finished.")
	log.Printf("Execution time: %s\n", time.Since(startTime))
}
