package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"gamecatalog/internal/cache"
	"gamecatalog/internal/config"
	"gamecatalog/internal/database"
	"gamecatalog/internal/server"
)

func buildCache(cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Type == "redis" {
		return cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	return cache.NewMemoryCache(), nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}

	dbpool, err := database.ConnectDB(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer dbpool.Close()

	ctx := context.Background()
	dbManager := database.NewPostgresDBManager(ctx, dbpool)
	if err := dbManager.EnsureSchema(); err != nil {
		log.Fatalf("Failed to setup database: %v", err)
	}

	apiCache, err := buildCache(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to setup cache: %v", err)
	}

	catalog := server.NewCatalogService(dbManager, apiCache, cfg.Cache.TTL, cfg.Promote.PullBatchSize)
	router := server.SetupRoutes(catalog)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s", cfg.Server.Address())
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
