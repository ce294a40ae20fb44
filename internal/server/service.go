package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gamecatalog/internal/cache"
	"gamecatalog/internal/database"
	"gamecatalog/internal/pipeline"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500

	datasetCacheKey = "games:all"
)

// CatalogService serves the games table to the dashboard. Reads of the full
// dataset go through a bounded-TTL cache so a refresh-happy dashboard does
// not hammer the store.
type CatalogService struct {
	dbManager database.DBManager
	cache     cache.Cache
	cacheTTL  time.Duration
	pullBatch int
}

func NewCatalogService(dbManager database.DBManager, c cache.Cache, cacheTTL time.Duration, pullBatch int) *CatalogService {
	return &CatalogService{
		dbManager: dbManager,
		cache:     c,
		cacheTTL:  cacheTTL,
		pullBatch: pullBatch,
	}
}

func (s *CatalogService) Health(w http.ResponseWriter, r *http.Request) {
	count, err := s.dbManager.CountGames()
	if err != nil {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]any{"status": "ok", "games": count})
}

// ListGames returns one window of the table, mirroring the pull-all reader's
// window shape.
func (s *CatalogService) ListGames(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageLimit)
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	games, err := s.dbManager.FetchGamesWindow(offset, limit)
	if err != nil {
		log.Printf("Failed to read games window: %v", err)
		http.Error(w, "failed to retrieve games", http.StatusInternalServerError)
		return
	}

	writeJSON(w, games)
}

func (s *CatalogService) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	game, err := s.dbManager.FetchGame(gameID)
	if err != nil {
		log.Printf("Failed to read game %d: %v", gameID, err)
		http.Error(w, "failed to retrieve game", http.StatusInternalServerError)
		return
	}
	if game == nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	writeJSON(w, game)
}

// AllGames returns the complete current dataset, cached for the configured
// TTL.
func (s *CatalogService) AllGames(w http.ResponseWriter, r *http.Request) {
	body, err := s.cache.GetOrSet(r.Context(), datasetCacheKey, s.cacheTTL, func() ([]byte, error) {
		games, err := pipeline.PullAllGames(s.dbManager, s.pullBatch)
		if err != nil {
			return nil, err
		}
		return json.Marshal(games)
	})
	if err != nil {
		log.Printf("Failed to build full dataset: %v", err)
		http.Error(w, "failed to retrieve games", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
