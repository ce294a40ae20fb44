package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

func SetupRoutes(catalog *CatalogService) *chi.Mux {
	router := chi.NewRouter()

	router.Use(requestID)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Get("/healthz", catalog.Health)
	router.Route("/games", func(r chi.Router) {
		r.Get("/", catalog.ListGames)
		r.Get("/all", catalog.AllGames)
		r.Get("/{gameID}", catalog.GetGame)
	})

	return router
}

// requestID tags every response with an id for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
