// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mercadito/search-engine/internal/analyzer"
	"github.com/mercadito/search-engine/internal/config"
	"github.com/mercadito/search-engine/internal/observability"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, service *analyzer.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	handler := NewSearchHandler(logger, service)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", handler.Analyze)
		r.Get("/stats", handler.Stats)
		r.Post("/vocabulary/refresh", handler.RefreshVocabulary)
	})

	return r
}

// cors returns a CORS middleware allowing the given origins.
func cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
