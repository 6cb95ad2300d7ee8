// Package main provides HTTP handlers for the search engine API.
package main

import (
	"encoding/json"
	"net/http"

	"github.com/mercadito/search-engine/internal/analyzer"
	"github.com/mercadito/search-engine/internal/observability"
)

// SearchHandler handles query analysis requests.
type SearchHandler struct {
	logger  *observability.Logger
	service *analyzer.Service
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(logger *observability.Logger, service *analyzer.Service) *SearchHandler {
	return &SearchHandler{
		logger:  logger.WithComponent("api"),
		service: service,
	}
}

// AnalyzeRequestDTO is the API request for query analysis.
type AnalyzeRequestDTO struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// ErrorDTO is the API error shape.
type ErrorDTO struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Analyze handles POST /api/v1/analyze.
func (h *SearchHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Query == "" {
		h.writeError(w, http.StatusBadRequest, "query is required", "")
		return
	}

	result := h.service.Analyze(r.Context(), req.Query, req.Limit)
	h.writeJSON(w, http.StatusOK, result)
}

// Stats handles GET /api/v1/stats.
func (h *SearchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Stats query failed")
		h.writeError(w, http.StatusServiceUnavailable, "store unavailable", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// RefreshVocabulary handles POST /api/v1/vocabulary/refresh.
func (h *SearchHandler) RefreshVocabulary(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RefreshVocabulary(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Vocabulary refresh failed")
		h.writeError(w, http.StatusServiceUnavailable, "refresh failed", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// Health handles GET /health.
func (h *SearchHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "search-engine",
	})
}

// Ready handles GET /ready: the service is ready when the store answers.
func (h *SearchHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Stats(r.Context()); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "store not ready", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *SearchHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *SearchHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	h.writeJSON(w, status, ErrorDTO{Error: message, Detail: detail})
}
