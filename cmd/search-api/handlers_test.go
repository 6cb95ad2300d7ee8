package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/search-engine/internal/analyzer"
	"github.com/mercadito/search-engine/internal/config"
	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := observability.Discard()
	cfg := config.DefaultConfig()
	st := store.Builtin()
	service := analyzer.New(logger, st, st, cfg, nil)
	return NewRouter(logger, cfg, service)
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(AnalyzeRequestDTO{Query: "bebidas sin azucar baratas", Limit: 5})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result analyzer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "bebidas", result.Interpretation.Category)
	assert.NotEmpty(t, result.Recommendations)
	assert.LessOrEqual(t, len(result.Recommendations), 5)
}

func TestAnalyzeEndpoint_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty query", `{"query":""}`},
		{"malformed json", `{"query":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var apiErr ErrorDTO
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.NotEmpty(t, apiErr.Error)
		})
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats store.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Greater(t, stats.ProductCount, 0)
	assert.Contains(t, stats.Categories, "bebidas")
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestVocabularyRefreshEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vocabulary/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
