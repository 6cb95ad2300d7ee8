// Package engine provides the public Go SDK for the search engine API.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mercadito/search-engine/internal/analyzer"
	"github.com/mercadito/search-engine/internal/store"
)

// Client is the public SDK client for the search engine API.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientConfig holds client configuration.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a search engine client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// AnalyzeRequest is the analyze call payload.
type AnalyzeRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// AnalyzeResult re-exports the service result shape.
type AnalyzeResult = analyzer.Result

// Analyze runs a query through the remote pipeline.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	var result AnalyzeResult
	if err := c.post(ctx, "/api/v1/analyze", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats returns store statistics.
func (c *Client) Stats(ctx context.Context) (*store.Stats, error) {
	var stats store.Stats
	if err := c.get(ctx, "/api/v1/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health checks service health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.get(ctx, "/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// RefreshVocabulary forces a vocabulary snapshot rebuild on the server.
func (c *Client) RefreshVocabulary(ctx context.Context) error {
	return c.post(ctx, "/api/v1/vocabulary/refresh", struct{}{}, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s (status %d)", req.URL.Path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
