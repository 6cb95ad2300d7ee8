package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/search-engine/internal/cache"
	"github.com/mercadito/search-engine/internal/config"
	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/store"
)

func newService(t *testing.T, c cache.Client) *Service {
	t.Helper()
	st := store.Builtin()
	return New(observability.Discard(), st, st, config.DefaultConfig(), c)
}

func TestAnalyze_CategoryAttributePriceScenario(t *testing.T) {
	s := newService(t, nil)

	result := s.Analyze(context.Background(), "bebidas sin azucar baratas", 10)

	assert.False(t, result.Corrections.Applied)
	assert.Equal(t, "bebidas", result.Interpretation.Category)
	assert.Equal(t, []string{"sin_azucar"}, result.Interpretation.AttributeTags())
	require.NotNil(t, result.Interpretation.Price)
	require.NotNil(t, result.Interpretation.Price.Max)
	assert.Equal(t, 50.0, *result.Interpretation.Price.Max)

	require.NotEmpty(t, result.Recommendations)
	for _, r := range result.Recommendations {
		assert.Equal(t, "bebidas", r.Product.Category)
		assert.LessOrEqual(t, r.Product.Price, 50.0)
	}
	assert.True(t, result.Recommendations[0].Product.HasTag("sin_azucar"),
		"tag matches rank ahead of plain category matches")
	assert.Contains(t, result.FilterExpression, "category = 'bebidas'")
}

func TestAnalyze_MisspelledProductScenario(t *testing.T) {
	s := newService(t, nil)

	result := s.Analyze(context.Background(), "koka kola", 5)

	require.True(t, result.Corrections.Applied)
	require.Len(t, result.Corrections.Changes, 2)
	assert.Equal(t, "koka", result.Corrections.Changes[0].From)
	assert.Equal(t, "coca", result.Corrections.Changes[0].To)
	assert.Equal(t, "kola", result.Corrections.Changes[1].From)
	assert.Equal(t, "cola", result.Corrections.Changes[1].To)
	assert.Equal(t, "coca cola", result.Corrections.CorrectedQuery)

	assert.Equal(t, "Coca Cola 600ml", result.Interpretation.Product)
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, "Coca Cola 600ml", result.Recommendations[0].Product.Name)
}

func TestAnalyze_GibberishFallsBackToPopularity(t *testing.T) {
	s := newService(t, nil)

	result := s.Analyze(context.Background(), "xqzw vbnk jjjj", 5)

	assert.True(t, result.Interpretation.IsEmpty())
	require.NotEmpty(t, result.Recommendations)
	assert.LessOrEqual(t, len(result.Recommendations), 5)
	for _, r := range result.Recommendations {
		assert.Contains(t, r.Reasons, "popular_fallback")
	}
}

func TestAnalyze_CorrectionContractHolds(t *testing.T) {
	s := newService(t, nil)

	queries := []string{"coca cola", "koka kola", "zzz", "leche"}
	for _, q := range queries {
		result := s.Analyze(context.Background(), q, 5)
		assert.Equal(t, len(result.Corrections.Changes) > 0, result.Corrections.Applied, "query %q", q)
		if !result.Corrections.Applied {
			assert.Equal(t, q, result.Corrections.CorrectedQuery, "query %q", q)
		}
	}
}

func TestAnalyze_EmptyResultCarriesMessage(t *testing.T) {
	s := newService(t, nil)

	// an impossible price window empties the list after the hard filter
	result := s.Analyze(context.Background(), "bebidas menos de 1", 5)
	assert.Empty(t, result.Recommendations)
	assert.NotEmpty(t, result.Message)
}

func TestAnalyze_CachesResponses(t *testing.T) {
	s := newService(t, cache.NewMemoryClient(100))

	first := s.Analyze(context.Background(), "bebidas baratas", 5)
	assert.False(t, first.Cached)

	second := s.Analyze(context.Background(), "bebidas baratas", 5)
	assert.True(t, second.Cached)
	assert.Equal(t, first.FilterExpression, second.FilterExpression)
	assert.Len(t, second.Recommendations, len(first.Recommendations))

	// different limit is a different cache entry
	third := s.Analyze(context.Background(), "bebidas baratas", 3)
	assert.False(t, third.Cached)
}

func TestAnalyze_StatsPassthrough(t *testing.T) {
	s := newService(t, nil)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stats.ProductCount, 0)
	assert.Contains(t, stats.Categories, "bebidas")
}
