package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *MemoryStore {
	return NewMemoryStore([]Product{
		{Name: "Coca Cola 600ml", Category: "bebidas", Price: 18, Stock: 10, Popularity: 90, Tags: []string{"gaseosa", "con_azucar"}},
		{Name: "Cola Economica 2L", Category: "bebidas", Price: 15, Stock: 5, Popularity: 30, Tags: []string{"gaseosa"}},
		{Name: "Agua Mineral 1L", Category: "bebidas", Price: 12, Stock: 20, Popularity: 85, Tags: []string{"sin_azucar"}},
		{Name: "Galletas de Chocolate", Category: "panaderia", Price: 16, Stock: 8, Popularity: 60, Tags: []string{"chocolate"}},
		{Name: "Agotado Snack", Category: "botanas", Price: 9, Stock: 0, Popularity: 99, Tags: []string{}},
	}, []SynonymEntry{
		{Term: "refresco", TargetName: "bebidas", TargetType: TargetCategory, Confidence: 0.9, UsageCount: 10},
		{Term: "refresco", TargetName: "Coca Cola 600ml", TargetType: TargetProduct, Confidence: 0.7, UsageCount: 99},
		{Term: "light", TargetName: "sin_azucar", TargetType: TargetAttribute, Confidence: 0.85, UsageCount: 5},
	})
}

func TestMemoryStore_FindProductsOrdering(t *testing.T) {
	s := testStore()

	products, err := s.FindProducts(context.Background(), ProductFilter{Term: "cola"})
	require.NoError(t, err)
	require.Len(t, products, 2)

	// prefix match ("cola economica...") sorts ahead of contains match
	assert.Equal(t, "Cola Economica 2L", products[0].Name)
	assert.Equal(t, "Coca Cola 600ml", products[1].Name)
}

func TestMemoryStore_FindProductsPriceBounds(t *testing.T) {
	s := testStore()
	max := 15.0

	products, err := s.FindProducts(context.Background(), ProductFilter{Category: "bebidas", PriceMax: &max})
	require.NoError(t, err)

	for _, p := range products {
		assert.LessOrEqual(t, p.Price, max)
		assert.Equal(t, "bebidas", p.Category)
	}
}

func TestMemoryStore_FindByAttribute(t *testing.T) {
	s := testStore()

	products, err := s.FindByAttribute(context.Background(), "sin azucar", 10)
	require.NoError(t, err)
	require.NotEmpty(t, products)
	assert.Equal(t, "Agua Mineral 1L", products[0].Name)
	assert.True(t, products[0].HasTag("sin_azucar"))
}

func TestMemoryStore_PopularProductsSkipsOutOfStock(t *testing.T) {
	s := testStore()

	products, err := s.PopularProducts(context.Background(), 10)
	require.NoError(t, err)

	for _, p := range products {
		assert.Greater(t, p.Stock, 0, "out-of-stock product %q returned", p.Name)
	}
	// highest-popularity in-stock product leads
	assert.Equal(t, "Coca Cola 600ml", products[0].Name)
}

func TestMemoryStore_LookupSynonymRanking(t *testing.T) {
	s := testStore()

	entries, err := s.LookupSynonym(context.Background(), "Refresco")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// confidence wins over usage count
	assert.Equal(t, TargetCategory, entries[0].TargetType)
	assert.Equal(t, "bebidas", entries[0].TargetName)
}

func TestMemoryStore_Stats(t *testing.T) {
	s := testStore()

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.ProductCount)
	assert.Equal(t, 3, stats.SynonymCount)
	assert.Equal(t, []string{"bebidas", "botanas", "panaderia"}, stats.Categories)
}
