package store

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mercadito/search-engine/internal/spanish"
)

// MemoryStore is an in-memory Store. It backs the degraded builtin
// vocabulary and the test suites; production uses SQLStore.
type MemoryStore struct {
	products []Product
	synonyms []SynonymEntry
}

// NewMemoryStore creates a memory store over the given records. Products
// get normalized names and ids filled in when missing.
func NewMemoryStore(products []Product, synonyms []SynonymEntry) *MemoryStore {
	for i := range products {
		if products[i].ID == uuid.Nil {
			products[i].ID = uuid.New()
		}
		if products[i].NormalizedName == "" {
			products[i].NormalizedName = spanish.Normalize(products[i].Name)
		}
		products[i].Category = spanish.Normalize(products[i].Category)
		for j, tag := range products[i].Tags {
			products[i].Tags[j] = tagKey(tag)
		}
	}
	for i := range synonyms {
		if synonyms[i].NormalizedTerm == "" {
			synonyms[i].NormalizedTerm = spanish.Normalize(synonyms[i].Term)
		}
	}
	return &MemoryStore{products: products, synonyms: synonyms}
}

// FindProducts filters and orders products: exact name, prefix, then
// ascending price.
func (m *MemoryStore) FindProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	term := spanish.Normalize(filter.Term)
	category := spanish.Normalize(filter.Category)
	brand := spanish.Normalize(filter.Brand)

	var out []Product
	for _, p := range m.products {
		if term != "" && !strings.Contains(p.NormalizedName, term) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if brand != "" && !strings.HasPrefix(p.NormalizedName, brand) {
			continue
		}
		if filter.PriceMin != nil && p.Price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && p.Price > *filter.PriceMax {
			continue
		}
		out = append(out, p)
	}

	rank := func(p Product) int {
		switch {
		case p.NormalizedName == term:
			return 0
		case term != "" && strings.HasPrefix(p.NormalizedName, term):
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i].Price < out[j].Price
	})

	return truncate(out, limit), nil
}

// FindByAttribute returns tag matches first, then name-contains matches.
func (m *MemoryStore) FindByAttribute(ctx context.Context, attribute string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	key := tagKey(attribute)
	spaced := strings.ReplaceAll(key, "_", " ")

	var tagged, named []Product
	for _, p := range m.products {
		switch {
		case p.HasTag(key):
			tagged = append(tagged, p)
		case strings.Contains(p.NormalizedName, spaced):
			named = append(named, p)
		}
	}
	sortByPopularity(tagged)
	sortByPopularity(named)
	return truncate(append(tagged, named...), limit), nil
}

// FindByCategory returns products in the category, popular first.
func (m *MemoryStore) FindByCategory(ctx context.Context, category string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	want := spanish.Normalize(category)

	var out []Product
	for _, p := range m.products {
		if p.Category == want {
			out = append(out, p)
		}
	}
	sortByPopularity(out)
	return truncate(out, limit), nil
}

// PopularProducts returns in-stock products ordered by popularity.
func (m *MemoryStore) PopularProducts(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var out []Product
	for _, p := range m.products {
		if p.Stock > 0 {
			out = append(out, p)
		}
	}
	sortByPopularity(out)
	return truncate(out, limit), nil
}

// LookupSynonym returns entries for the normalized term, ranked by
// confidence then usage count.
func (m *MemoryStore) LookupSynonym(ctx context.Context, term string) ([]SynonymEntry, error) {
	want := spanish.Normalize(term)

	var out []SynonymEntry
	for _, e := range m.synonyms {
		if e.NormalizedTerm == want {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].UsageCount > out[j].UsageCount
	})
	return out, nil
}

// Stats summarizes the store contents.
func (m *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range m.products {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)

	return Stats{
		ProductCount: len(m.products),
		SynonymCount: len(m.synonyms),
		Categories:   categories,
	}, nil
}

// AllProducts returns every product, for snapshot builds.
func (m *MemoryStore) AllProducts(ctx context.Context) ([]Product, error) {
	out := make([]Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

// AllSynonyms returns every synonym entry, for snapshot builds.
func (m *MemoryStore) AllSynonyms(ctx context.Context) ([]SynonymEntry, error) {
	out := make([]SynonymEntry, len(m.synonyms))
	copy(out, m.synonyms)
	return out, nil
}

func sortByPopularity(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Popularity != products[j].Popularity {
			return products[i].Popularity > products[j].Popularity
		}
		return products[i].Price < products[j].Price
	})
}

func truncate(products []Product, limit int) []Product {
	if len(products) > limit {
		return products[:limit]
	}
	return products
}
