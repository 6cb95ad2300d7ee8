// Package store provides the read-only product, category, and synonym
// store the query pipeline runs against.
package store

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mercadito/search-engine/internal/spanish"
)

// Product is a catalog product. The pipeline references products but
// never mutates them.
type Product struct {
	ID             uuid.UUID
	Name           string
	NormalizedName string
	Category       string
	Price          float64
	Stock          int
	Tags           []string
	Popularity     int
}

// HasTag reports whether the product carries the given normalized tag.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NameContains reports whether the normalized product name contains the
// given normalized term.
func (p *Product) NameContains(term string) bool {
	return strings.Contains(p.NormalizedName, spanish.Normalize(term))
}

// TargetType classifies what a synonym entry points at.
type TargetType string

const (
	TargetProduct   TargetType = "product"
	TargetCategory  TargetType = "category"
	TargetAttribute TargetType = "attribute"
)

// SynonymEntry maps a colloquial or misspelled term to a canonical
// product, category, or attribute name.
type SynonymEntry struct {
	Term           string
	NormalizedTerm string
	TargetName     string
	TargetType     TargetType
	Confidence     float64
	UsageCount     int
}

// ProductFilter narrows a FindProducts call. Zero values mean "no
// constraint"; Limit <= 0 falls back to the store default.
type ProductFilter struct {
	Term     string
	Category string
	Brand    string
	PriceMin *float64
	PriceMax *float64
	Limit    int
}

// Stats summarizes store contents for health and metrics endpoints.
type Stats struct {
	ProductCount int      `json:"product_count"`
	SynonymCount int      `json:"synonym_count"`
	Categories   []string `json:"categories"`
}
