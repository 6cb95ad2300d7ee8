package store

import (
	"context"
	"errors"
)

// Common errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the read contract the pipeline relies on. Result ordering:
// FindProducts returns exact-name matches first, then prefix matches,
// then ascending price; LookupSynonym ranks by confidence descending,
// then usage count descending.
type Store interface {
	FindProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	FindByAttribute(ctx context.Context, attribute string, limit int) ([]Product, error)
	FindByCategory(ctx context.Context, category string, limit int) ([]Product, error)
	PopularProducts(ctx context.Context, limit int) ([]Product, error)
	LookupSynonym(ctx context.Context, term string) ([]SynonymEntry, error)
	Stats(ctx context.Context) (Stats, error)
}

const defaultLimit = 20
