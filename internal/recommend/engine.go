// Package recommend turns a structured interpretation into a ranked
// product list by running ordered retrieval strategies against the
// store, then scoring, deduplicating, and filtering the candidates.
package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/mercadito/search-engine/internal/interpret"
	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/spanish"
	"github.com/mercadito/search-engine/internal/store"
)

// Match reasons attached to recommendations.
const (
	ReasonAttributeMatch  = "attribute_match"
	ReasonNameMatch       = "name_match"
	ReasonProductMatch    = "product_match"
	ReasonCategoryMatch   = "category_match"
	ReasonTextMatch       = "text_match"
	ReasonPopularFallback = "popular_fallback"
)

// Strategy scores.
const (
	scoreExactTag     = 0.9
	scoreNameContains = 0.75
	scoreCategory     = 0.8
	scoreTextFallback = 0.6
	scorePopular      = 0.5
	categoryBonus     = 0.05
	attributeBonus    = 0.05
)

// Recommendation is one ranked candidate with the reasons it matched.
type Recommendation struct {
	Product store.Product `json:"product"`
	Score   float64       `json:"score"`
	Reasons []string      `json:"match_reasons"`
}

// Config holds engine limits.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns the default engine limits.
func DefaultConfig() Config {
	return Config{DefaultLimit: 10, MaxLimit: 50}
}

// strategy is one retrieval pass. Strategies run in slice order; a
// failing strategy is logged and skipped, never surfaced to the caller.
type strategy struct {
	name string
	run  func(ctx context.Context, vocab *store.Vocabulary, in interpret.Interpretation, limit int) ([]Recommendation, error)
}

// Engine ranks products for an interpretation.
type Engine struct {
	logger     *observability.Logger
	store      store.Store
	cfg        Config
	strategies []strategy
}

// New creates an Engine over the store.
func New(logger *observability.Logger, st store.Store, cfg Config) *Engine {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}
	e := &Engine{
		logger: logger.WithComponent("recommend"),
		store:  st,
		cfg:    cfg,
	}
	e.strategies = []strategy{
		{name: "attribute", run: e.byAttribute},
		{name: "product", run: e.byProduct},
		{name: "category", run: e.byCategory},
		{name: "free_text", run: e.byFreeText},
	}
	return e
}

// Recommend runs the strategies in order, each only while the candidate
// count is still below limit, then post-processes: dedupe by product id
// keeping the best occurrence, drop candidates outside the price bounds,
// sort by score descending with ascending price as tiebreak, truncate.
// Always returns a list, never an error; the popularity fallback fires
// only when every other strategy came back empty.
func (e *Engine) Recommend(ctx context.Context, vocab *store.Vocabulary, in interpret.Interpretation, limit int) []Recommendation {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}

	var candidates []Recommendation
	for _, s := range e.strategies {
		if len(candidates) >= limit {
			break
		}
		found, err := s.run(ctx, vocab, in, limit)
		if err != nil {
			e.logger.Warn().Err(err).Str("strategy", s.name).Msg("strategy failed, skipping")
			continue
		}
		candidates = append(candidates, found...)
	}

	if len(candidates) == 0 {
		candidates = e.popularFallback(ctx, vocab, limit)
	}

	results := dedupe(candidates)
	results = applyHardFilters(results, in)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Product.Price < results[j].Product.Price
	})
	if len(results) > limit {
		results = results[:limit]
	}

	e.logger.Debug().
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Msg("recommendations ranked")

	return results
}

// byAttribute fetches products tagged with each requested attribute.
// Exact tag hits score above heuristic name matches; a matching category
// adds a bonus.
func (e *Engine) byAttribute(ctx context.Context, vocab *store.Vocabulary, in interpret.Interpretation, limit int) ([]Recommendation, error) {
	var out []Recommendation
	category := e.canonicalCategory(vocab, in.Category)

	for _, attr := range in.Attributes {
		tag := attr.Tag()
		products, err := e.store.FindByAttribute(ctx, tag, limit)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			// a requested category scopes the attribute search
			if category != "" && p.Category != category {
				continue
			}
			rec := Recommendation{Product: p}
			if p.HasTag(tag) {
				rec.Score = scoreExactTag
				rec.Reasons = append(rec.Reasons, ReasonAttributeMatch)
			} else {
				rec.Score = scoreNameContains
				rec.Reasons = append(rec.Reasons, ReasonNameMatch)
			}
			if category != "" && p.Category == category {
				rec.Score += categoryBonus
				rec.Reasons = append(rec.Reasons, ReasonCategoryMatch)
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// byProduct looks up the named product, scoring by name similarity plus
// a bonus per overlapping attribute.
func (e *Engine) byProduct(ctx context.Context, _ *store.Vocabulary, in interpret.Interpretation, limit int) ([]Recommendation, error) {
	if in.Product == "" {
		return nil, nil
	}
	term := spanish.Normalize(in.Product)
	products, err := e.store.FindProducts(ctx, store.ProductFilter{Term: term, Limit: limit})
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(products))
	for _, p := range products {
		score := bigramSimilarity(term, p.NormalizedName)
		score += attributeBonus * float64(attributeOverlap(p, in.Attributes))
		if score > 1 {
			score = 1
		}
		out = append(out, Recommendation{
			Product: p,
			Score:   score,
			Reasons: []string{ReasonProductMatch},
		})
	}
	return out, nil
}

// byCategory normalizes the requested category to the store's canonical
// name, then fetches that category.
func (e *Engine) byCategory(ctx context.Context, vocab *store.Vocabulary, in interpret.Interpretation, limit int) ([]Recommendation, error) {
	if in.Category == "" {
		return nil, nil
	}
	category := e.canonicalCategory(vocab, in.Category)
	products, err := e.store.FindByCategory(ctx, category, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(products))
	for _, p := range products {
		score := scoreCategory + attributeBonus*float64(attributeOverlap(p, in.Attributes))
		if score > 1 {
			score = 1
		}
		out = append(out, Recommendation{
			Product: p,
			Score:   score,
			Reasons: []string{ReasonCategoryMatch},
		})
	}
	return out, nil
}

// byFreeText concatenates everything understood into one term and runs
// the store's generic lookup. Last resort before the popularity fallback.
func (e *Engine) byFreeText(ctx context.Context, _ *store.Vocabulary, in interpret.Interpretation, limit int) ([]Recommendation, error) {
	var terms []string
	if in.Product != "" {
		terms = append(terms, spanish.Normalize(in.Product))
	}
	if in.Category != "" {
		terms = append(terms, in.Category)
	}
	for _, a := range in.Attributes {
		if !a.Negated {
			terms = append(terms, a.Attribute)
		}
	}
	if len(terms) == 0 {
		return nil, nil
	}

	products, err := e.store.FindProducts(ctx, store.ProductFilter{Term: strings.Join(terms, " "), Limit: limit})
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(products))
	for _, p := range products {
		out = append(out, Recommendation{
			Product: p,
			Score:   scoreTextFallback,
			Reasons: []string{ReasonTextMatch},
		})
	}
	return out, nil
}

func (e *Engine) popularFallback(ctx context.Context, vocab *store.Vocabulary, limit int) []Recommendation {
	products, err := e.store.PopularProducts(ctx, limit)
	if err != nil {
		// The snapshot still holds the catalog as of the last rebuild,
		// so an unreachable store degrades the fallback instead of
		// emptying it.
		e.logger.Warn().Err(err).Msg("popularity fallback hitting snapshot")
		products = snapshotPopular(vocab, limit)
	}
	out := make([]Recommendation, 0, len(products))
	for _, p := range products {
		out = append(out, Recommendation{
			Product: p,
			Score:   scorePopular,
			Reasons: []string{ReasonPopularFallback},
		})
	}
	return out
}

// snapshotPopular ranks the snapshot's in-stock products by popularity.
func snapshotPopular(vocab *store.Vocabulary, limit int) []store.Product {
	products := make([]store.Product, 0, len(vocab.Products))
	for _, p := range vocab.Products {
		if p.Stock > 0 {
			products = append(products, p)
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Popularity > products[j].Popularity
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}

// canonicalCategory maps the interpreted category onto the store's
// canonical category names. The interpreter and the store may use
// different spellings; the synonym table bridges them.
func (e *Engine) canonicalCategory(vocab *store.Vocabulary, category string) string {
	if category == "" {
		return ""
	}
	norm := spanish.Normalize(category)
	if vocab.IsCategory(norm) {
		return norm
	}
	for _, entry := range vocab.Synonyms(norm) {
		if entry.TargetType == store.TargetCategory {
			return entry.TargetName
		}
	}
	return norm
}

func attributeOverlap(p store.Product, attrs []interpret.AttributeFilter) int {
	n := 0
	for _, a := range attrs {
		if p.HasTag(a.Tag()) {
			n++
		}
	}
	return n
}

// dedupe keeps one recommendation per product id, preferring the higher
// score and merging reasons.
func dedupe(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	index := make(map[string]int, len(recs))

	for _, r := range recs {
		id := r.Product.ID.String()
		at, seen := index[id]
		if !seen {
			index[id] = len(out)
			out = append(out, r)
			continue
		}
		if r.Score > out[at].Score {
			reasons := mergeReasons(out[at].Reasons, r.Reasons)
			out[at] = r
			out[at].Reasons = reasons
		} else {
			out[at].Reasons = mergeReasons(out[at].Reasons, r.Reasons)
		}
	}
	return out
}

func mergeReasons(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, r := range append(append([]string{}, a...), b...) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// applyHardFilters drops candidates outside the price bounds and, for
// negated attributes, candidates carrying the excluded tag. Hard drops,
// not score penalties.
func applyHardFilters(recs []Recommendation, in interpret.Interpretation) []Recommendation {
	out := recs[:0]
	for _, r := range recs {
		if in.Price != nil {
			if in.Price.Min != nil && r.Product.Price < *in.Price.Min {
				continue
			}
			if in.Price.Max != nil && r.Product.Price > *in.Price.Max {
				continue
			}
		}
		if excludedByNegation(r.Product, in.Attributes) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// excludedByNegation reports whether the product carries an attribute the
// query negated ("sin picante" excludes picante-tagged products).
func excludedByNegation(p store.Product, attrs []interpret.AttributeFilter) bool {
	for _, a := range attrs {
		if !a.Negated {
			continue
		}
		if p.HasTag(a.Attribute) || p.HasTag("con_"+a.Attribute) {
			return true
		}
	}
	return false
}
