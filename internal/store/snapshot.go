package store

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/spanish"
)

// Catalog extends Store with full-listing calls used by snapshot builds.
type Catalog interface {
	Store
	AllProducts(ctx context.Context) ([]Product, error)
	AllSynonyms(ctx context.Context) ([]SynonymEntry, error)
}

// Vocabulary is an immutable snapshot of the store's searchable terms.
// A query holds one snapshot for its whole run, so every stage sees the
// same view of the catalog. Version changes on every rebuild; the
// corrector uses it to invalidate its memo cache.
type Vocabulary struct {
	Version    int64
	BuiltAt    time.Time
	Products   []Product
	Categories []string

	words          map[string]struct{}
	phrases        map[string]string // normalized multi-word phrase -> canonical product name
	maxPhraseWords int
	synonyms       map[string][]SynonymEntry
}

// Contains reports whether the normalized word is in the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.words[spanish.Normalize(word)]
	return ok
}

// Words returns every vocabulary word. The returned slice is freshly
// allocated; callers may keep it.
func (v *Vocabulary) Words() []string {
	out := make([]string, 0, len(v.words))
	for w := range v.words {
		out = append(out, w)
	}
	return out
}

// LookupPhrase resolves a normalized multi-word span to a canonical
// product name.
func (v *Vocabulary) LookupPhrase(phrase string) (string, bool) {
	name, ok := v.phrases[spanish.Normalize(phrase)]
	return name, ok
}

// MaxPhraseWords is the longest product phrase in the snapshot, capped at
// the tokenizer's four-word lookahead.
func (v *Vocabulary) MaxPhraseWords() int {
	return v.maxPhraseWords
}

// Synonyms returns synonym entries for a normalized term, already ranked.
func (v *Vocabulary) Synonyms(term string) []SynonymEntry {
	return v.synonyms[spanish.Normalize(term)]
}

// IsCategory reports whether the normalized word names a store category.
func (v *Vocabulary) IsCategory(word string) bool {
	w := spanish.Normalize(word)
	for _, c := range v.Categories {
		if c == w {
			return true
		}
	}
	return false
}

// SnapshotProvider serves the current Vocabulary and rebuilds it when the
// TTL expires. The snapshot swaps atomically, so readers never observe a
// half-built vocabulary, and concurrent refreshes collapse into a single
// rebuild via singleflight.
type SnapshotProvider struct {
	catalog Catalog
	ttl     time.Duration
	logger  *observability.Logger
	static  []string

	current atomic.Pointer[Vocabulary]
	version atomic.Int64
	group   singleflight.Group
}

// NewSnapshotProvider creates a provider over the catalog. staticWords
// are vocabulary entries that do not live in the store (qualifiers,
// units, modifiers) and are folded into every snapshot.
func NewSnapshotProvider(catalog Catalog, ttl time.Duration, logger *observability.Logger, staticWords []string) *SnapshotProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SnapshotProvider{
		catalog: catalog,
		ttl:     ttl,
		logger:  logger.WithComponent("vocab_snapshot"),
		static:  staticWords,
	}
}

// Vocabulary returns the current snapshot, rebuilding first if none
// exists or the TTL has elapsed. A failed rebuild falls back to the stale
// snapshot when one exists, and to the builtin degraded vocabulary when
// none does; the pipeline always gets a usable vocabulary.
func (p *SnapshotProvider) Vocabulary(ctx context.Context) *Vocabulary {
	if v := p.current.Load(); v != nil && time.Since(v.BuiltAt) < p.ttl {
		return v
	}

	fresh, err, _ := p.group.Do("rebuild", func() (interface{}, error) {
		// Re-check inside the flight: a concurrent caller may have
		// already swapped in a fresh snapshot.
		if v := p.current.Load(); v != nil && time.Since(v.BuiltAt) < p.ttl {
			return v, nil
		}
		return p.rebuild(ctx)
	})
	if err != nil {
		if stale := p.current.Load(); stale != nil {
			p.logger.Warn().Err(err).Msg("snapshot rebuild failed, serving stale vocabulary")
			return stale
		}
		p.logger.Warn().Err(err).Msg("snapshot rebuild failed with no prior snapshot, using builtin vocabulary")
		return p.builtinFallback(ctx)
	}
	return fresh.(*Vocabulary)
}

// Refresh forces a rebuild regardless of TTL.
func (p *SnapshotProvider) Refresh(ctx context.Context) (*Vocabulary, error) {
	v, err, _ := p.group.Do("refresh", func() (interface{}, error) {
		return p.rebuild(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Vocabulary), nil
}

func (p *SnapshotProvider) rebuild(ctx context.Context) (*Vocabulary, error) {
	start := time.Now()

	products, err := p.catalog.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	synonyms, err := p.catalog.AllSynonyms(ctx)
	if err != nil {
		return nil, err
	}

	v := buildVocabulary(p.version.Add(1), products, synonyms, p.static)
	p.current.Store(v)

	p.logger.Info().
		Int64("version", v.Version).
		Int("products", len(products)).
		Int("synonyms", len(synonyms)).
		Int("categories", len(v.Categories)).
		Dur("elapsed", time.Since(start)).
		Msg("vocabulary snapshot rebuilt")

	return v, nil
}

func (p *SnapshotProvider) builtinFallback(ctx context.Context) *Vocabulary {
	builtin := Builtin()
	products, _ := builtin.AllProducts(ctx)
	synonyms, _ := builtin.AllSynonyms(ctx)
	return buildVocabulary(p.version.Add(1), products, synonyms, p.static)
}

func buildVocabulary(version int64, products []Product, synonyms []SynonymEntry, static []string) *Vocabulary {
	v := &Vocabulary{
		Version:        version,
		BuiltAt:        time.Now(),
		Products:       products,
		words:          make(map[string]struct{}),
		phrases:        make(map[string]string),
		maxPhraseWords: 1,
		synonyms:       make(map[string][]SynonymEntry),
	}

	addWord := func(w string) {
		if w = spanish.Normalize(w); w != "" {
			v.words[w] = struct{}{}
		}
	}
	addPhrase := func(phrase, canonical string) {
		phrase = spanish.Normalize(phrase)
		words := strings.Fields(phrase)
		if len(words) < 2 || len(words) > 4 {
			return
		}
		if _, taken := v.phrases[phrase]; !taken {
			v.phrases[phrase] = canonical
		}
		if len(words) > v.maxPhraseWords {
			v.maxPhraseWords = len(words)
		}
	}

	seenCat := make(map[string]struct{})
	for _, p := range products {
		for _, w := range strings.Fields(p.NormalizedName) {
			addWord(w)
		}
		addPhrase(stripPackaging(p.NormalizedName), p.Name)
		if _, ok := seenCat[p.Category]; !ok && p.Category != "" {
			seenCat[p.Category] = struct{}{}
			v.Categories = append(v.Categories, p.Category)
			addWord(p.Category)
		}
	}
	sort.Strings(v.Categories)

	for _, e := range synonyms {
		addWord(e.NormalizedTerm)
		v.synonyms[e.NormalizedTerm] = append(v.synonyms[e.NormalizedTerm], e)
		if e.TargetType == TargetProduct {
			addPhrase(e.NormalizedTerm, e.TargetName)
		}
	}
	for term := range v.synonyms {
		entries := v.synonyms[term]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Confidence != entries[j].Confidence {
				return entries[i].Confidence > entries[j].Confidence
			}
			return entries[i].UsageCount > entries[j].UsageCount
		})
	}

	for _, w := range static {
		addWord(w)
	}

	return v
}

// stripPackaging drops trailing size/packaging words from a product name
// so "coca cola 600ml" registers the phrase "coca cola".
func stripPackaging(name string) string {
	words := strings.Fields(name)
	for len(words) > 1 {
		last := words[len(words)-1]
		if spanish.IsNumeric(last) || isPackagingWord(last) {
			words = words[:len(words)-1]
			continue
		}
		break
	}
	return strings.Join(words, " ")
}

func isPackagingWord(w string) bool {
	switch w {
	case "ml", "l", "lt", "kg", "g", "gr", "pz", "pzas":
		return true
	}
	// mixed forms like "600ml" or "1l"
	hasDigit := false
	for _, r := range w {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}
	trimmed := strings.TrimRight(w, "mlkgrzt")
	return spanish.IsNumeric(trimmed) || trimmed == ""
}
