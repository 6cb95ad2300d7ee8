// Package corrector maps misspelled query words onto the store
// vocabulary using a curated error table, phonetic bucketing, and edit
// distance.
package corrector

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/antzucaro/matchr"

	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/spanish"
	"github.com/mercadito/search-engine/internal/store"
)

// Source records which mechanism produced a correction.
type Source string

const (
	SourceExact      Source = "exact"
	SourceKnownError Source = "known_error"
	SourceFuzzy      Source = "fuzzy"
	SourceNone       Source = "none"
)

// Candidate is the outcome of correcting a single word.
type Candidate struct {
	Original   string  `json:"original"`
	Corrected  string  `json:"corrected"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Change reports one applied correction inside a query.
type Change struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Confidence float64 `json:"confidence"`
}

// QueryResult is the outcome of correcting a whole query. Applied is
// true iff Changes is non-empty, and CorrectedQuery equals the original
// query when Applied is false.
type QueryResult struct {
	Applied        bool     `json:"applied"`
	Changes        []Change `json:"changes"`
	CorrectedQuery string   `json:"corrected_query"`
}

// Config holds corrector settings.
type Config struct {
	// MaxDistance is the largest accepted Levenshtein distance.
	MaxDistance int
	// ConfidenceThreshold is the minimum length-normalized confidence
	// for a fuzzy correction.
	ConfidenceThreshold float64
}

// DefaultConfig returns the default corrector settings.
func DefaultConfig() Config {
	return Config{
		MaxDistance:         2,
		ConfidenceThreshold: 0.7,
	}
}

const knownErrorConfidence = 0.95

// Corrector corrects words against a vocabulary snapshot. The memo cache
// lives for the process; a vocabulary version change swaps in a fresh
// map through the atomic pointer, so concurrent readers keep the map
// they loaded. Duplicate inserts may race, which is harmless because the
// value for a key is the same no matter who computes it.
type Corrector struct {
	logger *observability.Logger
	cfg    Config

	memo atomic.Pointer[sync.Map] // normalized word -> Candidate

	mu           sync.Mutex
	vocabVersion int64
	buckets      map[string][]string
}

// New creates a Corrector.
func New(logger *observability.Logger, cfg Config) *Corrector {
	if cfg.MaxDistance <= 0 {
		cfg.MaxDistance = 2
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = 0.7
	}
	c := &Corrector{
		logger: logger.WithComponent("corrector"),
		cfg:    cfg,
	}
	c.memo.Store(&sync.Map{})
	return c
}

// Correct maps one word onto the vocabulary. Resolution order: exact
// vocabulary hit, curated known-error table, phonetic-bucket fuzzy scan.
// Unresolvable words come back unchanged with confidence 0. Numeric
// words are only ever rewritten through the curated numeric table.
func (c *Corrector) Correct(vocab *store.Vocabulary, word string) Candidate {
	norm := spanish.Normalize(word)
	if norm == "" {
		return Candidate{Original: word, Corrected: word, Confidence: 0, Source: SourceNone}
	}

	c.syncVocabulary(vocab)

	memo := c.memo.Load()
	if cached, ok := memo.Load(norm); ok {
		cand := cached.(Candidate)
		cand.Original = word
		return cand
	}

	cand := c.resolve(vocab, norm)
	memo.Store(norm, cand)
	cand.Original = word
	return cand
}

func (c *Corrector) resolve(vocab *store.Vocabulary, norm string) Candidate {
	if spanish.IsNumeric(norm) {
		if fixed, ok := numericErrors[norm]; ok {
			return Candidate{Original: norm, Corrected: fixed, Confidence: knownErrorConfidence, Source: SourceKnownError}
		}
		return Candidate{Original: norm, Corrected: norm, Confidence: 1.0, Source: SourceExact}
	}
	// mistyped numbers like "5o" are not numeric by shape but live in
	// the curated numeric table
	if fixed, ok := numericErrors[norm]; ok {
		return Candidate{Original: norm, Corrected: fixed, Confidence: knownErrorConfidence, Source: SourceKnownError}
	}

	if vocab.Contains(norm) {
		return Candidate{Original: norm, Corrected: norm, Confidence: 1.0, Source: SourceExact}
	}

	if fixed, ok := knownErrors[norm]; ok {
		return Candidate{Original: norm, Corrected: fixed, Confidence: knownErrorConfidence, Source: SourceKnownError}
	}

	if best, conf, ok := c.fuzzyMatch(norm); ok {
		return Candidate{Original: norm, Corrected: best, Confidence: conf, Source: SourceFuzzy}
	}

	return Candidate{Original: norm, Corrected: norm, Confidence: 0, Source: SourceNone}
}

// fuzzyMatch scans the word's phonetic bucket for the closest vocabulary
// entry. Accepts only distance <= MaxDistance with length-normalized
// confidence over the threshold; Jaro-Winkler breaks distance ties.
func (c *Corrector) fuzzyMatch(norm string) (string, float64, bool) {
	c.mu.Lock()
	candidates := c.buckets[spanish.PhoneticKey(norm)]
	c.mu.Unlock()

	best := ""
	bestDist := c.cfg.MaxDistance + 1
	bestJW := 0.0

	for _, cand := range candidates {
		if lenDiff(norm, cand) > c.cfg.MaxDistance {
			continue
		}
		dist := matchr.Levenshtein(norm, cand)
		if dist > c.cfg.MaxDistance {
			continue
		}
		jw := matchr.JaroWinkler(norm, cand, false)
		if dist < bestDist || (dist == bestDist && jw > bestJW) {
			best, bestDist, bestJW = cand, dist, jw
		}
	}

	if best == "" {
		return "", 0, false
	}

	longest := len(norm)
	if len(best) > longest {
		longest = len(best)
	}
	conf := 1.0 - float64(bestDist)/float64(longest)
	if conf < c.cfg.ConfidenceThreshold {
		return "", 0, false
	}
	return best, conf, true
}

// CorrectQuery corrects each whitespace word independently and
// reassembles the query. Deterministic and idempotent: running it on its
// own output yields no further changes.
func (c *Corrector) CorrectQuery(vocab *store.Vocabulary, text string) QueryResult {
	words := strings.Fields(text)
	if len(words) == 0 {
		return QueryResult{CorrectedQuery: text}
	}

	out := make([]string, 0, len(words))
	var changes []Change

	for _, w := range words {
		cand := c.Correct(vocab, w)
		if cand.Corrected != spanish.Normalize(w) && cand.Source != SourceNone {
			changes = append(changes, Change{From: w, To: cand.Corrected, Confidence: cand.Confidence})
			out = append(out, cand.Corrected)
			continue
		}
		out = append(out, w)
	}

	if len(changes) == 0 {
		return QueryResult{Applied: false, CorrectedQuery: text}
	}

	c.logger.Debug().
		Int("changes", len(changes)).
		Str("corrected", strings.Join(out, " ")).
		Msg("query corrected")

	return QueryResult{
		Applied:        true,
		Changes:        changes,
		CorrectedQuery: strings.Join(out, " "),
	}
}

// syncVocabulary rebuilds the phonetic bucket index and swaps in a fresh
// memo cache when the vocabulary snapshot changes.
func (c *Corrector) syncVocabulary(vocab *store.Vocabulary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vocabVersion == vocab.Version && c.buckets != nil {
		return
	}

	buckets := make(map[string][]string)
	for _, w := range vocab.Words() {
		key := spanish.PhoneticKey(w)
		buckets[key] = append(buckets[key], w)
	}

	c.buckets = buckets
	c.vocabVersion = vocab.Version
	c.memo.Store(&sync.Map{})

	c.logger.Debug().
		Int64("vocab_version", vocab.Version).
		Int("buckets", len(buckets)).
		Msg("phonetic index rebuilt")
}

func lenDiff(a, b string) int {
	d := len(a) - len(b)
	if d < 0 {
		return -d
	}
	return d
}
