// Package interpret walks a refined token stream and builds the
// structured filters a query implies: category, product, attribute
// tags, and quantitative price/size bounds derived from qualitative
// words.
package interpret

import (
	"fmt"
	"strings"

	"github.com/mercadito/search-engine/internal/corrector"
	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/spanish"
	"github.com/mercadito/search-engine/internal/store"
	"github.com/mercadito/search-engine/internal/token"
)

// AttributeFilter is one requested attribute, optionally behind a
// modifier ("sin azucar", "con gas").
type AttributeFilter struct {
	Attribute string `json:"attribute"`
	Modifier  string `json:"modifier,omitempty"`
	Negated   bool   `json:"negated"`
}

// Tag returns the store-side tag for this filter ("sin_azucar",
// "picante").
func (f AttributeFilter) Tag() string {
	if f.Modifier != "" {
		return f.Modifier + "_" + f.Attribute
	}
	return f.Attribute
}

// PriceFilter bounds the acceptable price range. Nil pointer means
// unbounded on that side.
type PriceFilter struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// SizeFilter bounds a product dimension.
type SizeFilter struct {
	Field    string  `json:"field"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
}

// Interpretation is the structured reading of one query. Built once,
// read-only afterward.
type Interpretation struct {
	Product    string            `json:"product,omitempty"`
	Category   string            `json:"category,omitempty"`
	Attributes []AttributeFilter `json:"attributes,omitempty"`
	Price      *PriceFilter      `json:"price,omitempty"`
	Size       *SizeFilter       `json:"size,omitempty"`
}

// IsEmpty reports whether nothing was understood from the query.
func (in Interpretation) IsEmpty() bool {
	return in.Product == "" && in.Category == "" && len(in.Attributes) == 0 &&
		in.Price == nil && in.Size == nil
}

// AttributeTags returns the requested tags in order, negations included.
func (in Interpretation) AttributeTags() []string {
	out := make([]string, len(in.Attributes))
	for i, a := range in.Attributes {
		out[i] = a.Tag()
	}
	return out
}

// FilterExpression renders the interpretation as a readable filter
// string for API responses and logs.
func (in Interpretation) FilterExpression() string {
	var parts []string
	if in.Product != "" {
		parts = append(parts, fmt.Sprintf("product = '%s'", in.Product))
	}
	if in.Category != "" {
		parts = append(parts, fmt.Sprintf("category = '%s'", in.Category))
	}
	for _, a := range in.Attributes {
		parts = append(parts, fmt.Sprintf("tags CONTAINS '%s'", a.Tag()))
	}
	if in.Price != nil {
		if in.Price.Min != nil {
			parts = append(parts, fmt.Sprintf("price >= %.2f", *in.Price.Min))
		}
		if in.Price.Max != nil {
			parts = append(parts, fmt.Sprintf("price <= %.2f", *in.Price.Max))
		}
	}
	if in.Size != nil {
		op := map[string]string{spanish.OpLTE: "<=", spanish.OpGTE: ">=", spanish.OpEq: "="}[in.Size.Operator]
		parts = append(parts, fmt.Sprintf("%s %s %.0f", in.Size.Field, op, in.Size.Value))
	}
	return strings.Join(parts, " AND ")
}

// Interpreter converts refined token streams into interpretations.
// Unresolved generic words fall back to the corrector's fuzzy matching
// before being dropped.
type Interpreter struct {
	logger    *observability.Logger
	corrector *corrector.Corrector
}

// New creates an Interpreter.
func New(logger *observability.Logger, c *corrector.Corrector) *Interpreter {
	return &Interpreter{
		logger:    logger.WithComponent("interpreter"),
		corrector: c,
	}
}

// Interpret builds the structured interpretation for the stream.
// Deterministic and side-effect free for a given stream and vocabulary.
func (it *Interpreter) Interpret(vocab *store.Vocabulary, stream token.Stream) Interpretation {
	var out Interpretation
	toks := stream.Tokens
	consumed := make(map[int]bool, len(toks))

	for i := 0; i < len(toks); i++ {
		if consumed[i] {
			continue
		}
		tok := toks[i]

		switch tok.Kind {
		case token.KindProductPhrase:
			if out.Product == "" {
				out.Product = tok.Canonical
			}

		case token.KindCategory:
			// keyword tokens like "tipo" only introduce the follower
			if spanish.IsCategoryKeyword(tok.Normalized) {
				continue
			}
			if out.Category == "" {
				out.Category = tok.Normalized
			}

		case token.KindModifier:
			if spanish.IsModifier(tok.Normalized) && i+1 < len(toks) && toks[i+1].Kind == token.KindAttribute {
				out.Attributes = append(out.Attributes, attributeFilter(toks[i+1], tok.Normalized))
				consumed[i+1] = true
			}
			// intensifiers are read by the qualifier they precede

		case token.KindAttribute:
			out.Attributes = append(out.Attributes, attributeFilter(tok, ""))

		case token.KindPriceFilter:
			bound, ok := spanish.PriceQualifier(tok.Normalized)
			if !ok {
				continue
			}
			applyPriceBound(&out, bound.Op, scaleThreshold(bound.Op, bound.Threshold, intensifierBefore(toks, i)))

		case token.KindSizeFilter:
			if out.Size != nil {
				continue
			}
			bound, ok := spanish.SizeQualifier(tok.Normalized)
			if !ok {
				continue
			}
			out.Size = &SizeFilter{
				Field:    bound.Field,
				Operator: bound.Op,
				Value:    scaleThreshold(bound.Op, bound.Value, intensifierBefore(toks, i)),
			}

		case token.KindOperator:
			it.applyOperator(&out, toks, i, consumed)

		case token.KindNumber:
			// bare amount with a currency unit reads as a price cap
			if i+1 < len(toks) && toks[i+1].Kind == token.KindUnitMoney {
				applyPriceBound(&out, spanish.OpLTE, tok.Value)
				consumed[i+1] = true
			} else if i+1 < len(toks) && toks[i+1].Kind == token.KindUnitMeasure && out.Size == nil {
				out.Size = measureFilter(tok.Value, toks[i+1].Normalized)
				consumed[i+1] = true
			}

		case token.KindGenericWord, token.KindUnrecognized:
			it.resolveWord(vocab, tok, &out)
		}
	}

	out.Attributes = resolveConflicts(out.Attributes)
	return out
}

// applyOperator binds a comparison operator to the numbers that follow
// it: "menos de 50", "entre 20 y 40".
func (it *Interpreter) applyOperator(out *Interpretation, toks []token.Token, i int, consumed map[int]bool) {
	op := toks[i].Operator
	first, firstIdx, ok := nextNumber(toks, i+1)
	if !ok {
		return
	}
	consumed[firstIdx] = true
	// a trailing currency unit is part of the amount
	if firstIdx+1 < len(toks) && toks[firstIdx+1].Kind == token.KindUnitMoney {
		consumed[firstIdx+1] = true
	}

	if op == spanish.OpBetween {
		second, secondIdx, ok := nextNumber(toks, firstIdx+1)
		if !ok {
			applyPriceBound(out, spanish.OpGTE, first)
			return
		}
		consumed[secondIdx] = true
		if secondIdx+1 < len(toks) && toks[secondIdx+1].Kind == token.KindUnitMoney {
			consumed[secondIdx+1] = true
		}
		applyPriceBound(out, spanish.OpGTE, first)
		applyPriceBound(out, spanish.OpLTE, second)
		return
	}
	applyPriceBound(out, op, first)
}

// resolveWord maps a generic or unknown word through the synonym table,
// falling back to fuzzy correction when no exact entry exists.
func (it *Interpreter) resolveWord(vocab *store.Vocabulary, tok token.Token, out *Interpretation) {
	if it.applySynonyms(vocab.Synonyms(tok.Normalized), out) {
		return
	}

	if it.corrector == nil {
		return
	}
	cand := it.corrector.Correct(vocab, tok.Normalized)
	if cand.Source != corrector.SourceFuzzy && cand.Source != corrector.SourceKnownError {
		return
	}
	if vocab.IsCategory(cand.Corrected) && out.Category == "" {
		out.Category = cand.Corrected
		return
	}
	it.applySynonyms(vocab.Synonyms(cand.Corrected), out)
}

func (it *Interpreter) applySynonyms(entries []store.SynonymEntry, out *Interpretation) bool {
	for _, e := range entries {
		switch e.TargetType {
		case store.TargetCategory:
			if out.Category == "" {
				out.Category = e.TargetName
				return true
			}
		case store.TargetProduct:
			if out.Product == "" {
				out.Product = e.TargetName
				return true
			}
		case store.TargetAttribute:
			out.Attributes = append(out.Attributes, AttributeFilter{Attribute: e.TargetName})
			return true
		}
	}
	return false
}

func attributeFilter(tok token.Token, modifier string) AttributeFilter {
	attr := tok.Normalized
	if tag, ok := spanish.AttributeTag(attr); ok {
		attr = tag
	}
	return AttributeFilter{
		Attribute: attr,
		Modifier:  modifier,
		Negated:   modifier == "sin",
	}
}

// resolveConflicts enforces negation precedence: when an attribute
// appears both plain and negated, the negation wins. Duplicate tags
// collapse, first occurrence kept.
func resolveConflicts(attrs []AttributeFilter) []AttributeFilter {
	if len(attrs) == 0 {
		return nil
	}
	negated := make(map[string]bool)
	for _, a := range attrs {
		if a.Negated {
			negated[a.Attribute] = true
		}
	}
	seen := make(map[string]bool)
	out := attrs[:0]
	for _, a := range attrs {
		if !a.Negated && negated[a.Attribute] {
			continue
		}
		if seen[a.Tag()] {
			continue
		}
		seen[a.Tag()] = true
		out = append(out, a)
	}
	return out
}

// applyPriceBound merges one bound into the price filter, tightening
// existing bounds rather than replacing them.
func applyPriceBound(out *Interpretation, op string, value float64) {
	if out.Price == nil {
		out.Price = &PriceFilter{}
	}
	switch op {
	case spanish.OpLTE:
		if out.Price.Max == nil || value < *out.Price.Max {
			out.Price.Max = &value
		}
	case spanish.OpGTE:
		if out.Price.Min == nil || value > *out.Price.Min {
			out.Price.Min = &value
		}
	}
}

// scaleThreshold applies an intensifier factor: "muy barato" tightens a
// ceiling, "muy caro" raises a floor.
func scaleThreshold(op string, threshold, factor float64) float64 {
	if factor == 1 {
		return threshold
	}
	if op == spanish.OpLTE {
		return threshold / factor
	}
	return threshold * factor
}

// intensifierBefore returns the scaling factor of the intensifier
// directly preceding position i, or 1.
func intensifierBefore(toks []token.Token, i int) float64 {
	if i == 0 || toks[i-1].Kind != token.KindModifier {
		return 1
	}
	if f, ok := spanish.Intensifier(toks[i-1].Normalized); ok {
		return f
	}
	return 1
}

func nextNumber(toks []token.Token, from int) (float64, int, bool) {
	// numbers bind to the nearest operator; allow one word between
	// ("entre 20 y 40")
	limit := from + 2
	if limit > len(toks) {
		limit = len(toks)
	}
	for i := from; i < limit; i++ {
		if toks[i].Kind == token.KindNumber {
			return toks[i].Value, i, true
		}
	}
	return 0, 0, false
}

func measureFilter(value float64, unit string) *SizeFilter {
	field := "volume"
	switch unit {
	case "g", "gr", "gramo", "gramos", "kg", "kilo", "kilos":
		field = "weight"
	}
	switch unit {
	case "l", "lt", "litro", "litros":
		value *= 1000
	case "kg", "kilo", "kilos":
		value *= 1000
	}
	return &SizeFilter{Field: field, Operator: spanish.OpEq, Value: value}
}
