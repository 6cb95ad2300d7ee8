// Package token scans corrected query text into a classified token
// stream using priority-ordered recognizers, then refines ambiguous
// tokens with local context rules.
package token

import "github.com/mercadito/search-engine/internal/spanish"

// Kind classifies a token.
type Kind string

const (
	KindProductPhrase Kind = "product_phrase"
	KindCategory      Kind = "category"
	KindAttribute     Kind = "attribute"
	KindModifier      Kind = "modifier"
	KindOperator      Kind = "operator"
	KindNumber        Kind = "number"
	KindUnit          Kind = "unit"
	KindUnitMoney     Kind = "unit_money"
	KindUnitMeasure   Kind = "unit_measure"
	KindGenericWord   Kind = "generic_word"
	KindPriceFilter   Kind = "price_filter"
	KindSizeFilter    Kind = "size_filter"
	KindUnrecognized  Kind = "unrecognized"
)

// Token is a classified span of the input text. Start and End are byte
// offsets into the scanned text, End exclusive. A token is emitted once
// by the tokenizer; the refiner may overwrite Kind exactly once.
type Token struct {
	Kind       Kind    `json:"kind"`
	Raw        string  `json:"raw"`
	Normalized string  `json:"normalized"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Value      float64 `json:"value,omitempty"`     // parsed number, number tokens only
	Operator   string  `json:"operator,omitempty"`  // comparison op, operator tokens only
	Canonical  string  `json:"canonical,omitempty"` // canonical product name, phrase tokens only
	refined    bool
}

// UnitClass returns the unit class for unit tokens.
func (t Token) UnitClass() (spanish.UnitClass, bool) {
	switch t.Kind {
	case KindUnitMoney:
		return spanish.UnitMoney, true
	case KindUnitMeasure:
		return spanish.UnitMeasure, true
	case KindUnit:
		return spanish.Unit(t.Normalized)
	}
	return "", false
}

// Stream is the ordered token sequence for one query, left to right.
type Stream struct {
	Input  string  `json:"input"`
	Tokens []Token `json:"tokens"`
}

// Kinds returns the token kinds in order. Test helper shape, also handy
// for logging.
func (s Stream) Kinds() []Kind {
	out := make([]Kind, len(s.Tokens))
	for i, t := range s.Tokens {
		out[i] = t.Kind
	}
	return out
}
