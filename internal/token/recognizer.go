package token

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mercadito/search-engine/internal/spanish"
	"github.com/mercadito/search-engine/internal/store"
)

// wordSpan is one whitespace-delimited word with its byte offsets.
type wordSpan struct {
	word       string
	start, end int
}

// Recognizer attempts to claim a token at the current scan position.
// words holds the upcoming contiguous words starting at the position;
// recognizers claim a prefix of them and never look past a match.
type Recognizer interface {
	TryMatch(vocab *store.Vocabulary, words []wordSpan) (Token, bool)
}

// phraseRecognizer claims multi-word product phrases, longest first.
type phraseRecognizer struct{}

func (phraseRecognizer) TryMatch(vocab *store.Vocabulary, words []wordSpan) (Token, bool) {
	max := vocab.MaxPhraseWords()
	if max > len(words) {
		max = len(words)
	}
	for n := max; n >= 2; n-- {
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = words[i].word
		}
		phrase := strings.Join(parts, " ")
		canonical, ok := vocab.LookupPhrase(phrase)
		if !ok {
			continue
		}
		return Token{
			Kind:       KindProductPhrase,
			Normalized: spanish.Normalize(phrase),
			Start:      words[0].start,
			End:        words[n-1].end,
			Canonical:  canonical,
		}, true
	}
	return Token{}, false
}

// operatorRecognizer claims comparison-operator phrases like "menos de".
type operatorRecognizer struct{}

func (operatorRecognizer) TryMatch(_ *store.Vocabulary, words []wordSpan) (Token, bool) {
	raw := make([]string, len(words))
	for i, w := range words {
		raw[i] = w.word
	}
	op, consumed, ok := spanish.OperatorPhrase(raw)
	if !ok {
		return Token{}, false
	}
	return Token{
		Kind:       KindOperator,
		Normalized: spanish.Normalize(strings.Join(raw[:consumed], " ")),
		Start:      words[0].start,
		End:        words[consumed-1].end,
		Operator:   op,
	}, true
}

// numberRecognizer claims integer and decimal literals, with an optional
// leading currency sign ("$50").
type numberRecognizer struct{}

func (numberRecognizer) TryMatch(_ *store.Vocabulary, words []wordSpan) (Token, bool) {
	w := words[0]
	digits := strings.TrimPrefix(w.word, "$")
	if !spanish.IsNumeric(digits) {
		return Token{}, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", "."), 64)
	if err != nil {
		return Token{}, false
	}
	return Token{
		Kind:       KindNumber,
		Normalized: digits,
		Start:      w.start,
		End:        w.end,
		Value:      value,
	}, true
}

// unitRecognizer claims currency and measure words. The refiner later
// specializes the kind when a number precedes it.
type unitRecognizer struct{}

func (unitRecognizer) TryMatch(_ *store.Vocabulary, words []wordSpan) (Token, bool) {
	w := words[0]
	if _, ok := spanish.Unit(w.word); !ok {
		return Token{}, false
	}
	return Token{
		Kind:       KindUnit,
		Normalized: spanish.Normalize(w.word),
		Start:      w.start,
		End:        w.end,
	}, true
}

// wordRecognizer classifies a single word against the lexicon and the
// vocabulary. Last in the chain; it matches anything carrying a letter
// or digit, so the scanner only discards pure punctuation.
type wordRecognizer struct{}

func (wordRecognizer) TryMatch(vocab *store.Vocabulary, words []wordSpan) (Token, bool) {
	w := words[0]
	norm := spanish.Normalize(w.word)
	if !hasWordChar(norm) {
		return Token{}, false
	}
	t := Token{Raw: w.word, Normalized: norm, Start: w.start, End: w.end}

	if vocab.IsCategory(norm) || spanish.IsCategoryKeyword(norm) {
		t.Kind = KindCategory
	} else if spanish.IsModifier(norm) || spanish.IsIntensifier(norm) {
		t.Kind = KindModifier
	} else if _, ok := spanish.PriceQualifier(norm); ok {
		t.Kind = KindPriceFilter
	} else if _, ok := spanish.SizeQualifier(norm); ok {
		t.Kind = KindSizeFilter
	} else if _, ok := spanish.AttributeTag(norm); ok {
		t.Kind = KindAttribute
	} else if vocab.Contains(norm) {
		t.Kind = KindGenericWord
	} else {
		t.Kind = KindUnrecognized
	}
	return t, true
}

func hasWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
