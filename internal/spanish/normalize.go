// Package spanish provides text normalization helpers for Spanish-language
// queries: accent folding, whitespace cleanup, and phonetic bucketing.
package spanish

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldAccents removes combining accent marks from a string. The enye
// folds to plain n like every other accented letter.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Normalize lowercases, trims, folds accents, and collapses internal
// whitespace. This is the canonical form used for vocabulary lookups and
// for the normalized_name column in the store.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = FoldAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// IsNumeric reports whether the word is an integer or decimal literal.
// Both "10.5" and "10,5" count; Spanish input uses either separator.
func IsNumeric(word string) bool {
	if word == "" {
		return false
	}
	seenDigit := false
	seenSep := false
	for _, r := range word {
		switch {
		case unicode.IsDigit(r):
			seenDigit = true
		case (r == '.' || r == ',') && !seenSep:
			seenSep = true
		default:
			return false
		}
	}
	return seenDigit
}
