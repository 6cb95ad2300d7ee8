package token

import (
	"unicode"
	"unicode/utf8"

	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/store"
)

// lookahead caps how many upcoming words recognizers may inspect.
const lookahead = 4

// Tokenizer scans text left to right, asking recognizers in strict
// priority order to claim a span at each position. The first match wins;
// a multi-word phrase beats any single-word classification of its
// prefix. When nothing matches, the scan advances one character so it
// never stalls.
type Tokenizer struct {
	logger      *observability.Logger
	recognizers []Recognizer
}

// NewTokenizer creates a Tokenizer with the standard recognizer chain.
func NewTokenizer(logger *observability.Logger) *Tokenizer {
	return &Tokenizer{
		logger: logger.WithComponent("tokenizer"),
		recognizers: []Recognizer{
			phraseRecognizer{},
			operatorRecognizer{},
			numberRecognizer{},
			unitRecognizer{},
			wordRecognizer{},
		},
	}
}

// Tokenize scans the text into a stream. Emitted spans plus the
// whitespace and discarded characters between them cover the input
// exactly; unintelligible input yields an empty stream, not an error.
func (t *Tokenizer) Tokenize(vocab *store.Vocabulary, text string) Stream {
	stream := Stream{Input: text}
	pos := 0

	for pos < len(text) {
		pos = skipSpace(text, pos)
		if pos >= len(text) {
			break
		}

		words := upcomingWords(text, pos, lookahead)
		if len(words) == 0 {
			// non-space rune that does not start a word
			_, size := utf8.DecodeRuneInString(text[pos:])
			pos += size
			continue
		}

		tok, ok := t.match(vocab, words)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[pos:])
			pos += size
			continue
		}
		tok.Raw = text[tok.Start:tok.End]
		stream.Tokens = append(stream.Tokens, tok)
		pos = tok.End
	}

	t.logger.Debug().
		Str("input", text).
		Int("tokens", len(stream.Tokens)).
		Msg("tokenized")

	return stream
}

func (t *Tokenizer) match(vocab *store.Vocabulary, words []wordSpan) (Token, bool) {
	for _, r := range t.recognizers {
		if tok, ok := r.TryMatch(vocab, words); ok {
			return tok, true
		}
	}
	return Token{}, false
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !unicode.IsSpace(r) {
			return pos
		}
		pos += size
	}
	return pos
}

// upcomingWords collects up to max contiguous words starting at pos,
// which must sit on a non-space character.
func upcomingWords(text string, pos int, max int) []wordSpan {
	var out []wordSpan
	for pos < len(text) && len(out) < max {
		start := pos
		for pos < len(text) {
			r, size := utf8.DecodeRuneInString(text[pos:])
			if unicode.IsSpace(r) {
				break
			}
			pos += size
		}
		out = append(out, wordSpan{word: text[start:pos], start: start, end: pos})
		pos = skipSpace(text, pos)
	}
	return out
}
