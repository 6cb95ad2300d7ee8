package token

import (
	"context"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/spanish"
	"github.com/mercadito/search-engine/internal/store"
)

func testVocabulary(t *testing.T) *store.Vocabulary {
	t.Helper()
	provider := store.NewSnapshotProvider(store.Builtin(), time.Minute, observability.Discard(), spanish.StaticWords())
	vocab := provider.Vocabulary(context.Background())
	require.NotNil(t, vocab)
	return vocab
}

func TestTokenize_ProductPhraseBeatsGenericWords(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	vocab := testVocabulary(t)

	stream := tk.Tokenize(vocab, "coca cola")
	require.Len(t, stream.Tokens, 1)
	assert.Equal(t, KindProductPhrase, stream.Tokens[0].Kind)
	assert.Equal(t, "coca cola", stream.Tokens[0].Raw)
	assert.Equal(t, 0, stream.Tokens[0].Start)
	assert.Equal(t, 9, stream.Tokens[0].End)
	assert.NotEmpty(t, stream.Tokens[0].Canonical)
}

func TestTokenize_ClassifiesWordKinds(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	vocab := testVocabulary(t)

	tests := []struct {
		name string
		in   string
		want []Kind
	}{
		{
			name: "category attribute qualifier",
			in:   "bebidas sin azucar baratas",
			want: []Kind{KindCategory, KindModifier, KindAttribute, KindPriceFilter},
		},
		{
			name: "operator number unit",
			in:   "menos de 50 pesos",
			want: []Kind{KindOperator, KindNumber, KindUnit},
		},
		{
			name: "size qualifier",
			in:   "refresco grande",
			want: []Kind{KindGenericWord, KindSizeFilter},
		},
		{
			name: "unknown word",
			in:   "zzqqxx",
			want: []Kind{KindUnrecognized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := tk.Tokenize(vocab, tt.in)
			assert.Equal(t, tt.want, stream.Kinds())
		})
	}
}

func TestTokenize_NumberParsing(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	vocab := testVocabulary(t)

	tests := []struct {
		in    string
		value float64
	}{
		{"50", 50},
		{"12.5", 12.5},
		{"12,5", 12.5},
		{"$80", 80},
	}

	for _, tt := range tests {
		stream := tk.Tokenize(vocab, tt.in)
		require.Len(t, stream.Tokens, 1, "input %q", tt.in)
		assert.Equal(t, KindNumber, stream.Tokens[0].Kind)
		assert.Equal(t, tt.value, stream.Tokens[0].Value)
	}
}

func TestTokenize_OperatorPhrases(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	vocab := testVocabulary(t)

	tests := []struct {
		in string
		op string
	}{
		{"menos de 50", spanish.OpLTE},
		{"mas de 20", spanish.OpGTE},
		{"hasta 30", spanish.OpLTE},
		{"entre 20", spanish.OpBetween},
	}

	for _, tt := range tests {
		stream := tk.Tokenize(vocab, tt.in)
		require.NotEmpty(t, stream.Tokens, "input %q", tt.in)
		assert.Equal(t, KindOperator, stream.Tokens[0].Kind)
		assert.Equal(t, tt.op, stream.Tokens[0].Operator)
	}
}

// Emitted spans plus the whitespace between them must cover the input
// exactly, with no gaps and no overlaps.
func TestTokenize_SpansPartitionInput(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	vocab := testVocabulary(t)

	inputs := []string{
		"bebidas sin azucar baratas",
		"coca cola 600ml",
		"  leche   entera  ",
		"menos de 50 pesos",
		"!@# refresco ???",
		"",
		"   ",
	}

	for _, in := range inputs {
		stream := tk.Tokenize(vocab, in)
		prevEnd := 0
		for _, tok := range stream.Tokens {
			assert.GreaterOrEqual(t, tok.Start, prevEnd, "overlap in %q", in)
			assert.Less(t, tok.Start, tok.End, "empty span in %q", in)
			assert.Equal(t, in[tok.Start:tok.End], tok.Raw, "raw mismatch in %q", in)
			for _, r := range in[prevEnd:tok.Start] {
				if !unicode.IsSpace(r) && !isDiscardable(r) {
					t.Errorf("gap with word character %q in %q", r, in)
				}
			}
			prevEnd = tok.End
		}
		assert.LessOrEqual(t, prevEnd, len(in))
	}
}

func isDiscardable(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func TestTokenize_PurePunctuationIsDiscarded(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	vocab := testVocabulary(t)

	stream := tk.Tokenize(vocab, "bebidas ??? baratas --")
	require.Len(t, stream.Tokens, 2)
	assert.Equal(t, KindCategory, stream.Tokens[0].Kind)
	assert.Equal(t, KindPriceFilter, stream.Tokens[1].Kind)

	assert.Empty(t, tk.Tokenize(vocab, "?! -- ...").Tokens)
}

func TestTokenize_UnintelligibleInputYieldsNoError(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	vocab := testVocabulary(t)

	stream := tk.Tokenize(vocab, "qwxz jfkd vbnm")
	for _, tok := range stream.Tokens {
		assert.Equal(t, KindUnrecognized, tok.Kind)
	}
}
