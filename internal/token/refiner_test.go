package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/search-engine/internal/observability"
)

func TestRefine_CategoryPullsGenericWord(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	r := NewRefiner(observability.Discard())
	vocab := testVocabulary(t)

	stream := r.Refine(tk.Tokenize(vocab, "tipo refresco"))
	require.Len(t, stream.Tokens, 2)
	assert.Equal(t, KindCategory, stream.Tokens[0].Kind)
	assert.Equal(t, KindCategory, stream.Tokens[1].Kind)
}

func TestRefine_ModifierPromotesFollowerToAttribute(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	r := NewRefiner(observability.Discard())
	vocab := testVocabulary(t)

	// "chocolate" is not in the attribute lexicon; the modifier
	// promotes it
	stream := r.Refine(tk.Tokenize(vocab, "sin chocolate"))
	require.Len(t, stream.Tokens, 2)
	assert.Equal(t, KindModifier, stream.Tokens[0].Kind)
	assert.Equal(t, KindAttribute, stream.Tokens[1].Kind)
}

func TestRefine_NumberBindsUnitClass(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	r := NewRefiner(observability.Discard())
	vocab := testVocabulary(t)

	t.Run("currency", func(t *testing.T) {
		stream := r.Refine(tk.Tokenize(vocab, "50 pesos"))
		require.Len(t, stream.Tokens, 2)
		assert.Equal(t, KindNumber, stream.Tokens[0].Kind)
		assert.Equal(t, KindUnitMoney, stream.Tokens[1].Kind)
	})

	t.Run("measure", func(t *testing.T) {
		stream := r.Refine(tk.Tokenize(vocab, "600 ml"))
		require.Len(t, stream.Tokens, 2)
		assert.Equal(t, KindNumber, stream.Tokens[0].Kind)
		assert.Equal(t, KindUnitMeasure, stream.Tokens[1].Kind)
	})
}

func TestRefine_RulesDoNotCascade(t *testing.T) {
	tk := NewTokenizer(observability.Discard())
	r := NewRefiner(observability.Discard())
	vocab := testVocabulary(t)

	// "refresco" gets pulled into the category; the reclassified token
	// must not pull "cerveza" along in the same pass
	stream := r.Refine(tk.Tokenize(vocab, "tipo refresco cerveza"))
	require.Len(t, stream.Tokens, 3)
	assert.Equal(t, KindCategory, stream.Tokens[1].Kind)
	assert.Equal(t, KindGenericWord, stream.Tokens[2].Kind)
}
