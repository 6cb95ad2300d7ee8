package interpret

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/search-engine/internal/corrector"
	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/spanish"
	"github.com/mercadito/search-engine/internal/store"
	"github.com/mercadito/search-engine/internal/token"
)

type fixture struct {
	vocab       *store.Vocabulary
	tokenizer   *token.Tokenizer
	refiner     *token.Refiner
	interpreter *Interpreter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := observability.Discard()
	provider := store.NewSnapshotProvider(store.Builtin(), time.Minute, logger, spanish.StaticWords())
	vocab := provider.Vocabulary(context.Background())
	require.NotNil(t, vocab)
	return &fixture{
		vocab:       vocab,
		tokenizer:   token.NewTokenizer(logger),
		refiner:     token.NewRefiner(logger),
		interpreter: New(logger, corrector.New(logger, corrector.DefaultConfig())),
	}
}

func (f *fixture) interpret(text string) Interpretation {
	return f.interpreter.Interpret(f.vocab, f.refiner.Refine(f.tokenizer.Tokenize(f.vocab, text)))
}

func TestInterpret_CategoryAttributePrice(t *testing.T) {
	f := newFixture(t)

	in := f.interpret("bebidas sin azucar baratas")
	assert.Equal(t, "bebidas", in.Category)
	require.Len(t, in.Attributes, 1)
	assert.Equal(t, "sin_azucar", in.Attributes[0].Tag())
	assert.True(t, in.Attributes[0].Negated)
	require.NotNil(t, in.Price)
	require.NotNil(t, in.Price.Max)
	assert.Equal(t, 50.0, *in.Price.Max)
	assert.Nil(t, in.Price.Min)
}

func TestInterpret_NegationWins(t *testing.T) {
	f := newFixture(t)

	in := f.interpret("picante sin picante")
	require.Len(t, in.Attributes, 1)
	assert.True(t, in.Attributes[0].Negated)
	assert.Equal(t, "picante", in.Attributes[0].Attribute)
}

func TestInterpret_ProductPhrase(t *testing.T) {
	f := newFixture(t)

	in := f.interpret("coca cola")
	assert.Equal(t, "Coca Cola 600ml", in.Product)
}

func TestInterpret_OperatorBounds(t *testing.T) {
	f := newFixture(t)

	t.Run("upper bound", func(t *testing.T) {
		in := f.interpret("refresco menos de 30 pesos")
		require.NotNil(t, in.Price)
		require.NotNil(t, in.Price.Max)
		assert.Equal(t, 30.0, *in.Price.Max)
	})

	t.Run("lower bound", func(t *testing.T) {
		in := f.interpret("cerveza mas de 20")
		require.NotNil(t, in.Price)
		require.NotNil(t, in.Price.Min)
		assert.Equal(t, 20.0, *in.Price.Min)
	})

	t.Run("range", func(t *testing.T) {
		in := f.interpret("botanas entre 10 y 25 pesos")
		require.NotNil(t, in.Price)
		require.NotNil(t, in.Price.Min)
		require.NotNil(t, in.Price.Max)
		assert.Equal(t, 10.0, *in.Price.Min)
		assert.Equal(t, 25.0, *in.Price.Max)
	})
}

func TestInterpret_IntensifierScalesThreshold(t *testing.T) {
	f := newFixture(t)

	plain := f.interpret("barato")
	intense := f.interpret("muy barato")
	require.NotNil(t, plain.Price)
	require.NotNil(t, intense.Price)
	assert.Less(t, *intense.Price.Max, *plain.Price.Max, "muy tightens a price ceiling")

	expensive := f.interpret("muy caro")
	require.NotNil(t, expensive.Price)
	require.NotNil(t, expensive.Price.Min)
	assert.Equal(t, 150.0, *expensive.Price.Min)
}

func TestInterpret_SynonymResolution(t *testing.T) {
	f := newFixture(t)

	t.Run("category synonym", func(t *testing.T) {
		in := f.interpret("refresco")
		assert.Equal(t, "bebidas", in.Category)
	})

	t.Run("product synonym", func(t *testing.T) {
		in := f.interpret("chelas")
		assert.Equal(t, "Cerveza Clara 355ml", in.Product)
	})

	t.Run("attribute synonym", func(t *testing.T) {
		in := f.interpret("yogurt light")
		require.NotEmpty(t, in.Attributes)
		assert.Equal(t, "sin_azucar", in.Attributes[0].Attribute)
	})
}

func TestInterpret_SizeFilters(t *testing.T) {
	f := newFixture(t)

	t.Run("qualitative", func(t *testing.T) {
		in := f.interpret("refresco grande")
		require.NotNil(t, in.Size)
		assert.Equal(t, "volume", in.Size.Field)
		assert.Equal(t, spanish.OpGTE, in.Size.Operator)
	})

	t.Run("explicit measure", func(t *testing.T) {
		in := f.interpret("leche 1 litro")
		require.NotNil(t, in.Size)
		assert.Equal(t, "volume", in.Size.Field)
		assert.Equal(t, 1000.0, in.Size.Value)
	})
}

func TestInterpret_UnintelligibleQueryIsEmpty(t *testing.T) {
	f := newFixture(t)

	in := f.interpret("zzqq wwkk ppmm")
	assert.True(t, in.IsEmpty())
}

func TestFilterExpression(t *testing.T) {
	f := newFixture(t)

	in := f.interpret("bebidas sin azucar baratas")
	expr := in.FilterExpression()
	assert.Contains(t, expr, "category = 'bebidas'")
	assert.Contains(t, expr, "tags CONTAINS 'sin_azucar'")
	assert.Contains(t, expr, "price <= 50.00")

	assert.Empty(t, Interpretation{}.FilterExpression())
}
