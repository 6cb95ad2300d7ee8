package corrector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/store"
)

func testVocabulary(t *testing.T) *store.Vocabulary {
	t.Helper()
	provider := store.NewSnapshotProvider(store.Builtin(), time.Minute, observability.Discard(), nil)
	vocab := provider.Vocabulary(context.Background())
	require.NotNil(t, vocab)
	return vocab
}

func TestCorrect_ExactVocabularyWord(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	cand := c.Correct(vocab, "coca")
	assert.Equal(t, "coca", cand.Corrected)
	assert.Equal(t, SourceExact, cand.Source)
	assert.Equal(t, 1.0, cand.Confidence)
}

func TestCorrect_KnownErrorTable(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"phonetic k for c", "koka", "coca"},
		{"phonetic k for c second word", "kola", "cola"},
		{"s for z", "asucar", "azucar"},
		{"v for b", "serveza", "cerveza"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := c.Correct(vocab, tt.in)
			assert.Equal(t, tt.want, cand.Corrected)
			assert.Equal(t, SourceKnownError, cand.Source)
			assert.InDelta(t, 0.95, cand.Confidence, 0.001)
		})
	}
}

func TestCorrect_FuzzyMatch(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	// s-for-z confusion lands in the same phonetic bucket as "manzana"
	cand := c.Correct(vocab, "mansana")
	assert.Equal(t, "manzana", cand.Corrected)
	assert.Equal(t, SourceFuzzy, cand.Source)
	assert.GreaterOrEqual(t, cand.Confidence, 0.7)
}

func TestCorrect_NumericGuard(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	t.Run("well formed numbers pass through", func(t *testing.T) {
		cand := c.Correct(vocab, "100")
		assert.Equal(t, "100", cand.Corrected)
		assert.Equal(t, SourceExact, cand.Source)
		assert.Equal(t, 1.0, cand.Confidence)
	})

	t.Run("letter-for-digit typo uses the numeric table", func(t *testing.T) {
		cand := c.Correct(vocab, "1oo")
		assert.Equal(t, "100", cand.Corrected)
		assert.Equal(t, SourceKnownError, cand.Source)
	})

	t.Run("numbers never fuzzy match words", func(t *testing.T) {
		cand := c.Correct(vocab, "6000")
		assert.Equal(t, "6000", cand.Corrected)
		assert.Equal(t, SourceExact, cand.Source)
	})
}

func TestCorrect_UnknownWordUnchanged(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	cand := c.Correct(vocab, "xyzzyplugh")
	assert.Equal(t, "xyzzyplugh", cand.Corrected)
	assert.Equal(t, SourceNone, cand.Source)
	assert.Equal(t, 0.0, cand.Confidence)
}

func TestCorrectQuery_AppliesChanges(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	res := c.CorrectQuery(vocab, "koka kola")
	assert.True(t, res.Applied)
	assert.Len(t, res.Changes, 2)
	assert.Equal(t, "coca cola", res.CorrectedQuery)
	assert.Equal(t, "koka", res.Changes[0].From)
	assert.Equal(t, "coca", res.Changes[0].To)
}

func TestCorrectQuery_NoChangesLeavesQueryIntact(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	res := c.CorrectQuery(vocab, "coca cola")
	assert.False(t, res.Applied)
	assert.Empty(t, res.Changes)
	assert.Equal(t, "coca cola", res.CorrectedQuery)
}

func TestCorrectQuery_Idempotent(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	queries := []string{
		"koka kola sin asucar",
		"serveza varata",
		"leche deslactosada",
	}

	for _, q := range queries {
		first := c.CorrectQuery(vocab, q)
		second := c.CorrectQuery(vocab, first.CorrectedQuery)
		assert.False(t, second.Applied, "second pass over %q must be a no-op", q)
		assert.Equal(t, first.CorrectedQuery, second.CorrectedQuery)
	}
}

func TestCorrector_MemoSurvivesSameVocabulary(t *testing.T) {
	c := New(observability.Discard(), DefaultConfig())
	vocab := testVocabulary(t)

	first := c.Correct(vocab, "koka")
	cached, ok := c.memo.Load().Load("koka")
	require.True(t, ok)
	assert.Equal(t, first.Corrected, cached.(Candidate).Corrected)

	// same snapshot version keeps the memo warm
	_ = c.Correct(vocab, "coca")
	_, ok = c.memo.Load().Load("koka")
	assert.True(t, ok)
}

func TestCorrect_ConcurrentAcrossVocabularyVersions(t *testing.T) {
	logger := observability.Discard()
	provider := store.NewSnapshotProvider(store.Builtin(), time.Minute, logger, nil)
	ctx := context.Background()

	v1 := provider.Vocabulary(ctx)
	v2, err := provider.Refresh(ctx)
	require.NoError(t, err)
	require.NotEqual(t, v1.Version, v2.Version)

	c := New(logger, DefaultConfig())
	words := []string{"koka", "kola", "mansana", "serveza", "coca", "zzqqxx"}
	vocabs := []*store.Vocabulary{v1, v2}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			vocab := vocabs[g%len(vocabs)]
			for i := 0; i < 200; i++ {
				w := words[i%len(words)]
				cand := c.Correct(vocab, w)
				assert.Equal(t, w, cand.Original)
			}
		}(g)
	}
	wg.Wait()

	// after the churn the memo still answers coherently
	cand := c.Correct(provider.Vocabulary(ctx), "koka")
	assert.Equal(t, "coca", cand.Corrected)
}
