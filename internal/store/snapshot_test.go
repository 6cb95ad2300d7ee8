package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/search-engine/internal/observability"
)

type failingCatalog struct {
	*MemoryStore
}

func (f *failingCatalog) AllProducts(ctx context.Context) ([]Product, error) {
	return nil, errors.New("connection refused")
}

func TestSnapshotProvider_BuildsVocabulary(t *testing.T) {
	p := NewSnapshotProvider(testStore(), time.Minute, observability.Discard(), []string{"barato", "muy"})

	v := p.Vocabulary(context.Background())
	require.NotNil(t, v)

	assert.True(t, v.Contains("cola"))
	assert.True(t, v.Contains("barato"), "static words folded in")
	assert.True(t, v.IsCategory("bebidas"))
	assert.False(t, v.IsCategory("cola"))

	name, ok := v.LookupPhrase("coca cola")
	require.True(t, ok, "packaging-stripped product phrase registered")
	assert.Equal(t, "Coca Cola 600ml", name)

	entries := v.Synonyms("refresco")
	require.Len(t, entries, 2)
	assert.Equal(t, "bebidas", entries[0].TargetName)
}

func TestSnapshotProvider_ReusesFreshSnapshot(t *testing.T) {
	p := NewSnapshotProvider(testStore(), time.Minute, observability.Discard(), nil)

	v1 := p.Vocabulary(context.Background())
	v2 := p.Vocabulary(context.Background())
	assert.Same(t, v1, v2, "fresh snapshot must not be rebuilt")
}

func TestSnapshotProvider_RefreshBumpsVersion(t *testing.T) {
	p := NewSnapshotProvider(testStore(), time.Minute, observability.Discard(), nil)

	v1 := p.Vocabulary(context.Background())
	v2, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Greater(t, v2.Version, v1.Version)
}

func TestSnapshotProvider_BuiltinFallback(t *testing.T) {
	p := NewSnapshotProvider(&failingCatalog{testStore()}, time.Minute, observability.Discard(), nil)

	v := p.Vocabulary(context.Background())
	require.NotNil(t, v, "pipeline must stay operational without store data")
	assert.NotEmpty(t, v.Products)
	assert.True(t, v.IsCategory("bebidas"))
}

func TestBuiltinVocabularyIsUsable(t *testing.T) {
	b := Builtin()

	stats, err := b.Stats(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stats.ProductCount, 10)
	assert.Contains(t, stats.Categories, "bebidas")

	products, err := b.FindByAttribute(context.Background(), "picante", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}

type countingCatalog struct {
	*MemoryStore
	calls   atomic.Int32
	release chan struct{}
}

func (c *countingCatalog) AllProducts(ctx context.Context) ([]Product, error) {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	return c.MemoryStore.AllProducts(ctx)
}

func TestSnapshotProvider_ConcurrentCallsShareOneRebuild(t *testing.T) {
	cat := &countingCatalog{MemoryStore: testStore(), release: make(chan struct{})}
	p := NewSnapshotProvider(cat, time.Minute, observability.Discard(), nil)

	const callers = 8
	results := make(chan *Vocabulary, callers)
	for i := 0; i < callers; i++ {
		go func() { results <- p.Vocabulary(context.Background()) }()
	}

	// let the callers pile up behind the in-flight rebuild
	time.Sleep(20 * time.Millisecond)
	close(cat.release)

	versions := make(map[int64]struct{})
	for i := 0; i < callers; i++ {
		v := <-results
		require.NotNil(t, v)
		versions[v.Version] = struct{}{}
	}
	assert.Len(t, versions, 1, "every caller sees the same snapshot")
	assert.EqualValues(t, 1, cat.calls.Load(), "one catalog scan for the whole fanout")
}
