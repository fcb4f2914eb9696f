package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclecheck/internal/models"
)

func sampleRecords() []models.ImportRecord {
	return []models.ImportRecord{
		{Source: "./a", Kind: models.ImportStaticESM, Specifiers: []string{"a"}, Line: 1},
		{Source: "./b", Kind: models.ImportCommonJS, Specifiers: []string{}, Line: 3},
	}
}

func TestRoundTrip(t *testing.T) {
	c := New()
	records := sampleRecords()

	c.Put("/proj/a.ts", 42, records)

	got, ok := c.Get("/proj/a.ts", 42)
	require.True(t, ok)
	assert.Equal(t, records, got)
}

func TestHashMismatchMisses(t *testing.T) {
	c := New()
	c.Put("/proj/a.ts", 42, sampleRecords())

	_, ok := c.Get("/proj/a.ts", 43)
	assert.False(t, ok)
}

func TestUnknownPathMisses(t *testing.T) {
	c := New()
	_, ok := c.Get("/proj/missing.ts", 1)
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := New()
	c.Put("/proj/a.ts", 42, sampleRecords())
	c.Invalidate("/proj/a.ts")

	_, ok := c.Get("/proj/a.ts", 42)
	assert.False(t, ok)
}

func TestClearResetsEntriesAndCounters(t *testing.T) {
	c := New()
	c.Put("/proj/a.ts", 42, sampleRecords())
	c.Get("/proj/a.ts", 42)
	c.Get("/proj/a.ts", 7)

	c.Clear()

	stats := c.Stats()
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, 0.0, stats.HitRate)
}

func TestStats(t *testing.T) {
	c := New()
	c.Put("/proj/a.ts", 42, sampleRecords())

	c.Get("/proj/a.ts", 42) // hit
	c.Get("/proj/a.ts", 42) // hit
	c.Get("/proj/a.ts", 7)  // miss
	c.Get("/proj/b.ts", 1)  // miss

	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
}

func TestHashContentDistinguishesContents(t *testing.T) {
	a := HashContent([]byte("import './a';"))
	b := HashContent([]byte("import './b';"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashContent([]byte("import './a';")))
}

func TestSharedReturnsSameInstance(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := "/proj/a.ts"
			for j := 0; j < 100; j++ {
				c.Put(path, uint64(i), sampleRecords())
				c.Get(path, uint64(i))
				c.Stats()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, c.Stats().Size)
}
