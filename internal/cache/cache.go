package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"cyclecheck/internal/models"
)

// ParseCache stores extracted import records keyed by file path and content
// hash, so repeated runs skip reparsing unchanged files. All operations are
// safe for concurrent use.
type ParseCache struct {
	mu      sync.Mutex
	entries map[string]entry
	hits    uint64
	misses  uint64
}

type entry struct {
	hash    uint64
	records []models.ImportRecord
}

// Stats is a read-only snapshot of cache effectiveness.
type Stats struct {
	Size    int     `json:"size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

func New() *ParseCache {
	return &ParseCache{entries: make(map[string]entry)}
}

// shared is the process-wide instance; callers wanting a scoped cache
// construct their own with New.
var shared = New()

func Shared() *ParseCache {
	return shared
}

// HashContent digests file contents with a fast non-cryptographic hash.
func HashContent(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Get returns the cached records for path when the stored content hash still
// matches.
func (c *ParseCache) Get(path string, hash uint64) ([]models.ImportRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok || e.hash != hash {
		c.misses++
		return nil, false
	}
	c.hits++
	return e.records, true
}

// Put stores the records for path under the given content hash, replacing
// any previous entry.
func (c *ParseCache) Put(path string, hash uint64, records []models.ImportRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{hash: hash, records: records}
}

// Invalidate drops the entry for path.
func (c *ParseCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Clear drops every entry and resets the counters.
func (c *ParseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.hits = 0
	c.misses = 0
}

func (c *ParseCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:   len(c.entries),
		Hits:   c.hits,
		Misses: c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}
