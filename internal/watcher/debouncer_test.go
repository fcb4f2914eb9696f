package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.stop()

	var mu sync.Mutex
	var calls [][]string
	handler := func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, files)
		return nil
	}

	now := time.Now()
	d.add(FileChangeEvent{Path: "/p/a.ts", Operation: "WRITE", Timestamp: now}, handler)
	d.add(FileChangeEvent{Path: "/p/a.ts", Operation: "WRITE", Timestamp: now}, handler)
	d.add(FileChangeEvent{Path: "/p/b.ts", Operation: "CREATE", Timestamp: now}, handler)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []string{"/p/a.ts", "/p/b.ts"}, calls[0])
}

func TestDebouncerResetsTimerOnNewEvents(t *testing.T) {
	d := newDebouncer(40 * time.Millisecond)
	defer d.stop()

	var mu sync.Mutex
	count := 0
	handler := func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	}

	d.add(FileChangeEvent{Path: "/p/a.ts"}, handler)
	time.Sleep(20 * time.Millisecond)
	d.add(FileChangeEvent{Path: "/p/b.ts"}, handler)

	// the first timer was reset, so only one flush happens
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}
