package cycles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclecheck/internal/graph"
)

func TestEnumerateElementaryCyclesFindsAll(t *testing.T) {
	// Two overlapping cycles sharing node b: a→b→a and b→c→b. Tarjan reports
	// one SCC; Johnson enumerates both simple cycles.
	g := graph.New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("b", "c")
	g.AddEdge("c", "b")

	cycles := EnumerateElementaryCycles(g, 100)
	require.Len(t, cycles, 2)

	for _, cycle := range cycles {
		assertChainIsReal(t, g, cycle.Chain)
		assert.Equal(t, 2, cycle.Length)
	}
}

func TestEnumerateElementaryCyclesDeduplicatesRotations(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	cycles := EnumerateElementaryCycles(g, 100)
	require.Len(t, cycles, 1)
	assert.Equal(t, 3, cycles[0].Length)
	// canonical rotation starts at the smallest member
	assert.Equal(t, "a", cycles[0].Chain[0])
}

func TestEnumerateElementaryCyclesHonorsBound(t *testing.T) {
	// Complete digraph on 5 nodes has many elementary cycles.
	g := graph.New()
	names := []string{"a", "b", "c", "d", "e"}
	for _, u := range names {
		for _, v := range names {
			if u != v {
				g.AddEdge(u, v)
			}
		}
	}

	cycles := EnumerateElementaryCycles(g, 7)
	assert.LessOrEqual(t, len(cycles), 7)
	assert.NotEmpty(t, cycles)
}

func TestEnumerateElementaryCyclesIncludesSelfLoops(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "a")

	cycles := EnumerateElementaryCycles(g, 100)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "a"}, cycles[0].Chain)
	assert.Equal(t, 1, cycles[0].Length)
}

func TestEnumerateElementaryCyclesAcyclic(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	assert.Empty(t, EnumerateElementaryCycles(g, 100))
}
