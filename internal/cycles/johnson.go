package cycles

import (
	"strings"

	"cyclecheck/internal/graph"
	"cyclecheck/internal/models"
)

// EnumerateElementaryCycles lists up to maxCycles simple elementary cycles
// using Johnson's algorithm. Each cycle is normalized to its minimum-rotation
// form and duplicates are dropped. The default analysis reports one cycle per
// SCC instead; this variant exists for callers that want the exhaustive view.
func EnumerateElementaryCycles(g *graph.Graph, maxCycles int) []models.Cycle {
	if maxCycles <= 0 {
		maxCycles = 100
	}

	j := &johnsonState{
		g:         g,
		order:     g.Nodes(),
		blocked:   make(map[string]bool),
		blockList: make(map[string][]string),
		seen:      make(map[string]bool),
		cycles:    make([]models.Cycle, 0),
		max:       maxCycles,
	}
	j.rank = make(map[string]int, len(j.order))
	for i, node := range j.order {
		j.rank[node] = i
	}

	for _, start := range j.order {
		if len(j.cycles) >= j.max {
			break
		}
		j.start = start
		j.blocked = make(map[string]bool)
		j.blockList = make(map[string][]string)
		j.circuit(start)
	}
	return j.cycles
}

type johnsonState struct {
	g         *graph.Graph
	order     []string
	rank      map[string]int
	start     string
	stack     []string
	blocked   map[string]bool
	blockList map[string][]string
	seen      map[string]bool
	cycles    []models.Cycle
	max       int
}

// circuit explores simple paths from the current start node, considering
// only nodes with rank >= the start's rank so each cycle is found from its
// lowest-ranked member.
func (j *johnsonState) circuit(v string) bool {
	found := false
	j.stack = append(j.stack, v)
	j.blocked[v] = true

	for _, w := range j.g.Outgoing(v) {
		if j.rank[w] < j.rank[j.start] {
			continue
		}
		if len(j.cycles) >= j.max {
			break
		}
		if w == j.start {
			j.record()
			found = true
		} else if !j.blocked[w] {
			if j.circuit(w) {
				found = true
			}
		}
	}

	if found {
		j.unblock(v)
	} else {
		for _, w := range j.g.Outgoing(v) {
			if j.rank[w] < j.rank[j.start] {
				continue
			}
			j.blockList[w] = append(j.blockList[w], v)
		}
	}

	j.stack = j.stack[:len(j.stack)-1]
	return found
}

func (j *johnsonState) unblock(v string) {
	j.blocked[v] = false
	for _, w := range j.blockList[v] {
		if j.blocked[w] {
			j.unblock(w)
		}
	}
	j.blockList[v] = nil
}

func (j *johnsonState) record() {
	chain := canonicalRotation(j.stack)
	key := strings.Join(chain, "\x00")
	if j.seen[key] {
		return
	}
	j.seen[key] = true

	closed := append(chain, chain[0])
	cycle := models.Cycle{
		Chain:  closed,
		Length: len(chain),
	}
	cycle.Suggestions = GenerateSuggestions(j.g, cycle)
	j.cycles = append(j.cycles, cycle)
}

// canonicalRotation rotates the cycle so its lexicographically smallest
// member comes first.
func canonicalRotation(cycle []string) []string {
	minIdx := 0
	for i, node := range cycle {
		if node < cycle[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[minIdx:]...)
	rotated = append(rotated, cycle[:minIdx]...)
	return rotated
}
