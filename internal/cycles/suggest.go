package cycles

import (
	"fmt"
	"path/filepath"
	"strings"

	"cyclecheck/internal/graph"
	"cyclecheck/internal/models"
)

// typeImportMarkers are path substrings hinting that a file mostly carries
// type declarations; an edge into such a file is usually the cheapest to cut.
var typeImportMarkers = []string{"types", ".d.ts", "interfaces", "models"}

// GenerateSuggestions maps a cycle's shape to the refactoring catalog.
func GenerateSuggestions(g *graph.Graph, cycle models.Cycle) []models.Suggestion {
	if cycle.Length == 1 {
		p := cycle.Chain[0]
		return []models.Suggestion{{
			Type:        models.SuggestReorderImports,
			Description: fmt.Sprintf("%s imports itself; remove the self-import or split the file", filepath.Base(p)),
			TargetEdge:  &models.Edge{From: p, To: p},
		}}
	}

	var suggestions []models.Suggestion

	if cycle.Length == 2 {
		a, b := cycle.Chain[0], cycle.Chain[1]
		suggestions = append(suggestions,
			models.Suggestion{
				Type: models.SuggestExtractInterface,
				Description: fmt.Sprintf("Extract the shared types of %s and %s into a separate module both can import",
					filepath.Base(a), filepath.Base(b)),
				TargetEdge: &models.Edge{From: a, To: b},
			},
			models.Suggestion{
				Type: models.SuggestMergeFiles,
				Description: fmt.Sprintf("%s and %s are mutually dependent; if they change together, merge them",
					filepath.Base(a), filepath.Base(b)),
			},
		)
	} else {
		weakest := weakestEdge(g, cycle.Chain)
		suggestions = append(suggestions,
			models.Suggestion{
				Type: models.SuggestExtractInterface,
				Description: fmt.Sprintf("Break the cycle at %s → %s by extracting the imported declarations into their own module",
					filepath.Base(weakest.From), filepath.Base(weakest.To)),
				TargetEdge: &weakest,
			},
			models.Suggestion{
				Type:        models.SuggestDependencyInjection,
				Description: "Pass one of the cyclic dependencies in as a parameter instead of importing it directly",
			},
		)
	}

	suggestions = append(suggestions, models.Suggestion{
		Type:        models.SuggestLazyImport,
		Description: "Defer one import in the cycle with a dynamic import() so it resolves at call time",
	})

	if cycle.Length >= 4 {
		suggestions = append(suggestions, models.Suggestion{
			Type: models.SuggestReorderImports,
			Description: fmt.Sprintf("A %d-file cycle suggests a layering problem; review the module boundaries along this chain",
				cycle.Length),
		})
	}

	return suggestions
}

// weakestEdge picks the edge of the cycle that looks cheapest to remove:
// edges into likely type-only modules first, then edges whose source depends
// on the least. Ties keep cycle order.
func weakestEdge(g *graph.Graph, chain []string) models.Edge {
	best := models.Edge{From: chain[0], To: chain[1]}
	bestType := likelyTypeImport(chain[1])
	bestStrength := edgeStrength(g, chain[0])

	for i := 1; i < len(chain)-1; i++ {
		from, to := chain[i], chain[i+1]
		isType := likelyTypeImport(to)
		strength := edgeStrength(g, from)

		if isType != bestType {
			if isType {
				best = models.Edge{From: from, To: to}
				bestType, bestStrength = isType, strength
			}
			continue
		}
		if strength < bestStrength {
			best = models.Edge{From: from, To: to}
			bestStrength = strength
		}
	}
	return best
}

// edgeStrength is a coarse proxy for how entangled the source file is.
func edgeStrength(g *graph.Graph, from string) int {
	if len(g.Outgoing(from)) > 0 {
		return 1
	}
	return 0
}

func likelyTypeImport(path string) bool {
	lower := strings.ToLower(path)
	for _, marker := range typeImportMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
