package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclecheck/internal/config"
	"cyclecheck/internal/models"
)

func sampleResult() *models.AnalysisResult {
	result := models.NewAnalysisResult("/proj")
	result.Cycles = []models.Cycle{{
		Chain:  []string{"/proj/a.ts", "/proj/b.ts", "/proj/a.ts"},
		Length: 2,
		Suggestions: []models.Suggestion{{
			Type:        models.SuggestExtractInterface,
			Description: "Extract the shared types",
			TargetEdge:  &models.Edge{From: "/proj/a.ts", To: "/proj/b.ts"},
		}},
	}}
	result.Graph = models.GraphExport{
		Nodes: []string{"/proj/a.ts", "/proj/b.ts"},
		Edges: []models.Edge{
			{From: "/proj/a.ts", To: "/proj/b.ts"},
			{From: "/proj/b.ts", To: "/proj/a.ts"},
		},
	}
	result.Stats = models.Stats{
		TotalFiles:           2,
		TotalDependencies:    2,
		CircularDependencies: 1,
		Duration:             7,
	}
	result.Errors = []models.FileError{{File: "/proj/broken.ts", Error: "parse failed"}}
	return result
}

func TestConsoleReportPlainText(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Colors = false

	out := NewReportGeneratorWithConfig(cfg).Generate(sampleResult())

	assert.Contains(t, out, "1 circular dependency found")
	assert.Contains(t, out, "a.ts → b.ts → a.ts")
	assert.Contains(t, out, "[extract-interface]")
	assert.Contains(t, out, "broken.ts: parse failed")
	assert.Contains(t, out, "Completed in 7ms")
}

func TestConsoleReportNoCycles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Colors = false

	result := models.NewAnalysisResult("/proj")
	out := NewReportGeneratorWithConfig(cfg).Generate(result)

	assert.Contains(t, out, "No circular dependencies found")
}

func TestJSONReportRelativizesTargetEdges(t *testing.T) {
	out := NewReportGenerator("json").Generate(sampleResult())

	assert.Contains(t, out, `"from": "a.ts"`)
	assert.NotContains(t, out, "/proj/a.ts")
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}
