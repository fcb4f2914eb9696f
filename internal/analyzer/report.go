package analyzer

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"cyclecheck/internal/config"
	"cyclecheck/internal/models"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(format string) *ReportGenerator {
	return &ReportGenerator{
		format: format,
		config: config.DefaultConfig(),
	}
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	default:
		return r.generateConsole(result)
	}
}

// jsonReport is the emission consumed by the CLI and the visualization
// front-end. All paths are relativized to the analyzed root.
type jsonReport struct {
	Stats  models.Stats       `json:"stats"`
	Cycles []models.Cycle     `json:"cycles"`
	Graph  models.GraphExport `json:"graph"`
	Errors []models.FileError `json:"errors"`
}

func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	report := jsonReport{
		Stats:  result.Stats,
		Cycles: relativizeCycles(result.Root, result.Cycles),
		Graph:  relativizeGraph(result.Root, result.Graph),
		Errors: relativizeErrors(result.Root, result.Errors),
	}
	report.Stats.TopDependencies = relativizeCounts(result.Root, report.Stats.TopDependencies)
	report.Stats.TopDependents = relativizeCounts(result.Root, report.Stats.TopDependents)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data)
}

func (r *ReportGenerator) generateConsole(result *models.AnalysisResult) string {
	var report strings.Builder

	useColors := true
	verbose := false
	if r.config != nil {
		useColors = r.config.Output.Colors
		verbose = r.config.Output.Verbose
	}

	if useColors {
		report.WriteString(color.CyanString("🔍 CycleCheck Analysis (%d files, %d dependencies)\n\n",
			result.Stats.TotalFiles, result.Stats.TotalDependencies))
	} else {
		report.WriteString(fmt.Sprintf("CycleCheck Analysis (%d files, %d dependencies)\n\n",
			result.Stats.TotalFiles, result.Stats.TotalDependencies))
	}

	r.writeCycles(&report, result, useColors)

	if verbose {
		r.writeTopDependencies(&report, result, useColors)
	}

	if len(result.Errors) > 0 {
		r.writeErrors(&report, result, useColors)
	}

	if useColors {
		report.WriteString(color.WhiteString("\n📊 Completed in %dms\n", result.Stats.Duration))
	} else {
		report.WriteString(fmt.Sprintf("\nCompleted in %dms\n", result.Stats.Duration))
	}

	return report.String()
}

func (r *ReportGenerator) writeCycles(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if len(result.Cycles) == 0 {
		if useColors {
			report.WriteString(color.GreenString("✅ No circular dependencies found\n"))
		} else {
			report.WriteString("No circular dependencies found\n")
		}
		return
	}

	if useColors {
		report.WriteString(color.RedString("❌ %d circular %s found\n\n",
			len(result.Cycles), plural(len(result.Cycles), "dependency", "dependencies")))
	} else {
		report.WriteString(fmt.Sprintf("%d circular %s found\n\n",
			len(result.Cycles), plural(len(result.Cycles), "dependency", "dependencies")))
	}

	for i, cycle := range result.Cycles {
		chain := make([]string, len(cycle.Chain))
		for j, path := range cycle.Chain {
			chain[j] = relativize(result.Root, path)
		}

		if useColors {
			report.WriteString(color.YellowString("  %d. %s\n", i+1, strings.Join(chain, " → ")))
		} else {
			report.WriteString(fmt.Sprintf("  %d. %s\n", i+1, strings.Join(chain, " → ")))
		}

		for _, s := range cycle.Suggestions {
			line := fmt.Sprintf("     💡 [%s] %s\n", s.Type, s.Description)
			if !useColors {
				line = fmt.Sprintf("     [%s] %s\n", s.Type, s.Description)
			}
			report.WriteString(line)
		}
		report.WriteString("\n")
	}
}

func (r *ReportGenerator) writeTopDependencies(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	writeTable := func(title string, counts []models.DependencyCount) {
		if len(counts) == 0 {
			return
		}
		if useColors {
			report.WriteString(color.CyanString("%s\n", title))
		} else {
			report.WriteString(title + "\n")
		}
		for _, c := range counts {
			report.WriteString(fmt.Sprintf("  %3d  %s\n", c.Count, relativize(result.Root, c.File)))
		}
		report.WriteString("\n")
	}

	writeTable("📤 Most dependencies", result.Stats.TopDependencies)
	writeTable("📥 Most dependents", result.Stats.TopDependents)
}

func (r *ReportGenerator) writeErrors(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.YellowString("\n⚠️  %d file%s could not be parsed:\n",
			len(result.Errors), pluralSuffix(len(result.Errors))))
	} else {
		report.WriteString(fmt.Sprintf("\n%d file%s could not be parsed:\n",
			len(result.Errors), pluralSuffix(len(result.Errors))))
	}
	for _, e := range result.Errors {
		report.WriteString(fmt.Sprintf("  %s: %s\n", relativize(result.Root, e.File), e.Error))
	}
}

// relativize maps an absolute path under root to its root-relative form.
func relativize(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func relativizeCycles(root string, in []models.Cycle) []models.Cycle {
	out := make([]models.Cycle, len(in))
	for i, cycle := range in {
		chain := make([]string, len(cycle.Chain))
		for j, path := range cycle.Chain {
			chain[j] = relativize(root, path)
		}
		suggestions := make([]models.Suggestion, len(cycle.Suggestions))
		for j, s := range cycle.Suggestions {
			if s.TargetEdge != nil {
				s.TargetEdge = &models.Edge{
					From: relativize(root, s.TargetEdge.From),
					To:   relativize(root, s.TargetEdge.To),
				}
			}
			suggestions[j] = s
		}
		out[i] = models.Cycle{Chain: chain, Length: cycle.Length, Suggestions: suggestions}
	}
	return out
}

func relativizeGraph(root string, in models.GraphExport) models.GraphExport {
	out := models.GraphExport{
		Nodes: make([]string, len(in.Nodes)),
		Edges: make([]models.Edge, len(in.Edges)),
	}
	for i, node := range in.Nodes {
		out.Nodes[i] = relativize(root, node)
	}
	for i, edge := range in.Edges {
		out.Edges[i] = models.Edge{
			From: relativize(root, edge.From),
			To:   relativize(root, edge.To),
		}
	}
	return out
}

func relativizeErrors(root string, in []models.FileError) []models.FileError {
	out := make([]models.FileError, len(in))
	for i, e := range in {
		out[i] = models.FileError{File: relativize(root, e.File), Error: e.Error}
	}
	return out
}

func relativizeCounts(root string, in []models.DependencyCount) []models.DependencyCount {
	out := make([]models.DependencyCount, len(in))
	for i, c := range in {
		out[i] = models.DependencyCount{File: relativize(root, c.File), Count: c.Count}
	}
	return out
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
