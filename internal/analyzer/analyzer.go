package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cyclecheck/internal/cache"
	"cyclecheck/internal/cycles"
	"cyclecheck/internal/discovery"
	"cyclecheck/internal/graph"
	"cyclecheck/internal/models"
	"cyclecheck/internal/parser"
	"cyclecheck/internal/resolver"
)

// Progress phases reported to the callback.
const (
	PhaseDiscovering = "discovering"
	PhaseParsing     = "parsing"
	PhaseAnalyzing   = "analyzing"
)

// ProgressEvent is delivered to the progress callback from the driving
// goroutine. Current and Total are set only during the parsing phase.
type ProgressEvent struct {
	Phase   string
	Current int
	Total   int
}

// Options configures one analysis run.
type Options struct {
	Extensions     []string
	IgnoreDirs     []string
	IgnorePatterns []string
	FollowSymlinks bool

	// Aliases and BaseURL feed specifier resolution, tsconfig-paths style.
	Aliases map[string][]string
	BaseURL string

	// Concurrency caps in-flight per-file parse tasks.
	Concurrency int

	// DisableCache forces reparsing even for unchanged files.
	DisableCache bool

	// Cache overrides the process-wide parse cache, scoping entries to this
	// run.
	Cache *cache.ParseCache

	// ElementaryCycles switches to bounded Johnson enumeration instead of
	// one representative cycle per SCC.
	ElementaryCycles bool
	MaxCycles        int

	Progress func(ProgressEvent)

	// TopN bounds the top-dependencies tables in the stats. Defaults to 5.
	TopN int
}

// DefaultOptions returns the options used when a zero value is too sparse.
func DefaultOptions() Options {
	return Options{
		Extensions:  append([]string(nil), discovery.DefaultExtensions...),
		Concurrency: 50,
		MaxCycles:   100,
		TopN:        5,
	}
}

// Analyzer runs the discover → extract → resolve → graph → cycles pipeline.
type Analyzer struct {
	opts Options
}

func New(opts Options) *Analyzer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 50
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	if opts.MaxCycles <= 0 {
		opts.MaxCycles = 100
	}
	if opts.Cache == nil {
		opts.Cache = cache.Shared()
	}
	return &Analyzer{opts: opts}
}

// CacheStats exposes the effectiveness counters of the cache this analyzer
// runs against.
func (a *Analyzer) CacheStats() cache.Stats {
	return a.opts.Cache.Stats()
}

// AnalyzeDirectory is the convenience entry point: one call, one result.
func AnalyzeDirectory(ctx context.Context, root string, opts Options) (*models.AnalysisResult, error) {
	return New(opts).Analyze(ctx, root)
}

// fileResult is what one per-file task produces.
type fileResult struct {
	path    string
	records []models.ImportRecord
	err     error
	skipped bool
}

// Analyze runs the full pipeline on the tree rooted at root. Per-file parse
// errors land in the result's Errors list; only an invalid root or a
// cancelled context abort the run.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*models.AnalysisResult, error) {
	start := time.Now()

	a.progress(ProgressEvent{Phase: PhaseDiscovering})

	files, err := discovery.DiscoverFiles(root, discovery.Options{
		Extensions:     a.opts.Extensions,
		IgnoreDirs:     a.opts.IgnoreDirs,
		IgnorePatterns: a.opts.IgnorePatterns,
		FollowSymlinks: a.opts.FollowSymlinks,
	})
	if err != nil {
		return nil, err
	}

	results, err := a.extractAll(ctx, files)
	if err != nil {
		return nil, err
	}

	a.progress(ProgressEvent{Phase: PhaseAnalyzing})

	absRoot := mustAbs(root)
	result := models.NewAnalysisResult(absRoot)

	g := a.buildGraph(absRoot, files, results, result)

	if a.opts.ElementaryCycles {
		result.Cycles = cycles.EnumerateElementaryCycles(g, a.opts.MaxCycles)
	} else {
		result.Cycles = cycles.Detect(g)
	}

	result.Graph = g.Export()
	result.Stats = models.Stats{
		TotalFiles:           g.NodeCount(),
		TotalDependencies:    g.EdgeCount(),
		CircularDependencies: len(result.Cycles),
		TopDependencies:      g.TopKByOutgoing(a.opts.TopN),
		TopDependents:        g.TopKByIncoming(a.opts.TopN),
		Duration:             time.Since(start).Milliseconds(),
	}

	return result, nil
}

// extractAll processes files in fixed-size batches: within a batch, reads
// and extractions run in parallel; between batches the driver reports
// progress and honors cancellation. Memory stays bounded by
// concurrency × average file size.
func (a *Analyzer) extractAll(ctx context.Context, files []string) ([]fileResult, error) {
	results := make([]fileResult, len(files))
	batch := a.opts.Concurrency

	for offset := 0; offset < len(files); offset += batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := offset + batch
		if end > len(files) {
			end = len(files)
		}

		done := make(chan struct{})
		for i := offset; i < end; i++ {
			go func(i int) {
				defer func() { done <- struct{}{} }()
				results[i] = a.extractOne(ctx, files[i])
			}(i)
		}
		for i := offset; i < end; i++ {
			<-done
		}

		a.progress(ProgressEvent{Phase: PhaseParsing, Current: end, Total: len(files)})
	}

	return results, nil
}

// extractOne reads, hashes, cache-checks, parses and extracts a single file.
func (a *Analyzer) extractOne(ctx context.Context, path string) fileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		// Files that disappeared or turned unreadable since discovery are
		// skipped, mirroring unreadable directories.
		return fileResult{path: path, skipped: true}
	}

	lang, err := parser.LanguageForFile(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}

	var hash uint64
	if !a.opts.DisableCache {
		hash = cache.HashContent(content)
		if records, ok := a.opts.Cache.Get(path, hash); ok {
			return fileResult{path: path, records: records}
		}
	}

	records, err := parser.ExtractImports(ctx, content, lang)
	if err != nil {
		return fileResult{path: path, err: err}
	}

	if !a.opts.DisableCache {
		a.opts.Cache.Put(path, hash, records)
	}
	return fileResult{path: path, records: records}
}

// buildGraph adds every discovered file that could still be read as a node
// and resolves each import record to an edge. It runs on the driving goroutine in discovery order, so
// adjacency lists — and therefore cycle chains — are deterministic.
func (a *Analyzer) buildGraph(root string, files []string, results []fileResult, result *models.AnalysisResult) *graph.Graph {
	g := graph.New()

	inTree := make(map[string]bool, len(files))
	for _, r := range results {
		if r.skipped {
			continue
		}
		g.AddNode(r.path)
		inTree[r.path] = true
	}

	res := resolver.New(root, a.opts.Aliases, a.opts.BaseURL, a.opts.Extensions)

	for _, r := range results {
		if r.skipped {
			continue
		}
		if r.err != nil {
			result.Errors = append(result.Errors, models.FileError{
				File:  r.path,
				Error: r.err.Error(),
			})
			continue
		}
		for _, record := range r.records {
			target, ok := res.Resolve(r.path, record.Source)
			if !ok || !inTree[target] {
				continue // external, unresolvable, or outside the analyzed set
			}
			g.AddEdge(r.path, target)
		}
	}

	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].File < result.Errors[j].File
	})

	return g
}

func (a *Analyzer) progress(event ProgressEvent) {
	if a.opts.Progress != nil {
		a.opts.Progress(event)
	}
}

func mustAbs(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
