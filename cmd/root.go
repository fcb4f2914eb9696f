package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cyclecheck/internal/analyzer"
	"cyclecheck/internal/config"
	"cyclecheck/internal/models"
	"cyclecheck/internal/watcher"
)

var (
	formatFlag         string
	outputFlag         string
	ignoreFlags        []string
	configFlag         string
	generateConfigFlag bool
	watchFlag          bool
	verboseFlag        bool
	noCacheFlag        bool
	concurrencyFlag    int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cyclecheck [path]",
	Short: "A circular-dependency analyzer for JavaScript and TypeScript projects",
	Long: `cyclecheck scans a source tree, builds the file-level dependency graph
from its import statements, and reports every circular dependency together
with refactoring suggestions for breaking it.

Examples:
	cyclecheck .                          # Analyze current directory
	cyclecheck src/                       # Analyze a subdirectory
	cyclecheck --format=json .            # Output results in JSON format
	cyclecheck --ignore "*.spec.ts" .     # Skip files matching a glob
	cyclecheck --watch .                  # Re-analyze on file changes
	cyclecheck --generate-config          # Generate sample config file`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the report to a file")
	rootCmd.Flags().StringArrayVar(&ignoreFlags, "ignore", nil, "Glob pattern to skip (repeatable)")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Disable the parse cache")
	rootCmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "Max in-flight file tasks")
}

func runAnalysis(cmd *cobra.Command, args []string) {
	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		color.Red("❌ %s is not an analyzable directory\n", root)
		os.Exit(1)
	}

	if watchFlag {
		runWatchMode(cfg, root)
		return
	}

	runSingleAnalysis(cfg, root)
}

func applyFlags(cfg *config.Config) {
	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if outputFlag != "" {
		cfg.Output.OutputFile = outputFlag
	}
	if verboseFlag {
		cfg.Output.Verbose = true
	}
	if noCacheFlag {
		cfg.Analysis.Cache = false
	}
	if concurrencyFlag > 0 {
		cfg.Analysis.Concurrency = concurrencyFlag
	}
	cfg.Files.IgnorePatterns = append(cfg.Files.IgnorePatterns, ignoreFlags...)
}

func analyzerOptions(cfg *config.Config) analyzer.Options {
	opts := analyzer.Options{
		Extensions:       cfg.Files.Extensions,
		IgnoreDirs:       cfg.Files.IgnoreDirs,
		IgnorePatterns:   cfg.Files.IgnorePatterns,
		FollowSymlinks:   cfg.Files.FollowSymlinks,
		Aliases:          cfg.Resolution.Aliases,
		BaseURL:          cfg.Resolution.BaseURL,
		Concurrency:      cfg.Analysis.Concurrency,
		DisableCache:     !cfg.Analysis.Cache,
		ElementaryCycles: cfg.Analysis.ElementaryCycles,
		MaxCycles:        cfg.Analysis.MaxCycles,
	}
	if cfg.Output.Verbose && cfg.Output.Format != "json" {
		opts.Progress = consoleProgress(cfg)
	}
	return opts
}

func consoleProgress(cfg *config.Config) func(analyzer.ProgressEvent) {
	return func(event analyzer.ProgressEvent) {
		switch event.Phase {
		case analyzer.PhaseDiscovering:
			color.White("🔎 Discovering source files...\n")
		case analyzer.PhaseParsing:
			color.White("📦 Parsed %d/%d files\n", event.Current, event.Total)
		case analyzer.PhaseAnalyzing:
			color.White("🧭 Resolving imports and searching for cycles...\n")
		}
	}
}

func runSingleAnalysis(cfg *config.Config, root string) {
	engine := analyzer.New(analyzerOptions(cfg))
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)

	result, err := engine.Analyze(context.Background(), root)
	if err != nil {
		color.Red("Analysis failed: %v\n", err)
		os.Exit(1)
	}

	report := reportGen.Generate(result)

	if cfg.Output.Verbose && cfg.Output.Format != "json" {
		stats := engine.CacheStats()
		color.White("🗄  Cache: %d entries, %d hits, %d misses (%.0f%% hit rate)\n",
			stats.Size, stats.Hits, stats.Misses, stats.HitRate*100)
	}

	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
		} else {
			color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
		}
	} else {
		fmt.Print(report)
	}

	if len(result.Cycles) > 0 {
		os.Exit(1)
	}
}

func runWatchMode(cfg *config.Config, root string) {
	color.Cyan("🔄 Starting cyclecheck in watch mode...\n")
	color.White("Press Ctrl+C to stop watching\n\n")

	fileWatcher, err := watcher.NewFileWatcher(cfg)
	if err != nil {
		color.Red("Failed to create file watcher: %v\n", err)
		os.Exit(1)
	}
	defer fileWatcher.Close()

	engine := analyzer.New(analyzerOptions(cfg))
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)

	color.Cyan("🔍 Running initial analysis...\n")
	if result, err := engine.Analyze(context.Background(), root); err != nil {
		color.Red("Initial analysis failed: %v\n", err)
	} else {
		fmt.Print(reportGen.Generate(result))
		color.White("═══════════════════════════════════════\n\n")
	}

	changeHandler := func(changedFiles []string) error {
		return handleFileChanges(changedFiles, cfg, engine, reportGen, root)
	}

	if err := fileWatcher.Watch([]string{root}, changeHandler); err != nil {
		color.Red("Failed to start file watcher: %v\n", err)
		os.Exit(1)
	}

	if cfg.Output.Verbose {
		watchedPaths := fileWatcher.GetWatchedPaths()
		color.Cyan("👀 Watching %d directories for changes...\n", len(watchedPaths))
	} else {
		color.Cyan("👀 Watching for source file changes...\n")
	}
	color.White("Ready! Make changes to your source files...\n\n")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	color.Yellow("\n🛑 Stopping watch mode...\n")
}

func handleFileChanges(changedFiles []string, cfg *config.Config, engine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator, root string) error {
	if len(changedFiles) == 0 {
		return nil
	}

	timestamp := time.Now().Format("15:04:05")
	if len(changedFiles) == 1 {
		color.Cyan("🔄 [%s] File changed: %s\n", timestamp, filepath.Base(changedFiles[0]))
	} else {
		color.Cyan("🔄 [%s] %d files changed\n", timestamp, len(changedFiles))
	}

	result, err := engine.Analyze(context.Background(), root)
	if err != nil {
		color.Red("Analysis failed: %v\n", err)
		color.Yellow("Continuing to watch for changes...\n\n")
		return nil // Don't stop watching on analysis errors
	}

	if len(result.Cycles) > 0 {
		generateCompactWatchReport(result, cfg)
	} else {
		color.Green("✅ No circular dependencies (%d files)\n", result.Stats.TotalFiles)
	}

	color.White("─────────────────────────────────────────\n\n")
	return nil
}

func generateCompactWatchReport(result *models.AnalysisResult, cfg *config.Config) {
	if cfg.Output.Colors {
		color.Red("❌ %d circular dependencies | %d files | %d edges\n",
			len(result.Cycles), result.Stats.TotalFiles, result.Stats.TotalDependencies)
	} else {
		fmt.Printf("%d circular dependencies | %d files | %d edges\n",
			len(result.Cycles), result.Stats.TotalFiles, result.Stats.TotalDependencies)
	}

	maxShow := 3
	if len(result.Cycles) < maxShow {
		maxShow = len(result.Cycles)
	}
	for i := 0; i < maxShow; i++ {
		cycle := result.Cycles[i]
		names := make([]string, len(cycle.Chain))
		for j, p := range cycle.Chain {
			names[j] = filepath.Base(p)
		}
		color.White("  • %s\n", joinArrow(names))
	}
	if len(result.Cycles) > maxShow {
		color.White("  ... and %d more\n", len(result.Cycles)-maxShow)
	}
}

func joinArrow(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " → "
		}
		out += p
	}
	return out
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() {
	configPath := ".cyclecheck.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize cyclecheck behavior\n")
	color.Cyan("🚀 Run 'cyclecheck --config=%s .' to use it\n", configPath)
}
