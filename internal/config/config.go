package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cyclecheck/internal/discovery"
)

// Config represents the configuration for cyclecheck
type Config struct {
	Version string `yaml:"version" json:"version"`

	// File discovery settings
	Files FilesConfig `yaml:"files" json:"files"`

	// Module specifier resolution settings
	Resolution ResolutionConfig `yaml:"resolution" json:"resolution"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`
}

type FilesConfig struct {
	// Allowed file extensions (lowercase, with leading dot)
	Extensions []string `yaml:"extensions" json:"extensions"`

	// Directory basenames that are never descended into
	IgnoreDirs []string `yaml:"ignore_dirs" json:"ignore_dirs"`

	// Glob patterns matched against full paths and basenames
	IgnorePatterns []string `yaml:"ignore_patterns" json:"ignore_patterns"`

	// Whether to follow symlinks during discovery
	FollowSymlinks bool `yaml:"follow_symlinks" json:"follow_symlinks"`
}

type ResolutionConfig struct {
	// Path aliases, tsconfig-paths style: pattern -> replacement templates
	Aliases map[string][]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	// Base directory for non-relative specifiers; analyzed root if empty
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
}

type AnalysisConfig struct {
	// Cap on in-flight per-file parse tasks
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	// Reuse extraction results for unchanged files
	Cache bool `yaml:"cache" json:"cache"`

	// Enumerate simple elementary cycles instead of one cycle per SCC
	ElementaryCycles bool `yaml:"elementary_cycles" json:"elementary_cycles"`

	// Upper bound on enumerated elementary cycles
	MaxCycles int `yaml:"max_cycles" json:"max_cycles"`
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Files: FilesConfig{
			Extensions:     append([]string(nil), discovery.DefaultExtensions...),
			IgnoreDirs:     append([]string(nil), discovery.DefaultIgnoreDirs...),
			IgnorePatterns: []string{},
			FollowSymlinks: false,
		},
		Resolution: ResolutionConfig{},
		Analysis: AnalysisConfig{
			Concurrency:      50,
			Cache:            true,
			ElementaryCycles: false,
			MaxCycles:        100,
		},
		Output: OutputConfig{
			Format:  "console",
			Colors:  true,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from file or returns default
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".cyclecheck.yml",
		".cyclecheck.yaml",
		"cyclecheck.yml",
		"cyclecheck.yaml",
		".config/cyclecheck.yml",
		".config/cyclecheck.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := []string{"console", "json"}
	formatValid := false
	for _, format := range validFormats {
		if c.Output.Format == format {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if len(c.Files.Extensions) == 0 {
		return fmt.Errorf("at least one file extension is required")
	}
	for _, ext := range c.Files.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}

	for pattern, replacements := range c.Resolution.Aliases {
		if pattern == "" {
			return fmt.Errorf("alias patterns must not be empty")
		}
		if len(replacements) == 0 {
			return fmt.Errorf("alias %q has no replacement", pattern)
		}
	}

	if c.Analysis.MaxCycles < 1 {
		return fmt.Errorf("max_cycles must be at least 1")
	}

	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}
