package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "console", cfg.Output.Format)
	assert.Equal(t, 50, cfg.Analysis.Concurrency)
	assert.True(t, cfg.Analysis.Cache)
	assert.Contains(t, cfg.Files.Extensions, ".ts")
	assert.Contains(t, cfg.Files.Extensions, ".jsx")
	assert.Contains(t, cfg.Files.IgnoreDirs, "node_modules")
}

func TestLoadConfigMissingPathUsesDefaults(t *testing.T) {
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cyclecheck.yml")
	content := `
output:
  format: json
  colors: false
analysis:
  concurrency: 8
resolution:
  base_url: src
  aliases:
    "@/*":
      - "src/*"
files:
  ignore_patterns:
    - "*.spec.ts"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Colors)
	assert.Equal(t, 8, cfg.Analysis.Concurrency)
	assert.Equal(t, "src", cfg.Resolution.BaseURL)
	assert.Equal(t, []string{"src/*"}, cfg.Resolution.Aliases["@/*"])
	assert.Equal(t, []string{"*.spec.ts"}, cfg.Files.IgnorePatterns)
	// untouched sections keep their defaults
	assert.Equal(t, DefaultConfig().Files.Extensions, cfg.Files.Extensions)
}

func TestLoadConfigRejectsInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cyclecheck.yml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestLoadConfigRejectsBadConcurrency(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cyclecheck.yml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  concurrency: 0\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadExtension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Files.Extensions = []string{"ts"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyAliasReplacement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution.Aliases = map[string][]string{"@/*": {}}
	assert.Error(t, cfg.Validate())
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "cyclecheck.yml")

	cfg := DefaultConfig()
	cfg.Output.Format = "json"
	cfg.Resolution.Aliases = map[string][]string{"@/*": {"src/*"}}
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGenerateConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".cyclecheck.yml")

	require.NoError(t, GenerateConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}