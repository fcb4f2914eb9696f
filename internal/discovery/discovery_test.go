package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("export {};\n"), 0644))
}

func basenames(files []string) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	return names
}

func TestDiscoverFilesFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"))
	writeFile(t, filepath.Join(root, "b.jsx"))
	writeFile(t, filepath.Join(root, "notes.md"))
	writeFile(t, filepath.Join(root, "style.css"))

	files, err := DiscoverFiles(root, Options{})
	require.NoError(t, err)

	names := basenames(files)
	assert.Equal(t, []string{"a.ts", "b.jsx"}, names)
}

func TestDiscoverFilesSkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"))
	writeFile(t, filepath.Join(root, "dist", "bundle.js"))
	writeFile(t, filepath.Join(root, ".next", "page.tsx"))

	files, err := DiscoverFiles(root, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.ts"}, basenames(files))
}

func TestDiscoverFilesAppliesIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))
	writeFile(t, filepath.Join(root, "src", "a.spec.ts"))
	writeFile(t, filepath.Join(root, "generated", "api.ts"))

	files, err := DiscoverFiles(root, Options{
		IgnorePatterns: []string{"*.spec.ts", "generated"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.ts"}, basenames(files))
}

func TestDiscoverFilesDeterministic(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"z.ts", "m.tsx", "a.js", "sub/q.mts", "sub/b.cjs"} {
		writeFile(t, filepath.Join(root, name))
	}

	first, err := DiscoverFiles(root, Options{})
	require.NoError(t, err)
	second, err := DiscoverFiles(root, Options{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
}

func TestDiscoverFilesReturnsAbsolutePaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"))

	files, err := DiscoverFiles(root, Options{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, filepath.IsAbs(files[0]))
}

func TestDiscoverFilesFatalOnBadRoot(t *testing.T) {
	_, err := DiscoverFiles(filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)

	root := t.TempDir()
	file := filepath.Join(root, "a.ts")
	writeFile(t, file)
	_, err = DiscoverFiles(file, Options{})
	assert.Error(t, err)
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.spec.ts", "/proj/src/a.spec.ts", true},
		{"*.spec.ts", "/proj/src/a.ts", false},
		{"a?.ts", "ab.ts", true},
		{"a?.ts", "abc.ts", false},
		// '*' crosses separators
		{"/proj/*/deep.ts", "/proj/a/b/deep.ts", true},
		// wildcard-free patterns match as substring or exact basename
		{"generated", "/proj/generated/api.ts", true},
		{"api.ts", "/proj/generated/api.ts", true},
		{"missing", "/proj/generated/api.ts", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchPattern(tt.pattern, tt.path),
			"pattern %q against %q", tt.pattern, tt.path)
	}
}
