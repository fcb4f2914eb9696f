package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Options controls which files the walker admits.
type Options struct {
	// Extensions is the allowed-extension set, lowercased, with leading dot.
	Extensions []string

	// IgnoreDirs lists directory basenames that are never descended into.
	IgnoreDirs []string

	// IgnorePatterns are minimal globs matched against full paths and
	// basenames of both files and directories.
	IgnorePatterns []string

	// FollowSymlinks enables descending into symlinked directories.
	FollowSymlinks bool
}

// DefaultIgnoreDirs are directory names skipped without descending.
var DefaultIgnoreDirs = []string{
	"node_modules", "dist", "build", ".git", "coverage", ".next", ".nuxt",
}

// DefaultExtensions is the four-language extension matrix.
var DefaultExtensions = []string{
	".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts",
}

// DiscoverFiles walks the tree rooted at root and returns the absolute paths
// of all admitted source files in a deterministic order. A nonexistent or
// non-directory root is a fatal error; unreadable directories below the root
// are silently skipped.
func DiscoverFiles(root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.IgnoreDirs == nil {
		opts.IgnoreDirs = DefaultIgnoreDirs
	}

	w := &walker{opts: opts}
	w.walk(absRoot)
	return w.files, nil
}

type walker struct {
	opts  Options
	files []string
}

// walk recurses through dir. os.ReadDir returns entries sorted by name, so
// the resulting file list is stable across runs.
func (w *walker) walk(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return // unreadable directories are not an error
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir := entry.IsDir()
		if !isDir && entry.Type()&os.ModeSymlink != 0 {
			if !w.opts.FollowSymlinks {
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				continue
			}
			isDir = target.IsDir()
		}

		if isDir {
			if w.ignoredDirName(entry.Name()) {
				continue
			}
			if matchesAny(w.opts.IgnorePatterns, path) {
				continue
			}
			w.walk(path)
			continue
		}

		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !contains(w.opts.Extensions, ext) {
			continue
		}
		if !KnownSourceExtension(ext) {
			continue
		}
		if matchesAny(w.opts.IgnorePatterns, path) {
			continue
		}
		w.files = append(w.files, path)
	}
}

func (w *walker) ignoredDirName(name string) bool {
	return contains(w.opts.IgnoreDirs, name)
}

// KnownSourceExtension reports whether the extension belongs to one of the
// four supported language dialects.
func KnownSourceExtension(ext string) bool {
	switch ext {
	case ".ts", ".mts", ".cts", ".tsx", ".js", ".mjs", ".cjs", ".jsx":
		return true
	}
	return false
}

// MatchPattern implements the minimal glob subset: '*' matches any run of
// characters including separators, '?' matches exactly one character. A
// pattern with neither wildcard matches as a substring of the path or as the
// exact basename. The pattern matches if it matches the full path or the
// basename.
func MatchPattern(pattern, path string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(path, pattern) || filepath.Base(path) == pattern
	}

	re, err := globToRegexp(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(path) || re.MatchString(filepath.Base(path))
}

func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if MatchPattern(pattern, path) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
