package resolver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolver maps module specifiers to absolute file paths inside the analyzed
// tree. It is stateless apart from file-existence probes, so a single
// instance may be shared across the run.
type Resolver struct {
	// Root is the absolute root of the analyzed tree.
	Root string

	// Aliases maps a specifier pattern to one or more replacement templates,
	// tsconfig-paths style. A pattern ending in "/*" is a wildcard; any other
	// pattern matches exactly or as a prefix followed by "/".
	Aliases map[string][]string

	// BaseURL, when set, is the directory non-relative candidates are joined
	// against. Root is used otherwise.
	BaseURL string

	// Extensions is the allowed-extension probe order.
	Extensions []string
}

// New returns a resolver for the given root with the default extension order.
func New(root string, aliases map[string][]string, baseURL string, extensions []string) *Resolver {
	if len(extensions) == 0 {
		extensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".mts", ".cts"}
	}
	return &Resolver{
		Root:       root,
		Aliases:    aliases,
		BaseURL:    baseURL,
		Extensions: extensions,
	}
}

// Resolve maps specifier, as written in fromFile, to the absolute path of a
// file in the tree. The second return is false for external, unresolvable,
// or out-of-tree specifiers. Aliases take precedence over base-URL and root
// resolution; relative specifiers resolve against the importing file's
// directory.
func (r *Resolver) Resolve(fromFile, specifier string) (string, bool) {
	if specifier == "" {
		return "", false
	}

	if strings.HasPrefix(specifier, ".") {
		candidate := filepath.Join(filepath.Dir(fromFile), specifier)
		return r.probe(candidate)
	}

	if !filepath.IsAbs(specifier) {
		if resolved, ok := r.resolveAlias(specifier); ok {
			return resolved, true
		}
		// A scoped package like @org/pkg is external unless an alias claimed
		// it above.
		if strings.HasPrefix(specifier, "@") && strings.Contains(specifier, "/") {
			return "", false
		}
	}

	return r.probe(filepath.Join(r.baseDir(), specifier))
}

func (r *Resolver) baseDir() string {
	if r.BaseURL != "" {
		return r.BaseURL
	}
	return r.Root
}

func (r *Resolver) resolveAlias(specifier string) (string, bool) {
	// Patterns are tried in sorted order so two overlapping aliases resolve
	// the same way on every run.
	patterns := make([]string, 0, len(r.Aliases))
	for pattern := range r.Aliases {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		replacements := r.Aliases[pattern]
		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "/*")
			if !strings.HasPrefix(specifier, prefix+"/") {
				continue
			}
			tail := strings.TrimPrefix(specifier, prefix+"/")
			for _, replacement := range replacements {
				candidate := substituteWildcard(replacement, tail)
				if resolved, ok := r.probe(filepath.Join(r.baseDir(), candidate)); ok {
					return resolved, true
				}
			}
			continue
		}

		if specifier == pattern || strings.HasPrefix(specifier, pattern+"/") {
			remainder := strings.TrimPrefix(specifier, pattern)
			for _, replacement := range replacements {
				if resolved, ok := r.probe(filepath.Join(r.baseDir(), replacement+remainder)); ok {
					return resolved, true
				}
			}
		}
	}
	return "", false
}

func substituteWildcard(replacement, tail string) string {
	if strings.Contains(replacement, "*") {
		return strings.Replace(replacement, "*", tail, 1)
	}
	return filepath.Join(replacement, tail)
}

// probe attempts the candidate path as-is, with each allowed extension, as a
// directory index file, and finally with the compiled-extension remap that
// maps an explicit .js suffix back to a .ts or .tsx source.
func (r *Resolver) probe(candidate string) (string, bool) {
	if isFile(candidate) {
		return canonical(candidate), true
	}
	for _, ext := range r.Extensions {
		if path := candidate + ext; isFile(path) {
			return canonical(path), true
		}
	}
	for _, ext := range r.Extensions {
		if path := filepath.Join(candidate, "index"+ext); isFile(path) {
			return canonical(path), true
		}
	}
	if strings.HasSuffix(candidate, ".js") {
		stem := strings.TrimSuffix(candidate, ".js")
		for _, ext := range []string{".ts", ".tsx"} {
			if path := stem + ext; isFile(path) {
				return canonical(path), true
			}
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
