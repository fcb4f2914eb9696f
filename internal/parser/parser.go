package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language selects which grammar a file is parsed with.
type Language int

const (
	// LangTypeScript covers .ts, .mts and .cts files.
	LangTypeScript Language = iota
	// LangTSX covers .tsx files.
	LangTSX
	// LangJavaScript covers .js, .mjs and .cjs files.
	LangJavaScript
	// LangJSX covers .jsx files. The javascript grammar parses JSX natively,
	// so this shares a grammar with LangJavaScript.
	LangJSX
)

func (l Language) String() string {
	switch l {
	case LangTypeScript:
		return "typescript"
	case LangTSX:
		return "tsx"
	case LangJavaScript:
		return "javascript"
	case LangJSX:
		return "jsx"
	default:
		return "unknown"
	}
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case LangTypeScript:
		return typescript.GetLanguage()
	case LangTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// LanguageForFile maps a file path to its grammar by extension.
func LanguageForFile(path string) (Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript, nil
	case ".tsx":
		return LangTSX, nil
	case ".js", ".mjs", ".cjs":
		return LangJavaScript, nil
	case ".jsx":
		return LangJSX, nil
	default:
		return 0, fmt.Errorf("unsupported file type: %s", path)
	}
}

// Parse parses source content with the grammar for lang. A fresh parser is
// created per call; sharing one parser across goroutines is not safe.
func Parse(ctx context.Context, content []byte, lang Language) (*sitter.Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(lang.grammar())

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	return tree, nil
}
