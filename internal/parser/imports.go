package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"cyclecheck/internal/models"
)

// ExtractImports parses content and returns every outbound module reference,
// ordered by source position. Recognized forms: static import statements,
// dynamic import() expressions, require() calls, and re-export-from
// statements. References whose specifier is not a plain string literal are
// dropped.
func ExtractImports(ctx context.Context, content []byte, lang Language) ([]models.ImportRecord, error) {
	tree, err := Parse(ctx, content, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	e := &extractor{content: content}
	e.walk(tree.RootNode())
	return e.records, nil
}

type extractor struct {
	content []byte
	records []models.ImportRecord
}

func (e *extractor) walk(node *sitter.Node) {
	switch node.Type() {
	case "import_statement":
		e.importStatement(node)
		return
	case "export_statement":
		if e.reexportStatement(node) {
			return
		}
	case "call_expression":
		e.callExpression(node)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i))
	}
}

func (e *extractor) emit(node *sitter.Node, kind models.ImportKind, source string, specifiers []string) {
	if source == "" {
		return
	}
	if specifiers == nil {
		specifiers = []string{}
	}
	e.records = append(e.records, models.ImportRecord{
		Source:     source,
		Kind:       kind,
		Specifiers: specifiers,
		Line:       int(node.StartPoint().Row) + 1,
	})
}

// importStatement handles `import ... from "x"` and side-effect imports.
func (e *extractor) importStatement(node *sitter.Node) {
	source, ok := e.stringLiteral(node.ChildByFieldName("source"))
	if !ok {
		return
	}

	var specifiers []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "import_clause" {
			continue
		}
		specifiers = append(specifiers, e.importClauseSpecifiers(child)...)
	}

	e.emit(node, models.ImportStaticESM, source, specifiers)
}

func (e *extractor) importClauseSpecifiers(clause *sitter.Node) []string {
	var specifiers []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			// bare default import
			specifiers = append(specifiers, e.text(child))
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				element := child.NamedChild(j)
				if element.Type() != "import_specifier" {
					continue
				}
				if name := e.specifierName(element); name != "" {
					specifiers = append(specifiers, name)
				}
			}
		case "namespace_import":
			if ident := firstChildOfType(child, "identifier"); ident != nil {
				specifiers = append(specifiers, "* as "+e.text(ident))
			}
		}
	}
	return specifiers
}

// specifierName prefers the alias of an import element, then its name, then
// the first identifier child.
func (e *extractor) specifierName(element *sitter.Node) string {
	if alias := element.ChildByFieldName("alias"); alias != nil {
		return e.text(alias)
	}
	if name := element.ChildByFieldName("name"); name != nil {
		return e.text(name)
	}
	if ident := firstChildOfType(element, "identifier"); ident != nil {
		return e.text(ident)
	}
	return ""
}

// callExpression handles dynamic import() and CommonJS require().
func (e *extractor) callExpression(node *sitter.Node) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}

	switch {
	case fn.Type() == "import":
		if source, ok := e.firstStringArgument(node); ok {
			e.emit(node, models.ImportDynamicESM, source, nil)
		}
	case fn.Type() == "identifier" && e.text(fn) == "require":
		source, ok := e.firstStringArgument(node)
		if !ok {
			return
		}
		e.emit(node, models.ImportCommonJS, source, e.requireBindings(node))
	}
}

// requireBindings inspects the variable declarator enclosing a require call:
// `const x = require(...)` binds x, `const {a, b: c} = require(...)` binds
// a and c. A standalone require statement binds nothing.
func (e *extractor) requireBindings(call *sitter.Node) []string {
	declarator := call.Parent()
	if declarator == nil || declarator.Type() != "variable_declarator" {
		return nil
	}
	target := declarator.ChildByFieldName("name")
	if target == nil {
		return nil
	}

	switch target.Type() {
	case "identifier":
		return []string{e.text(target)}
	case "object_pattern":
		var names []string
		for i := 0; i < int(target.NamedChildCount()); i++ {
			prop := target.NamedChild(i)
			switch prop.Type() {
			case "shorthand_property_identifier_pattern":
				names = append(names, e.text(prop))
			case "pair_pattern":
				if value := prop.ChildByFieldName("value"); value != nil {
					names = append(names, e.text(value))
				}
			}
		}
		return names
	}
	return nil
}

// reexportStatement handles `export ... from "x"`. Returns false when the
// export has no source clause so the caller recurses into the declaration.
func (e *extractor) reexportStatement(node *sitter.Node) bool {
	srcNode := node.ChildByFieldName("source")
	if srcNode == nil {
		return false
	}
	source, ok := e.stringLiteral(srcNode)
	if !ok {
		return true
	}

	var specifiers []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "export_clause" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			element := child.NamedChild(j)
			if element.Type() != "export_specifier" {
				continue
			}
			if name := element.ChildByFieldName("name"); name != nil {
				specifiers = append(specifiers, e.text(name))
			}
		}
	}
	// `export * from "x"` carries the star as a direct unnamed child.
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "*" {
			specifiers = append(specifiers, "*")
		}
	}

	e.emit(node, models.ImportReexport, source, specifiers)
	return true
}

// firstStringArgument returns the unquoted first argument of a call when it
// is a plain string literal.
func (e *extractor) firstStringArgument(call *sitter.Node) (string, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return "", false
	}
	return e.stringLiteral(args.NamedChild(0))
}

// stringLiteral unquotes a string node. Template literals containing
// interpolations are not resolvable and report false.
func (e *extractor) stringLiteral(node *sitter.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "string":
		return trimQuotes(e.text(node)), true
	case "template_string":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if node.NamedChild(i).Type() == "template_substitution" {
				return "", false
			}
		}
		return trimQuotes(e.text(node)), true
	}
	return "", false
}

// trimQuotes strips exactly one matching pair of surrounding quotes.
func trimQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'' || first == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func (e *extractor) text(node *sitter.Node) string {
	return strings.TrimSpace(node.Content(e.content))
}

func firstChildOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == typ {
			return child
		}
	}
	return nil
}
