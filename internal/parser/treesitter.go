package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// nodeExtractor populates a module from a parsed syntax tree.
type nodeExtractor interface {
	extract(root *tree_sitter.Node, source []byte, m *uir.Module)
}

// treeSitterParser fronts a surface scanner with a real grammar. When the
// grammar parses the file cleanly the module is built from the syntax tree;
// a nil or errored tree falls back to the scanner, which never fails. A new
// grammar parser is created per Parse call, so the wrapper stays stateless
// like every other parser in the package.
type treeSitterParser struct {
	language lang.Language
	grammar  *tree_sitter.Language
	ext      nodeExtractor
	fallback Parser
}

// newTreeSitterParser wraps fallback with the grammar for l. Languages
// without a grammar binding get the fallback unchanged.
func newTreeSitterParser(l lang.Language, fallback Parser) Parser {
	var grammar *tree_sitter.Language
	var ext nodeExtractor
	switch l {
	case lang.Go:
		grammar = tree_sitter.NewLanguage(tree_sitter_go.Language())
		ext = &goNodeExtractor{}
	case lang.Python:
		grammar = tree_sitter.NewLanguage(tree_sitter_python.Language())
		ext = &pyNodeExtractor{}
	case lang.Rust:
		grammar = tree_sitter.NewLanguage(tree_sitter_rust.Language())
		ext = &rsNodeExtractor{}
	case lang.TypeScript:
		grammar = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		ext = &tsNodeExtractor{}
	default:
		return fallback
	}
	return &treeSitterParser{language: l, grammar: grammar, ext: ext, fallback: fallback}
}

func (p *treeSitterParser) Language() lang.Language { return p.language }

func (p *treeSitterParser) Parse(source, filename string) *uir.Module {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.grammar); err != nil {
		return p.fallback.Parse(source, filename)
	}

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return p.fallback.Parse(source, filename)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return p.fallback.Parse(source, filename)
	}

	m := uir.NewModule(moduleName(filename), p.language, filename)
	p.ext.extract(root, src, m)
	resolveDependencies(m)
	return m
}

// topLevel calls fn for each direct child of node.
func topLevel(node *tree_sitter.Node, fn func(child *tree_sitter.Node)) {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			fn(child)
		}
	}
}

// descendants collects every node of the given kind in the subtree.
func descendants(node *tree_sitter.Node, kind string) []*tree_sitter.Node {
	var found []*tree_sitter.Node
	topLevel(node, func(child *tree_sitter.Node) {
		if child.Kind() == kind {
			found = append(found, child)
		}
		found = append(found, descendants(child, kind)...)
	})
	return found
}

// fieldText returns the text of the named field, or "" when absent.
func fieldText(node *tree_sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Utf8Text(source)
}

// innerParens strips one layer of surrounding parentheses.
func innerParens(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")
	return text
}
