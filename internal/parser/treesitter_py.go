package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// pyNodeExtractor builds a module from a python syntax tree.
type pyNodeExtractor struct {
	scanner PythonParser
}

func (e *pyNodeExtractor) extract(root *tree_sitter.Node, source []byte, m *uir.Module) {
	topLevel(root, func(node *tree_sitter.Node) {
		e.statement(node, source, m)
	})
}

func (e *pyNodeExtractor) statement(node *tree_sitter.Node, source []byte, m *uir.Module) {
	switch node.Kind() {
	case "import_statement", "import_from_statement":
		m.Imports = append(m.Imports, firstLine(node.Utf8Text(source)))
	case "function_definition":
		m.Functions = append(m.Functions, e.function(node, source))
	case "class_definition":
		m.Classes = append(m.Classes, e.class(node, source))
	case "decorated_definition":
		// Unwrap to the definition underneath; the decorator itself is not
		// modeled.
		topLevel(node, func(child *tree_sitter.Node) {
			e.statement(child, source, m)
		})
	case "expression_statement":
		e.assignment(node, source, m)
	}
}

func (e *pyNodeExtractor) function(node *tree_sitter.Node, source []byte) uir.Function {
	name := fieldText(node, "name", source)
	text := node.Utf8Text(source)
	body := fieldText(node, "body", source)
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       name,
		Parameters: e.scanner.parseParams(innerParens(fieldText(node, "parameters", source))),
		SourceLang: lang.Python,
		SourceCode: text,
		Attrs: uir.Attributes{
			Async:       strings.HasPrefix(text, "async "),
			Visibility:  pyVisibility(name),
			Exported:    !strings.HasPrefix(name, "_"),
			ControlFlow: scanControlFlow(body, pyFlowPatterns),
		},
	}
	if ret := fieldText(node, "return_type", source); ret != "" {
		fn.ReturnType = pyType(ret)
	} else {
		fn.ReturnType = pyInferReturn(body)
	}
	return fn
}

func (e *pyNodeExtractor) class(node *tree_sitter.Node, source []byte) uir.Class {
	cls := uir.Class{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		SourceLang: lang.Python,
		SourceCode: node.Utf8Text(source),
		Attrs:      uir.Attributes{Kind: uir.KindClass},
	}
	for _, base := range splitTopLevel(innerParens(fieldText(node, "superclasses", source)), ',') {
		base = strings.TrimSpace(base)
		if base != "" && base != "object" {
			cls.BaseClasses = append(cls.BaseClasses, base)
		}
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, def := range descendants(body, "function_definition") {
			fn := e.function(def, source)
			if fn.Name == "__init__" {
				cls.Properties = append(cls.Properties, fn.Parameters...)
			}
			cls.Methods = append(cls.Methods, fn)
		}
	}
	return cls
}

func (e *pyNodeExtractor) assignment(node *tree_sitter.Node, source []byte, m *uir.Module) {
	assigns := descendants(node, "assignment")
	if len(assigns) == 0 {
		return
	}
	assign := assigns[0]
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || right == nil || left.Kind() != "identifier" {
		return
	}
	name := left.Utf8Text(source)
	value := strings.TrimSpace(right.Utf8Text(source))
	sig := uir.Infer(value, lang.Python)
	if typ := fieldText(assign, "type", source); typ != "" {
		sig = pyType(typ)
	}
	m.Variables = append(m.Variables, uir.Variable{
		ID:         uir.NewID(),
		Name:       name,
		Type:       sig,
		Value:      value,
		IsConstant: name == strings.ToUpper(name) && strings.ContainsAny(name, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
		IsGlobal:   true,
		SourceLang: lang.Python,
	})
}
