package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// rsNodeExtractor builds a module from a rust syntax tree.
type rsNodeExtractor struct{}

func (e *rsNodeExtractor) extract(root *tree_sitter.Node, source []byte, m *uir.Module) {
	topLevel(root, func(node *tree_sitter.Node) {
		switch node.Kind() {
		case "use_declaration":
			m.Imports = append(m.Imports, strings.TrimSpace(node.Utf8Text(source)))
		case "struct_item":
			m.Classes = append(m.Classes, e.structItem(node, source))
		case "enum_item":
			m.Classes = append(m.Classes, e.enumItem(node, source))
		case "trait_item":
			m.Classes = append(m.Classes, e.traitItem(node, source))
		case "const_item", "static_item":
			e.constItem(node, source, m)
		}
	})

	classIdx := make(map[string]int)
	for i, cls := range m.Classes {
		classIdx[cls.Name] = i
	}

	topLevel(root, func(node *tree_sitter.Node) {
		switch node.Kind() {
		case "function_item":
			m.Functions = append(m.Functions, e.function(node, source))
		case "impl_item":
			target := rsGenericName(fieldText(node, "type", source))
			body := node.ChildByFieldName("body")
			if body == nil {
				return
			}
			for _, item := range descendants(body, "function_item") {
				fn := e.function(item, source)
				if idx, ok := classIdx[target]; ok {
					m.Classes[idx].Methods = append(m.Classes[idx].Methods, fn)
				} else {
					m.Functions = append(m.Functions, fn)
				}
			}
		}
	})
}

func (e *rsNodeExtractor) structItem(node *tree_sitter.Node, source []byte) uir.Class {
	cls := uir.Class{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		SourceLang: lang.Rust,
		SourceCode: node.Utf8Text(source),
		Attrs:      uir.Attributes{Kind: uir.KindStruct},
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, field := range descendants(body, "field_declaration") {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: fieldText(field, "name", source),
				Type: rsType(fieldText(field, "type", source)),
			})
		}
	}
	return cls
}

func (e *rsNodeExtractor) enumItem(node *tree_sitter.Node, source []byte) uir.Class {
	cls := uir.Class{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		SourceLang: lang.Rust,
		SourceCode: node.Utf8Text(source),
		Attrs:      uir.Attributes{Kind: uir.KindEnum},
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, variant := range descendants(body, "enum_variant") {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: fieldText(variant, "name", source),
				Type: uir.Sig(uir.Integer),
			})
		}
	}
	return cls
}

func (e *rsNodeExtractor) traitItem(node *tree_sitter.Node, source []byte) uir.Class {
	cls := uir.Class{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		SourceLang: lang.Rust,
		SourceCode: node.Utf8Text(source),
		Attrs:      uir.Attributes{Kind: uir.KindTrait},
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, item := range descendants(body, "function_item") {
			cls.Methods = append(cls.Methods, e.function(item, source))
		}
		for _, item := range descendants(body, "function_signature_item") {
			cls.Methods = append(cls.Methods, e.function(item, source))
		}
	}
	return cls
}

func (e *rsNodeExtractor) constItem(node *tree_sitter.Node, source []byte, m *uir.Module) {
	m.Variables = append(m.Variables, uir.Variable{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		Type:       rsType(fieldText(node, "type", source)),
		Value:      strings.TrimSpace(fieldText(node, "value", source)),
		IsConstant: true,
		IsGlobal:   true,
		SourceLang: lang.Rust,
	})
}

func (e *rsNodeExtractor) function(node *tree_sitter.Node, source []byte) uir.Function {
	paramsText := innerParens(fieldText(node, "parameters", source))
	text := node.Utf8Text(source)
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		Parameters: rsParams(paramsText),
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.Rust,
		SourceCode: text,
		Attrs: uir.Attributes{
			Async:       strings.Contains(firstLine(text), "async "),
			Visibility:  uir.Public,
			Exported:    strings.Contains(firstLine(text), "pub "),
			ControlFlow: scanControlFlow(fieldText(node, "body", source), rsFlowPatterns),
		},
	}
	if strings.Contains(paramsText, "self") {
		fn.Attrs.Receiver = "self"
	}
	if ret := fieldText(node, "return_type", source); ret != "" {
		fn.ReturnType = rsType(ret)
	}
	return fn
}

// rsGenericName strips a generic suffix from an impl target: Foo<T> -> Foo.
func rsGenericName(t string) string {
	t = strings.TrimSpace(t)
	if open := strings.IndexByte(t, '<'); open >= 0 {
		t = t[:open]
	}
	return t
}
