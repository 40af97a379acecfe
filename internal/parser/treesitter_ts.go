package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// tsNodeExtractor builds a module from a typescript syntax tree.
type tsNodeExtractor struct{}

func (e *tsNodeExtractor) extract(root *tree_sitter.Node, source []byte, m *uir.Module) {
	topLevel(root, func(node *tree_sitter.Node) {
		e.statement(node, source, m)
	})
}

func (e *tsNodeExtractor) statement(node *tree_sitter.Node, source []byte, m *uir.Module) {
	switch node.Kind() {
	case "import_statement":
		m.Imports = append(m.Imports, strings.TrimSpace(node.Utf8Text(source)))
	case "function_declaration":
		m.Functions = append(m.Functions, e.function(node, source))
	case "class_declaration":
		m.Classes = append(m.Classes, e.class(node, source))
	case "interface_declaration":
		m.Classes = append(m.Classes, e.iface(node, source))
	case "enum_declaration":
		m.Classes = append(m.Classes, e.enum(node, source))
	case "lexical_declaration", "variable_declaration":
		e.variables(node, source, m)
	case "export_statement":
		// export wraps the real declaration; model the declaration.
		topLevel(node, func(child *tree_sitter.Node) {
			e.statement(child, source, m)
		})
	}
}

func (e *tsNodeExtractor) function(node *tree_sitter.Node, source []byte) uir.Function {
	text := node.Utf8Text(source)
	body := fieldText(node, "body", source)
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		Parameters: tsParams(innerParens(fieldText(node, "parameters", source))),
		SourceLang: lang.TypeScript,
		SourceCode: text,
		Attrs: uir.Attributes{
			Async:       strings.HasPrefix(firstLine(text), "async "),
			Visibility:  uir.Public,
			Exported:    true,
			ControlFlow: scanControlFlow(body, braceFlowPatterns),
		},
	}
	if ret := tsReturnAnnotation(node, source); ret != "" {
		fn.ReturnType = tsType(ret)
	} else {
		fn.ReturnType = jsInferReturn(body)
	}
	return fn
}

func (e *tsNodeExtractor) class(node *tree_sitter.Node, source []byte) uir.Class {
	cls := uir.Class{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		SourceLang: lang.TypeScript,
		SourceCode: node.Utf8Text(source),
		Attrs:      uir.Attributes{Kind: uir.KindClass},
	}
	for _, heritage := range descendants(node, "extends_clause") {
		for _, base := range splitTopLevel(strings.TrimPrefix(strings.TrimSpace(heritage.Utf8Text(source)), "extends "), ',') {
			cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(base))
		}
	}
	for _, heritage := range descendants(node, "implements_clause") {
		for _, base := range splitTopLevel(strings.TrimPrefix(strings.TrimSpace(heritage.Utf8Text(source)), "implements "), ',') {
			cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(base))
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	topLevel(body, func(member *tree_sitter.Node) {
		switch member.Kind() {
		case "method_definition":
			fn := e.method(member, source)
			if fn.Name == "constructor" {
				cls.Properties = append(cls.Properties, fn.Parameters...)
			}
			cls.Methods = append(cls.Methods, fn)
		case "public_field_definition", "field_definition":
			name := fieldText(member, "name", source)
			sig := uir.Sig(uir.Any)
			if typ := tsTypeAnnotation(member, source); typ != "" {
				sig = tsType(typ)
			}
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: name, Type: sig,
				Default: strings.TrimSpace(fieldText(member, "value", source)),
			})
		}
	})
	return cls
}

func (e *tsNodeExtractor) method(node *tree_sitter.Node, source []byte) uir.Function {
	text := node.Utf8Text(source)
	head := firstLine(text)
	body := fieldText(node, "body", source)
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		Parameters: tsParams(innerParens(fieldText(node, "parameters", source))),
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.TypeScript,
		SourceCode: text,
		Attrs: uir.Attributes{
			Async:       strings.Contains(head, "async "),
			Static:      strings.HasPrefix(head, "static ") || strings.Contains(head, " static "),
			Visibility:  uir.Public,
			ControlFlow: scanControlFlow(body, braceFlowPatterns),
		},
	}
	if strings.HasPrefix(head, "private ") {
		fn.Attrs.Visibility = uir.Private
	}
	if ret := tsReturnAnnotation(node, source); ret != "" {
		fn.ReturnType = tsType(ret)
	}
	return fn
}

func (e *tsNodeExtractor) iface(node *tree_sitter.Node, source []byte) uir.Class {
	cls := uir.Class{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		SourceLang: lang.TypeScript,
		SourceCode: node.Utf8Text(source),
		Attrs:      uir.Attributes{Kind: uir.KindInterface},
	}
	for _, heritage := range descendants(node, "extends_type_clause") {
		for _, base := range splitTopLevel(strings.TrimPrefix(strings.TrimSpace(heritage.Utf8Text(source)), "extends "), ',') {
			cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(base))
		}
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	topLevel(body, func(member *tree_sitter.Node) {
		switch member.Kind() {
		case "property_signature":
			name := fieldText(member, "name", source)
			sig := uir.Sig(uir.Any)
			if typ := tsTypeAnnotation(member, source); typ != "" {
				sig = tsType(typ)
			}
			cls.Properties = append(cls.Properties, uir.Parameter{Name: name, Type: sig})
		case "method_signature":
			fn := uir.Function{
				ID:         uir.NewID(),
				Name:       fieldText(member, "name", source),
				Parameters: tsParams(innerParens(fieldText(member, "parameters", source))),
				ReturnType: uir.Sig(uir.Void),
				SourceLang: lang.TypeScript,
				Attrs:      uir.Attributes{Visibility: uir.Public},
			}
			if ret := tsReturnAnnotation(member, source); ret != "" {
				fn.ReturnType = tsType(ret)
			}
			cls.Methods = append(cls.Methods, fn)
		}
	})
	return cls
}

func (e *tsNodeExtractor) enum(node *tree_sitter.Node, source []byte) uir.Class {
	cls := uir.Class{
		ID:         uir.NewID(),
		Name:       fieldText(node, "name", source),
		SourceLang: lang.TypeScript,
		SourceCode: node.Utf8Text(source),
		Attrs:      uir.Attributes{Kind: uir.KindEnum},
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, member := range descendants(body, "property_identifier") {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: member.Utf8Text(source), Type: uir.Sig(uir.Integer),
			})
		}
	}
	return cls
}

func (e *tsNodeExtractor) variables(node *tree_sitter.Node, source []byte, m *uir.Module) {
	constant := strings.HasPrefix(strings.TrimSpace(node.Utf8Text(source)), "const ")
	for _, decl := range descendants(node, "variable_declarator") {
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}
		value := strings.TrimSpace(fieldText(decl, "value", source))
		// Arrow functions and require() calls are modeled elsewhere.
		if strings.Contains(value, "=>") || strings.HasPrefix(value, "require(") {
			continue
		}
		sig := uir.Infer(value, lang.TypeScript)
		if typ := tsTypeAnnotation(decl, source); typ != "" {
			sig = tsType(typ)
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       nameNode.Utf8Text(source),
			Type:       sig,
			Value:      value,
			IsConstant: constant,
			IsGlobal:   true,
			SourceLang: lang.TypeScript,
		})
	}
}

// tsTypeAnnotation reads a `: T` annotation from the node's type field.
func tsTypeAnnotation(node *tree_sitter.Node, source []byte) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(fieldText(node, "type", source)), ":"))
}

// tsReturnAnnotation reads the return type field of a function-like node.
func tsReturnAnnotation(node *tree_sitter.Node, source []byte) string {
	return tsTypeAnnotation(node, source)
}
