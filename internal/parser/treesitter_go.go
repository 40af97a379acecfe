package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// goNodeExtractor builds a module from a go syntax tree. Member detail
// inside type bodies goes through the same helpers the surface scanner
// uses; the tree supplies accurate declaration boundaries.
type goNodeExtractor struct{}

func (e *goNodeExtractor) extract(root *tree_sitter.Node, source []byte, m *uir.Module) {
	// Types and imports first so methods have something to attach to.
	topLevel(root, func(node *tree_sitter.Node) {
		switch node.Kind() {
		case "import_declaration":
			e.imports(node, source, m)
		case "type_declaration":
			e.types(node, source, m)
		case "const_declaration":
			e.values(node, source, "const_spec", true, m)
		case "var_declaration":
			e.values(node, source, "var_spec", false, m)
		}
	})

	classIdx := make(map[string]int)
	for i, cls := range m.Classes {
		classIdx[cls.Name] = i
	}

	topLevel(root, func(node *tree_sitter.Node) {
		switch node.Kind() {
		case "function_declaration":
			m.Functions = append(m.Functions, e.function(node, source))
		case "method_declaration":
			fn := e.function(node, source)
			recv := innerParens(fieldText(node, "receiver", source))
			if fields := strings.Fields(recv); len(fields) == 2 {
				fn.Attrs.Receiver = fields[0]
				fn.Attrs.ReceiverType = strings.TrimPrefix(fields[1], "*")
			}
			if idx, ok := classIdx[fn.Attrs.ReceiverType]; ok {
				m.Classes[idx].Methods = append(m.Classes[idx].Methods, fn)
			} else {
				m.Functions = append(m.Functions, fn)
			}
		}
	})
}

func (e *goNodeExtractor) imports(node *tree_sitter.Node, source []byte, m *uir.Module) {
	for _, spec := range descendants(node, "import_spec") {
		path := fieldText(spec, "path", source)
		if path == "" {
			continue
		}
		m.Imports = append(m.Imports, `import "`+strings.Trim(path, `"`)+`"`)
	}
}

func (e *goNodeExtractor) types(node *tree_sitter.Node, source []byte, m *uir.Module) {
	for _, spec := range descendants(node, "type_spec") {
		name := fieldText(spec, "name", source)
		typeNode := spec.ChildByFieldName("type")
		if name == "" || typeNode == nil {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       name,
			SourceLang: lang.Go,
			SourceCode: spec.Utf8Text(source),
		}
		body := typeNode.Utf8Text(source)
		switch typeNode.Kind() {
		case "interface_type":
			cls.Attrs.Kind = uir.KindInterface
			for _, mm := range goIfaceMethodRE.FindAllStringSubmatch(body, -1) {
				ret := mm[3]
				if ret == "" {
					ret = mm[4]
				}
				cls.Methods = append(cls.Methods, uir.Function{
					ID:         uir.NewID(),
					Name:       mm[1],
					Parameters: goParams(mm[2]),
					ReturnType: goResultType(ret),
					SourceLang: lang.Go,
					Attrs:      uir.Attributes{Visibility: goVisibility(mm[1]), Exported: goExported(mm[1])},
				})
			}
		case "struct_type":
			cls.Attrs.Kind = uir.KindStruct
			for _, field := range goFieldRE.FindAllStringSubmatch(body, -1) {
				cls.Properties = append(cls.Properties, uir.Parameter{
					Name: field[1], Type: goType(field[2]),
				})
			}
		default:
			continue
		}
		m.Classes = append(m.Classes, cls)
	}
}

func (e *goNodeExtractor) values(node *tree_sitter.Node, source []byte, specKind string, constant bool, m *uir.Module) {
	for _, spec := range descendants(node, specKind) {
		name := fieldText(spec, "name", source)
		if name == "" {
			continue
		}
		typ := fieldText(spec, "type", source)
		value := strings.TrimSpace(fieldText(spec, "value", source))
		sig := uir.Infer(value, lang.Go)
		if typ != "" {
			sig = goType(typ)
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       name,
			Type:       sig,
			Value:      value,
			IsConstant: constant,
			IsGlobal:   true,
			SourceLang: lang.Go,
		})
	}
}

func (e *goNodeExtractor) function(node *tree_sitter.Node, source []byte) uir.Function {
	name := fieldText(node, "name", source)
	return uir.Function{
		ID:         uir.NewID(),
		Name:       name,
		Parameters: goParams(innerParens(fieldText(node, "parameters", source))),
		ReturnType: e.result(node, source),
		SourceLang: lang.Go,
		SourceCode: node.Utf8Text(source),
		Attrs: uir.Attributes{
			Visibility:  goVisibility(name),
			Exported:    goExported(name),
			ControlFlow: scanControlFlow(fieldText(node, "body", source), braceFlowPatterns),
		},
	}
}

func (e *goNodeExtractor) result(node *tree_sitter.Node, source []byte) uir.TypeSignature {
	res := node.ChildByFieldName("result")
	if res == nil {
		return uir.Sig(uir.Void)
	}
	text := strings.TrimSpace(res.Utf8Text(source))
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = text[1 : len(text)-1]
	}
	return goResultType(text)
}
