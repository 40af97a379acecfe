package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// PythonParser is the pattern scanner for python sources. It doubles as the
// fallback behind the tree-sitter grammar.
type PythonParser struct{}

var (
	pyImportRE   = regexp.MustCompile(`(?m)^(?:import\s+[\w.]+(?:\s+as\s+\w+)?|from\s+[\w.]+\s+import\s+[^\n]+)`)
	pyFuncRE     = regexp.MustCompile(`(?m)^(async\s+)?def\s+(\w+)\s*\(([^)]*)\)\s*(?:->\s*([^:\n]+))?:`)
	pyMethodRE   = regexp.MustCompile(`(?m)^[ \t]+(async\s+)?def\s+(\w+)\s*\(([^)]*)\)\s*(?:->\s*([^:\n]+))?:`)
	pyClassRE    = regexp.MustCompile(`(?m)^class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`)
	pyVariableRE = regexp.MustCompile(`(?m)^([A-Za-z_]\w*)\s*(?::\s*[^=\n]+)?=\s*([^\n=][^\n]*)$`)
)

var pyFlowPatterns = []flowPattern{
	{regexp.MustCompile(`(?m)^\s*if\s+[^\n]+:`), uir.FlowIf},
	{regexp.MustCompile(`(?m)^\s*for\s+[^\n]+:`), uir.FlowFor},
	{regexp.MustCompile(`(?m)^\s*while\s+[^\n]+:`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)^\s*try\s*:`), uir.FlowTry},
	{regexp.MustCompile(`(?m)^\s*with\s+[^\n]+:`), uir.FlowWith},
	{regexp.MustCompile(`(?m)^\s*match\s+[^\n]+:`), uir.FlowSwitch},
}

func (p *PythonParser) Language() lang.Language { return lang.Python }

func (p *PythonParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Python, filename)

	for _, imp := range pyImportRE.FindAllString(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(imp))
	}

	classSpans := p.parseClasses(source, m)

	for _, match := range pyFuncRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], classSpans) {
			continue
		}
		fn := p.buildFunction(source, match)
		m.Functions = append(m.Functions, fn)
	}

	p.parseVariables(source, classSpans, m)
	resolveDependencies(m)
	return m
}

// parseClasses extracts class definitions with their indented bodies and
// returns the source spans they occupy, so free-function and variable scans
// can skip them.
func (p *PythonParser) parseClasses(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range pyClassRE.FindAllStringSubmatchIndex(source, -1) {
		name := source[match[2]:match[3]]
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       name,
			SourceLang: lang.Python,
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if match[4] >= 0 {
			for _, base := range splitTopLevel(source[match[4]:match[5]], ',') {
				base = strings.TrimSpace(base)
				if base != "" && base != "object" {
					cls.BaseClasses = append(cls.BaseClasses, base)
				}
			}
		}

		body := indentedBlock(source, match[1], 0)
		cls.SourceCode = source[match[0]:match[1]] + "\n" + body
		spans = append(spans, [2]int{match[0], match[1] + len(body)})

		for _, mm := range pyMethodRE.FindAllStringSubmatchIndex(body, -1) {
			fn := p.buildFunction(body, mm)
			if fn.Name == "__init__" {
				// Constructor parameters become class properties for targets
				// that need eager field declarations.
				for _, param := range fn.Parameters {
					cls.Properties = append(cls.Properties, param)
				}
			}
			cls.Methods = append(cls.Methods, fn)
		}
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

// buildFunction assembles a Function from a def-match (async?, name, params,
// return annotation) against src.
func (p *PythonParser) buildFunction(src string, match []int) uir.Function {
	name := src[match[4]:match[5]]
	paramsStr := src[match[6]:match[7]]
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       name,
		Parameters: p.parseParams(paramsStr),
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.Python,
		Attrs: uir.Attributes{
			Async:      match[2] >= 0,
			Visibility: pyVisibility(name),
			Exported:   !strings.HasPrefix(name, "_"),
		},
	}
	if match[8] >= 0 {
		fn.ReturnType = pyType(strings.TrimSpace(src[match[8]:match[9]]))
	}
	header := src[match[0]:match[1]]
	body := indentedBlock(src, match[1], indentOf(firstLineRaw(src, match[0])))
	fn.SourceCode = header + "\n" + body
	fn.Attrs.ControlFlow = scanControlFlow(body, pyFlowPatterns)
	if match[8] < 0 {
		fn.ReturnType = pyInferReturn(body)
	}
	return fn
}

// firstLineRaw returns the full line containing offset.
func firstLineRaw(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		return src[start:]
	}
	return src[start : offset+end]
}

func (p *PythonParser) parseParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" || part == "self" || part == "cls" || part == "/" || part == "*" {
			continue
		}
		if strings.HasPrefix(part, "**") {
			params = append(params, uir.Parameter{
				Name: strings.TrimPrefix(part, "**"), Type: uir.Sig(uir.Object),
			})
			continue
		}
		if strings.HasPrefix(part, "*") {
			params = append(params, uir.Parameter{
				Name: strings.TrimPrefix(part, "*"), Type: uir.Sig(uir.Array),
			})
			continue
		}

		name := part
		sig := uir.Sig(uir.Any)
		defaultValue := ""
		if eq := strings.IndexByte(part, '='); eq >= 0 {
			defaultValue = strings.TrimSpace(part[eq+1:])
			name = strings.TrimSpace(part[:eq])
		}
		if colon := strings.IndexByte(name, ':'); colon >= 0 {
			sig = pyType(strings.TrimSpace(name[colon+1:]))
			name = strings.TrimSpace(name[:colon])
		} else if defaultValue != "" {
			sig = uir.Infer(defaultValue, lang.Python)
		}
		params = append(params, uir.NewParameter(name, sig, defaultValue))
	}
	return params
}

// pyType maps a python annotation to a TypeSignature, including the common
// generic containers.
func pyType(annotation string) uir.TypeSignature {
	a := strings.TrimSpace(annotation)
	if a == "" {
		return uir.Sig(uir.Any)
	}
	if open := strings.IndexByte(a, '['); open >= 0 && strings.HasSuffix(a, "]") {
		outer := pyBaseType(a[:open])
		var generics []uir.TypeSignature
		for _, inner := range splitTopLevel(a[open+1:len(a)-1], ',') {
			generics = append(generics, pyType(inner))
		}
		return uir.TypeSignature{Base: outer, Generics: generics}
	}
	if strings.HasPrefix(a, "Optional[") {
		sig := pyType(strings.TrimSuffix(strings.TrimPrefix(a, "Optional["), "]"))
		sig.Nullable = true
		return sig
	}
	return uir.Sig(pyBaseType(a))
}

func pyBaseType(name string) uir.DataType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return uir.Void
	case "bool":
		return uir.Boolean
	case "int":
		return uir.Integer
	case "float":
		return uir.Float
	case "str":
		return uir.String
	case "list", "tuple", "set":
		return uir.Array
	case "dict":
		return uir.Object
	case "callable":
		return uir.Func
	default:
		return uir.Any
	}
}

var pyReturnRE = regexp.MustCompile(`(?m)^\s*return\s+([^\n]+)`)

// pyInferReturn guesses a return type from the shape of the body's return
// statements, defaulting to void when none exist.
func pyInferReturn(body string) uir.TypeSignature {
	match := pyReturnRE.FindStringSubmatch(body)
	if match == nil {
		return uir.Sig(uir.Void)
	}
	return uir.Infer(match[1], lang.Python)
}

func pyVisibility(name string) uir.Visibility {
	if strings.HasPrefix(name, "_") {
		return uir.Private
	}
	return uir.Public
}

func (p *PythonParser) parseVariables(source string, classSpans [][2]int, m *uir.Module) {
	for _, match := range pyVariableRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], classSpans) {
			continue
		}
		name := source[match[2]:match[3]]
		value := strings.TrimSpace(source[match[4]:match[5]])
		if name == "_" || strings.HasPrefix(value, "=") {
			continue
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       name,
			Type:       uir.Infer(value, lang.Python),
			Value:      value,
			IsConstant: name == strings.ToUpper(name) && strings.ContainsAny(name, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
			IsGlobal:   true,
			SourceLang: lang.Python,
		})
	}
}

// insideSpans reports whether offset falls inside any of the spans.
func insideSpans(offset int, spans [][2]int) bool {
	for _, s := range spans {
		if offset >= s[0] && offset < s[1] {
			return true
		}
	}
	return false
}
