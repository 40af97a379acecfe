package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// RustParser is the pattern scanner for rust sources. It doubles as the
// fallback behind the tree-sitter grammar. Impl-block methods are attached
// to the struct or enum they implement.
type RustParser struct{}

var (
	rsUseRE     = regexp.MustCompile(`(?m)^\s*use\s+([^;]+);`)
	rsTraitRE   = regexp.MustCompile(`(?:pub\s+)?trait\s+(\w+)(?:<[^>]+>)?(?:\s*:\s*[^{]+)?\s*\{`)
	rsStructRE  = regexp.MustCompile(`(?:pub(?:\([^)]+\))?\s+)?struct\s+(\w+)(?:<[^>]+>)?\s*\{`)
	rsEnumRE    = regexp.MustCompile(`(?:pub(?:\([^)]+\))?\s+)?enum\s+(\w+)(?:<[^>]+>)?\s*\{`)
	rsImplRE    = regexp.MustCompile(`impl(?:<[^>]+>)?\s+(?:(\w+)(?:<[^>]+>)?\s+for\s+)?(\w+)(?:<[^>]+>)?\s*\{`)
	rsFnRE      = regexp.MustCompile(`(?:pub(?:\([^)]+\))?\s+)?(?:(async)\s+)?fn\s+(\w+)\s*(?:<[^>]+>)?\s*\(([^)]*)\)(?:\s*->\s*([^{;\n]+))?\s*[\{;]`)
	rsFieldRE   = regexp.MustCompile(`(?m)^\s*(?:pub(?:\([^)]+\))?\s+)?(\w+)\s*:\s*([^,\n]+),?\s*$`)
	rsVariantRE = regexp.MustCompile(`(?m)^\s*(\w+)(?:\s*\([^)]*\)|\s*\{[^}]*\})?,?\s*$`)
	rsConstRE   = regexp.MustCompile(`(?:pub\s+)?(?:const|static)\s+(\w+)\s*:\s*([^=]+)=\s*([^;]+);`)
)

var rsFlowPatterns = []flowPattern{
	{regexp.MustCompile(`(?m)\bif\s+[^{\n]+\{`), uir.FlowIf},
	{regexp.MustCompile(`(?m)\bfor\s+[^{\n]+\{`), uir.FlowFor},
	{regexp.MustCompile(`(?m)\bwhile\s+[^{\n]+\{`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)\bloop\s*\{`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)\bmatch\s+[^{\n]+\{`), uir.FlowSwitch},
}

func (p *RustParser) Language() lang.Language { return lang.Rust }

func (p *RustParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Rust, filename)

	for _, use := range rsUseRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, "use "+strings.TrimSpace(use[1])+";")
	}

	spans := p.parseTraits(source, m)
	spans = append(spans, p.parseStructs(source, m)...)
	spans = append(spans, p.parseEnums(source, m)...)

	classIdx := make(map[string]int)
	for i, cls := range m.Classes {
		classIdx[cls.Name] = i
	}
	spans = append(spans, p.parseImpls(source, classIdx, m)...)

	for _, match := range rsFnRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		fn, ok := p.buildFn(source, match, false)
		if !ok {
			continue
		}
		m.Functions = append(m.Functions, fn)
	}

	for _, match := range rsConstRE.FindAllStringSubmatch(source, -1) {
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       match[1],
			Type:       rsType(match[2]),
			Value:      strings.TrimSpace(match[3]),
			IsConstant: true,
			IsGlobal:   true,
			SourceLang: lang.Rust,
		})
	}

	resolveDependencies(m)
	return m
}

func (p *RustParser) parseTraits(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range rsTraitRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Rust,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindTrait},
		}
		for _, mm := range rsFnRE.FindAllStringSubmatchIndex(body, -1) {
			if fn, ok := p.buildFn(body, mm, true); ok {
				cls.Methods = append(cls.Methods, fn)
			}
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *RustParser) parseStructs(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range rsStructRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Rust,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindStruct},
		}
		for _, field := range rsFieldRE.FindAllStringSubmatch(body, -1) {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: field[1], Type: rsType(strings.TrimRight(strings.TrimSpace(field[2]), ",")),
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *RustParser) parseEnums(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range rsEnumRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Rust,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindEnum},
		}
		for _, variant := range rsVariantRE.FindAllStringSubmatch(body, -1) {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: variant[1], Type: uir.Sig(uir.Integer),
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *RustParser) parseImpls(source string, classIdx map[string]int, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range rsImplRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		target := source[match[4]:match[5]]
		for _, mm := range rsFnRE.FindAllStringSubmatchIndex(body, -1) {
			fn, ok := p.buildFn(body, mm, true)
			if !ok {
				continue
			}
			if idx, known := classIdx[target]; known {
				m.Classes[idx].Methods = append(m.Classes[idx].Methods, fn)
			} else {
				m.Functions = append(m.Functions, fn)
			}
		}
		spans = append(spans, [2]int{match[0], end})
	}
	return spans
}

// buildFn assembles a Function from an fn-match (async?, name, params,
// return type). allowSelf keeps methods whose first parameter is a self
// receiver; the receiver itself never becomes a parameter.
func (p *RustParser) buildFn(src string, match []int, allowSelf bool) (uir.Function, bool) {
	paramsStr := src[match[6]:match[7]]
	hasSelf := strings.Contains(paramsStr, "self")
	if hasSelf && !allowSelf {
		return uir.Function{}, false
	}
	body := ""
	end := match[1]
	if src[match[1]-1] == '{' {
		if b, e, ok := matchBraces(src, match[1]-1); ok {
			body, end = b, e
		}
	}
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       src[match[4]:match[5]],
		Parameters: rsParams(paramsStr),
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.Rust,
		SourceCode: strings.TrimSpace(src[match[0]:end]),
		Attrs: uir.Attributes{
			Async:       match[2] >= 0,
			Visibility:  uir.Public,
			Exported:    strings.Contains(firstLine(src[match[0]:end]), "pub "),
			ControlFlow: scanControlFlow(body, rsFlowPatterns),
		},
	}
	if hasSelf {
		fn.Attrs.Receiver = "self"
	}
	if match[8] >= 0 {
		fn.ReturnType = rsType(src[match[8]:match[9]])
	}
	return fn, true
}

// rsParams parses a rust parameter list; self receivers are dropped.
func rsParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" || part == "self" || part == "&self" || part == "&mut self" || strings.HasPrefix(part, "mut self") {
			continue
		}
		colon := strings.IndexByte(part, ':')
		if colon < 0 {
			continue
		}
		name := strings.TrimPrefix(strings.TrimSpace(part[:colon]), "mut ")
		params = append(params, uir.Parameter{
			Name: name, Type: rsType(part[colon+1:]), Required: true,
		})
	}
	return params
}

// rsType maps a rust type expression to a TypeSignature. Option wraps its
// payload as nullable; Result collapses to its ok type.
func rsType(t string) uir.TypeSignature {
	t = strings.TrimSpace(t)
	for strings.HasPrefix(t, "&") {
		t = strings.TrimSpace(strings.TrimPrefix(t, "&"))
		t = strings.TrimSpace(strings.TrimPrefix(t, "mut "))
	}
	if t == "" {
		return uir.Sig(uir.Void)
	}
	if inner, ok := rsGeneric(t, "Option"); ok {
		sig := rsType(inner)
		sig.Nullable = true
		return sig
	}
	if inner, ok := rsGeneric(t, "Result"); ok {
		parts := splitTopLevel(inner, ',')
		return rsType(parts[0])
	}
	if inner, ok := rsGeneric(t, "Vec"); ok {
		return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{rsType(inner)}}
	}
	if strings.Contains(t, "Map<") {
		return uir.Sig(uir.Object)
	}
	switch t {
	case "bool":
		return uir.Sig(uir.Boolean)
	case "i8", "i16", "i32", "i64", "i128", "isize",
		"u8", "u16", "u32", "u64", "u128", "usize":
		return uir.Sig(uir.Integer)
	case "f32", "f64":
		return uir.Sig(uir.Float)
	case "str", "String", "char":
		return uir.Sig(uir.String)
	case "()":
		return uir.Sig(uir.Void)
	default:
		return uir.Sig(uir.Object)
	}
}

// rsGeneric unwraps Name<inner> and reports whether t had that shape.
func rsGeneric(t, name string) (string, bool) {
	if strings.HasPrefix(t, name+"<") && strings.HasSuffix(t, ">") {
		return t[len(name)+1 : len(t)-1], true
	}
	return "", false
}
