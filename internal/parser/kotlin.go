package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// KotlinParser is the pattern scanner for kotlin sources.
type KotlinParser struct{}

var (
	ktPackageRE   = regexp.MustCompile(`(?m)^package\s+([\w.]+)`)
	ktImportRE    = regexp.MustCompile(`(?m)^import\s+([\w.*]+)`)
	ktInterfaceRE = regexp.MustCompile(`interface\s+(\w+)(?:<[^>]+>)?(?:\s*:\s*([^{]+))?\s*\{`)
	ktClassRE     = regexp.MustCompile(`(?:(?:open|abstract|sealed)\s+)?(data\s+)?class\s+(\w+)(?:<[^>]+>)?(?:\s*\(([^)]*)\))?(?:\s*:\s*([^{\n]+))?\s*\{`)
	ktDataHdrRE   = regexp.MustCompile(`data\s+class\s+(\w+)(?:<[^>]+>)?\s*\(([^)]*)\)(?:\s*:\s*([^{\n]+))?`)
	ktObjectRE    = regexp.MustCompile(`(?:companion\s+)?object\s+(\w+)(?:\s*:\s*([^{]+))?\s*\{`)
	ktFunRE       = regexp.MustCompile(`(?:(?:override|open|private|internal)\s+)*(?:(suspend)\s+)?fun\s+(\w+)\s*\(([^)]*)\)(?:\s*:\s*([^{=\n]+))?\s*\{`)
	ktFunSigRE    = regexp.MustCompile(`(?m)^\s*fun\s+(\w+)\s*\(([^)]*)\)(?:\s*:\s*([^{=\n]+))?\s*$`)
	ktValVarRE    = regexp.MustCompile(`(?m)^(?:\s*)(val|var)\s+(\w+)(?:\s*:\s*([^=\n]+))?\s*=\s*([^\n]+)$`)
	ktIntLit      = regexp.MustCompile(`^-?\d+[Ll]?$`)
	ktFloatLit    = regexp.MustCompile(`^-?\d+\.\d+[fF]?$`)
)

var ktFlowPatterns = []flowPattern{
	{regexp.MustCompile(`\bif\s*\([^)]+\)`), uir.FlowIf},
	{regexp.MustCompile(`\bwhen\s*(?:\([^)]+\))?\s*\{`), uir.FlowSwitch},
	{regexp.MustCompile(`\bfor\s*\([^)]+\)`), uir.FlowFor},
	{regexp.MustCompile(`\bwhile\s*\([^)]+\)`), uir.FlowWhile},
	{regexp.MustCompile(`\btry\s*\{`), uir.FlowTry},
}

func (p *KotlinParser) Language() lang.Language { return lang.Kotlin }

func (p *KotlinParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Kotlin, filename)

	if pkg := ktPackageRE.FindStringSubmatch(source); pkg != nil {
		m.Imports = append(m.Imports, "package "+pkg[1])
	}
	for _, imp := range ktImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, "import "+imp[1])
	}

	spans := p.parseInterfaces(source, m)
	spans = append(spans, p.parseClasses(source, m)...)
	spans = append(spans, p.parseBodylessDataClasses(source, spans, m)...)
	spans = append(spans, p.parseObjects(source, spans, m)...)

	for _, match := range ktFunRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		m.Functions = append(m.Functions, p.buildFun(source, match))
	}

	for _, match := range ktValVarRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		value := strings.TrimSpace(source[match[8]:match[9]])
		sig := ktInfer(value)
		if match[6] >= 0 {
			sig = ktType(source[match[6]:match[7]])
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			Type:       sig,
			Value:      value,
			IsConstant: source[match[2]:match[3]] == "val",
			IsGlobal:   true,
			SourceLang: lang.Kotlin,
		})
	}

	resolveDependencies(m)
	return m
}

func (p *KotlinParser) parseInterfaces(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range ktInterfaceRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Kotlin,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindInterface},
		}
		if match[4] >= 0 {
			for _, base := range strings.Split(source[match[4]:match[5]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, ktEraseCall(base))
			}
		}
		for _, mm := range ktFunSigRE.FindAllStringSubmatch(body, -1) {
			sig := uir.Sig(uir.Void)
			if mm[3] != "" {
				sig = ktType(mm[3])
			}
			cls.Methods = append(cls.Methods, uir.Function{
				ID:         uir.NewID(),
				Name:       mm[1],
				Parameters: ktParams(mm[2]),
				ReturnType: sig,
				SourceLang: lang.Kotlin,
				Attrs:      uir.Attributes{Visibility: uir.Public},
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *KotlinParser) parseClasses(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range ktClassRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		kind := uir.KindClass
		if match[2] >= 0 {
			kind = uir.KindDataClass
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			SourceLang: lang.Kotlin,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: kind},
		}
		if match[8] >= 0 {
			for _, base := range splitTopLevel(source[match[8]:match[9]], ',') {
				cls.BaseClasses = append(cls.BaseClasses, ktEraseCall(base))
			}
		}
		// Primary constructor parameters double as properties.
		if match[6] >= 0 {
			params := ktParams(source[match[6]:match[7]])
			cls.Properties = append(cls.Properties, params...)
			cls.Methods = append(cls.Methods, uir.Function{
				ID:         uir.NewID(),
				Name:       cls.Name,
				Parameters: params,
				ReturnType: uir.Sig(uir.Void),
				SourceLang: lang.Kotlin,
				Attrs:      uir.Attributes{Visibility: uir.Public},
			})
		}
		for _, mm := range ktFunRE.FindAllStringSubmatchIndex(body, -1) {
			cls.Methods = append(cls.Methods, p.buildFun(body, mm))
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

// parseBodylessDataClasses picks up `data class Point(val x: Int)` forms
// that have no brace body and so were missed by the class scan.
func (p *KotlinParser) parseBodylessDataClasses(source string, spans [][2]int, m *uir.Module) [][2]int {
	var added [][2]int
	for _, match := range ktDataHdrRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		params := ktParams(source[match[4]:match[5]])
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			Properties: params,
			SourceLang: lang.Kotlin,
			SourceCode: source[match[0]:match[1]],
			Attrs:      uir.Attributes{Kind: uir.KindDataClass},
		}
		if match[6] >= 0 {
			for _, base := range splitTopLevel(source[match[6]:match[7]], ',') {
				cls.BaseClasses = append(cls.BaseClasses, ktEraseCall(base))
			}
		}
		cls.Methods = append(cls.Methods, uir.Function{
			ID:         uir.NewID(),
			Name:       cls.Name,
			Parameters: params,
			ReturnType: uir.Sig(uir.Void),
			SourceLang: lang.Kotlin,
			Attrs:      uir.Attributes{Visibility: uir.Public},
		})
		added = append(added, [2]int{match[0], match[1]})
		m.Classes = append(m.Classes, cls)
	}
	return added
}

func (p *KotlinParser) parseObjects(source string, spans [][2]int, m *uir.Module) [][2]int {
	var added [][2]int
	for _, match := range ktObjectRE.FindAllStringSubmatchIndex(source, -1) {
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
			SourceLang: lang.Kotlin,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindModule},
		}
		if match[4] >= 0 {
			for _, base := range strings.Split(source[match[4]:match[5]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, ktEraseCall(base))
			}
		}
		for _, mm := range ktFunRE.FindAllStringSubmatchIndex(body, -1) {
			fn := p.buildFun(body, mm)
			fn.Attrs.Static = true
			cls.Methods = append(cls.Methods, fn)
		}
		added = append(added, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return added
}

func (p *KotlinParser) buildFun(src string, match []int) uir.Function {
	body, end, ok := matchBraces(src, match[1]-1)
	if !ok {
		end = match[1]
	}
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       src[match[4]:match[5]],
		Parameters: ktParams(src[match[6]:match[7]]),
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.Kotlin,
		SourceCode: strings.TrimSpace(src[match[0]:end]),
		Attrs: uir.Attributes{
			Async:       match[2] >= 0,
			Visibility:  uir.Public,
			Exported:    true,
			ControlFlow: scanControlFlow(body, ktFlowPatterns),
		},
	}
	if match[8] >= 0 {
		fn.ReturnType = ktType(src[match[8]:match[9]])
	}
	return fn
}

// ktParams parses a kotlin parameter list: val/var and vararg modifiers are
// stripped, `name: Type = default` is the canonical shape.
func ktParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "val ")
		part = strings.TrimPrefix(part, "var ")
		if part == "" {
			continue
		}
		variadic := strings.HasPrefix(part, "vararg ")
		part = strings.TrimPrefix(part, "vararg ")
		colon := strings.IndexByte(part, ':')
		if colon < 0 {
			params = append(params, uir.Parameter{Name: part, Type: uir.Sig(uir.Any)})
			continue
		}
		name := strings.TrimSpace(part[:colon])
		rest := part[colon+1:]
		defaultValue := ""
		if eq := strings.IndexByte(rest, '='); eq >= 0 {
			defaultValue = strings.TrimSpace(rest[eq+1:])
			rest = rest[:eq]
		}
		sig := ktType(rest)
		if variadic {
			sig = uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{sig}}
		}
		params = append(params, uir.NewParameter(name, sig, defaultValue))
	}
	return params
}

func ktEraseCall(base string) string {
	base = strings.TrimSpace(base)
	if paren := strings.IndexByte(base, '('); paren >= 0 {
		base = base[:paren]
	}
	return base
}

// ktType maps a kotlin type expression to a TypeSignature.
func ktType(t string) uir.TypeSignature {
	t = strings.TrimSpace(t)
	nullable := strings.HasSuffix(t, "?")
	t = strings.TrimSuffix(t, "?")
	if open := strings.IndexByte(t, '<'); open >= 0 && strings.HasSuffix(t, ">") {
		base := t[:open]
		inner := t[open+1 : len(t)-1]
		switch base {
		case "List", "MutableList", "Set", "MutableSet", "Array":
			return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{ktType(inner)}, Nullable: nullable}
		case "Map", "MutableMap", "HashMap":
			return uir.TypeSignature{Base: uir.Object, Nullable: nullable}
		default:
			return uir.TypeSignature{Base: uir.Object, Nullable: nullable}
		}
	}
	var base uir.DataType
	switch t {
	case "Unit", "Nothing":
		base = uir.Void
	case "Boolean":
		base = uir.Boolean
	case "Byte", "Short", "Int", "Long":
		base = uir.Integer
	case "Float", "Double":
		base = uir.Float
	case "Char", "String":
		base = uir.String
	case "Any":
		base = uir.Any
	default:
		base = uir.Object
	}
	return uir.TypeSignature{Base: base, Nullable: nullable}
}

func ktInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case ktIntLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case ktFloatLit.MatchString(v):
		return uir.Sig(uir.Float)
	case strings.HasPrefix(v, "listOf(") || strings.HasPrefix(v, "arrayOf("):
		return uir.Sig(uir.Array)
	case strings.HasPrefix(v, "mapOf(") || strings.HasPrefix(v, "mutableMapOf("):
		return uir.Sig(uir.Object)
	default:
		return uir.Infer(v, lang.Kotlin)
	}
}
