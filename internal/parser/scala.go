package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// ScalaParser is the pattern scanner for scala sources.
type ScalaParser struct{}

var (
	scPackageRE = regexp.MustCompile(`(?m)^package\s+([\w.]+)`)
	scImportRE  = regexp.MustCompile(`(?m)^import\s+([\w.{},\s=>]+)`)
	scTraitRE   = regexp.MustCompile(`(?:sealed\s+)?trait\s+(\w+)(?:\[[^\]]+\])?(?:\s+extends\s+([^{\n]+))?\s*\{`)
	scClassRE   = regexp.MustCompile(`(?:(?:abstract|final|sealed)\s+)*(case\s+)?class\s+(\w+)(?:\[[^\]]+\])?(?:\s*\(([^)]*)\))?(?:\s+extends\s+([^{\n]+))?\s*(\{)?`)
	scObjectRE  = regexp.MustCompile(`(?:case\s+)?object\s+(\w+)(?:\s+extends\s+([^{\n]+))?\s*\{`)
	scDefRE     = regexp.MustCompile(`(?:(?:override|private|protected|final|implicit)\s+)*def\s+(\w+)\s*(?:\[[^\]]+\])?\s*(?:\(([^)]*)\))?(?:\s*:\s*([^={\n]+))?\s*(?:=\s*)?(\{)?`)
	scValVarRE  = regexp.MustCompile(`(?m)^\s*(?:(?:private|protected|lazy|final|implicit)\s+)*(val|var)\s+(\w+)(?:\s*:\s*([^=\n]+))?\s*=\s*([^\n]+)$`)
	scIntLit    = regexp.MustCompile(`^-?\d+[Ll]?$`)
	scFloatLit  = regexp.MustCompile(`^-?\d+\.\d+[fFdD]?$`)
)

var scFlowPatterns = []flowPattern{
	{regexp.MustCompile(`\bif\s*\([^)]+\)`), uir.FlowIf},
	{regexp.MustCompile(`\bmatch\s*\{`), uir.FlowSwitch},
	{regexp.MustCompile(`\bfor\s*[({]`), uir.FlowFor},
	{regexp.MustCompile(`\bwhile\s*\([^)]+\)`), uir.FlowWhile},
	{regexp.MustCompile(`\btry\s*\{`), uir.FlowTry},
}

func (p *ScalaParser) Language() lang.Language { return lang.Scala }

func (p *ScalaParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Scala, filename)

	if pkg := scPackageRE.FindStringSubmatch(source); pkg != nil {
		m.Imports = append(m.Imports, "package "+pkg[1])
	}
	for _, imp := range scImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, "import "+strings.TrimSpace(imp[1]))
	}

	spans := p.parseTraits(source, m)
	spans = append(spans, p.parseClasses(source, spans, m)...)
	spans = append(spans, p.parseObjects(source, spans, m)...)

	for _, match := range scDefRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		m.Functions = append(m.Functions, p.buildDef(source, match))
	}

	for _, match := range scValVarRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		value := strings.TrimSpace(source[match[8]:match[9]])
		sig := scInfer(value)
		if match[6] >= 0 {
			sig = scType(source[match[6]:match[7]])
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			Type:       sig,
			Value:      value,
			IsConstant: source[match[2]:match[3]] == "val",
			IsGlobal:   true,
			SourceLang: lang.Scala,
		})
	}

	resolveDependencies(m)
	return m
}

func (p *ScalaParser) parseTraits(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range scTraitRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Scala,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindTrait},
		}
		if match[4] >= 0 {
			cls.BaseClasses = scBases(source[match[4]:match[5]])
		}
		for _, mm := range scDefRE.FindAllStringSubmatchIndex(body, -1) {
			cls.Methods = append(cls.Methods, p.buildDef(body, mm))
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *ScalaParser) parseClasses(source string, spans [][2]int, m *uir.Module) [][2]int {
	var added [][2]int
	for _, match := range scClassRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		kind := uir.KindClass
		if match[2] >= 0 {
			kind = uir.KindDataClass
		}
		end := match[1]
		body := ""
		// Case classes may have no body at all.
		if match[10] >= 0 {
			b, e, ok := matchBraces(source, match[1]-1)
			if !ok {
				continue
			}
			body, end = b, e
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			SourceLang: lang.Scala,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: kind},
		}
		if match[8] >= 0 {
			cls.BaseClasses = scBases(source[match[8]:match[9]])
		}
		if match[6] >= 0 {
			params := scParams(source[match[6]:match[7]])
			cls.Properties = append(cls.Properties, params...)
			cls.Methods = append(cls.Methods, uir.Function{
				ID:         uir.NewID(),
				Name:       cls.Name,
				Parameters: params,
				ReturnType: uir.Sig(uir.Void),
				SourceLang: lang.Scala,
				Attrs:      uir.Attributes{Visibility: uir.Public},
			})
		}
		for _, mm := range scDefRE.FindAllStringSubmatchIndex(body, -1) {
			cls.Methods = append(cls.Methods, p.buildDef(body, mm))
		}
		added = append(added, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return added
}

func (p *ScalaParser) parseObjects(source string, spans [][2]int, m *uir.Module) [][2]int {
	var added [][2]int
	for _, match := range scObjectRE.FindAllStringSubmatchIndex(source, -1) {
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
			SourceLang: lang.Scala,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindModule},
		}
		if match[4] >= 0 {
			cls.BaseClasses = scBases(source[match[4]:match[5]])
		}
		for _, mm := range scDefRE.FindAllStringSubmatchIndex(body, -1) {
			fn := p.buildDef(body, mm)
			fn.Attrs.Static = true
			cls.Methods = append(cls.Methods, fn)
		}
		added = append(added, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return added
}

func (p *ScalaParser) buildDef(src string, match []int) uir.Function {
	body := ""
	end := match[1]
	if match[8] >= 0 {
		if b, e, ok := matchBraces(src, match[1]-1); ok {
			body, end = b, e
		}
	}
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       src[match[2]:match[3]],
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.Scala,
		SourceCode: strings.TrimSpace(src[match[0]:end]),
		Attrs: uir.Attributes{
			Visibility:  uir.Public,
			Exported:    true,
			ControlFlow: scanControlFlow(body, scFlowPatterns),
		},
	}
	if strings.Contains(firstLine(src[match[0]:end]), "private ") {
		fn.Attrs.Visibility = uir.Private
		fn.Attrs.Exported = false
	}
	if match[4] >= 0 {
		fn.Parameters = scParams(src[match[4]:match[5]])
	}
	if match[6] >= 0 {
		fn.ReturnType = scType(src[match[6]:match[7]])
	}
	return fn
}

// scParams parses a scala parameter list; val/var and implicit markers are
// stripped from primary-constructor params.
func scParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		for _, prefix := range []string{"implicit ", "val ", "var ", "override "} {
			part = strings.TrimPrefix(part, prefix)
		}
		if part == "" {
			continue
		}
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
		params = append(params, uir.NewParameter(name, scType(rest), defaultValue))
	}
	return params
}

func scBases(clause string) []string {
	var bases []string
	for _, base := range strings.Split(clause, " with ") {
		base = strings.TrimSpace(base)
		if paren := strings.IndexByte(base, '('); paren >= 0 {
			base = base[:paren]
		}
		if base != "" {
			bases = append(bases, base)
		}
	}
	return bases
}

// scType maps a scala type expression to a TypeSignature. Option[T] becomes
// nullable T.
func scType(t string) uir.TypeSignature {
	t = strings.TrimSpace(t)
	if open := strings.IndexByte(t, '['); open >= 0 && strings.HasSuffix(t, "]") {
		base := t[:open]
		inner := t[open+1 : len(t)-1]
		switch base {
		case "Option":
			sig := scType(inner)
			sig.Nullable = true
			return sig
		case "List", "Seq", "Vector", "Array", "Set", "Iterable":
			return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{scType(inner)}}
		case "Map":
			return uir.Sig(uir.Object)
		case "Future", "Try", "Either":
			parts := splitTopLevel(inner, ',')
			return scType(parts[len(parts)-1])
		default:
			return uir.Sig(uir.Object)
		}
	}
	if strings.Contains(t, "=>") {
		return uir.Sig(uir.Func)
	}
	switch t {
	case "Unit", "Nothing":
		return uir.Sig(uir.Void)
	case "Boolean":
		return uir.Sig(uir.Boolean)
	case "Byte", "Short", "Int", "Long", "BigInt":
		return uir.Sig(uir.Integer)
	case "Float", "Double", "BigDecimal":
		return uir.Sig(uir.Float)
	case "Char", "String":
		return uir.Sig(uir.String)
	case "Any", "AnyRef":
		return uir.Sig(uir.Any)
	default:
		return uir.Sig(uir.Object)
	}
}

func scInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case scIntLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case scFloatLit.MatchString(v):
		return uir.Sig(uir.Float)
	case strings.HasPrefix(v, "List(") || strings.HasPrefix(v, "Seq(") || strings.HasPrefix(v, "Array("):
		return uir.Sig(uir.Array)
	case strings.HasPrefix(v, "Map("):
		return uir.Sig(uir.Object)
	case v == "None":
		return uir.TypeSignature{Base: uir.Any, Nullable: true}
	default:
		return uir.Infer(v, lang.Scala)
	}
}
