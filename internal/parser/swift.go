package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// SwiftParser is the pattern scanner for swift sources. Extension blocks
// fold their methods into the type they extend when it was declared in the
// same file.
type SwiftParser struct{}

var (
	swiftImportRE   = regexp.MustCompile(`(?m)^import\s+(\w+)`)
	swiftProtocolRE = regexp.MustCompile(`protocol\s+(\w+)(?:\s*:\s*([^{]+))?\s*\{`)
	swiftClassRE    = regexp.MustCompile(`(?:(?:public|open|internal|final)\s+)*(class|struct)\s+(\w+)(?:<[^>]+>)?(?:\s*:\s*([^{]+))?\s*\{`)
	swiftEnumRE     = regexp.MustCompile(`(?:(?:public|internal)\s+)?enum\s+(\w+)(?:\s*:\s*([^{]+))?\s*\{`)
	swiftExtRE      = regexp.MustCompile(`extension\s+(\w+)(?:\s*:\s*([^{]+))?\s*\{`)
	swiftFuncRE     = regexp.MustCompile(`(?:@\w+\s+)*(?:(?:public|private|fileprivate|internal|open)(?:\(set\))?\s+)?(?:(static|class)\s+)?(?:(?:override|mutating|final)\s+)*func\s+(\w+)\s*(?:<[^>]+>)?\s*\(([^)]*)\)(?:\s*(async)\s*)?(?:\s*throws\s*)?(?:\s*->\s*([^{\n]+))?\s*\{`)
	swiftInitRE     = regexp.MustCompile(`(?:(?:public|private|internal|required|convenience)\s+)*init\s*(?:\?)?\s*\(([^)]*)\)\s*\{`)
	swiftCaseRE     = regexp.MustCompile(`(?m)^\s*case\s+([\w,\s]+)`)
	swiftPropRE     = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|fileprivate|internal|open)(?:\(set\))?\s+)?(?:(static)\s+)?(let|var)\s+(\w+)\s*(?::\s*([^=\n{]+))?(?:\s*=\s*([^\n{]+))?$`)
	swiftFloatLit   = regexp.MustCompile(`^-?\d+\.\d+$`)
	swiftIntLit     = regexp.MustCompile(`^-?\d+$`)
)

var swiftFlowPatterns = []flowPattern{
	{regexp.MustCompile(`(?m)\bif\s+[^{\n]+\{`), uir.FlowIf},
	{regexp.MustCompile(`(?m)\bguard\s+[^{\n]+\{`), uir.FlowIf},
	{regexp.MustCompile(`(?m)\bfor\s+[^{\n]+\{`), uir.FlowFor},
	{regexp.MustCompile(`(?m)\bwhile\s+[^{\n]+\{`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)\bswitch\s+[^{\n]+\{`), uir.FlowSwitch},
	{regexp.MustCompile(`(?m)\bdo\s*\{`), uir.FlowTry},
}

func (p *SwiftParser) Language() lang.Language { return lang.Swift }

func (p *SwiftParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Swift, filename)

	for _, imp := range swiftImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, "import "+imp[1])
	}

	spans := p.parseProtocols(source, m)
	spans = append(spans, p.parseEnums(source, spans, m)...)
	spans = append(spans, p.parseClasses(source, spans, m)...)
	spans = append(spans, p.parseExtensions(source, m)...)

	for _, match := range swiftFuncRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		m.Functions = append(m.Functions, p.buildFunc(source, match))
	}

	for _, match := range swiftPropRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		value := ""
		if match[10] >= 0 {
			value = strings.TrimSpace(source[match[10]:match[11]])
		}
		sig := swiftInfer(value)
		if match[8] >= 0 {
			sig = swiftType(source[match[8]:match[9]])
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       source[match[6]:match[7]],
			Type:       sig,
			Value:      value,
			IsConstant: source[match[4]:match[5]] == "let",
			IsGlobal:   true,
			SourceLang: lang.Swift,
		})
	}

	resolveDependencies(m)
	return m
}

func (p *SwiftParser) parseProtocols(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range swiftProtocolRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Swift,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindInterface},
		}
		if match[4] >= 0 {
			for _, base := range strings.Split(source[match[4]:match[5]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(base))
			}
		}
		// Protocol requirements are funcs without bodies; reuse the func
		// scanner on a body with braces appended per requirement line.
		for _, line := range strings.Split(body, "\n") {
			sig := swiftReqRE.FindStringSubmatch(line)
			if sig == nil {
				continue
			}
			ret := uir.Sig(uir.Void)
			if sig[3] != "" {
				ret = swiftType(sig[3])
			}
			cls.Methods = append(cls.Methods, uir.Function{
				ID:         uir.NewID(),
				Name:       sig[1],
				Parameters: swiftParams(sig[2]),
				ReturnType: ret,
				SourceLang: lang.Swift,
				Attrs:      uir.Attributes{Visibility: uir.Public},
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

var swiftReqRE = regexp.MustCompile(`^\s*(?:static\s+|mutating\s+)*func\s+(\w+)\s*\(([^)]*)\)(?:\s*(?:async\s*)?(?:throws\s*)?->\s*([^{\n]+))?\s*$`)

func (p *SwiftParser) parseEnums(source string, spans [][2]int, m *uir.Module) [][2]int {
	var added [][2]int
	for _, match := range swiftEnumRE.FindAllStringSubmatchIndex(source, -1) {
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
			SourceLang: lang.Swift,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindEnum},
		}
		for _, cc := range swiftCaseRE.FindAllStringSubmatch(body, -1) {
			for _, name := range strings.Split(cc[1], ",") {
				name = strings.TrimSpace(name)
				if name != "" {
					cls.Properties = append(cls.Properties, uir.Parameter{
						Name: name, Type: uir.Sig(uir.Integer),
					})
				}
			}
		}
		for _, mm := range swiftFuncRE.FindAllStringSubmatchIndex(body, -1) {
			cls.Methods = append(cls.Methods, p.buildFunc(body, mm))
		}
		added = append(added, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return added
}

func (p *SwiftParser) parseClasses(source string, spans [][2]int, m *uir.Module) [][2]int {
	var added [][2]int
	for _, match := range swiftClassRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		kind := uir.KindClass
		if source[match[2]:match[3]] == "struct" {
			kind = uir.KindStruct
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			SourceLang: lang.Swift,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: kind},
		}
		if match[6] >= 0 {
			for _, base := range strings.Split(source[match[6]:match[7]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(base))
			}
		}
		p.parseMembers(body, &cls)
		added = append(added, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return added
}

// parseExtensions merges extension methods into an already declared type, or
// records the extension as its own class when the target is foreign.
func (p *SwiftParser) parseExtensions(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	byName := make(map[string]int)
	for i, cls := range m.Classes {
		byName[cls.Name] = i
	}
	for _, match := range swiftExtRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		target := source[match[2]:match[3]]
		if idx, known := byName[target]; known {
			for _, mm := range swiftFuncRE.FindAllStringSubmatchIndex(body, -1) {
				m.Classes[idx].Methods = append(m.Classes[idx].Methods, p.buildFunc(body, mm))
			}
		} else {
			cls := uir.Class{
				ID:         uir.NewID(),
				Name:       target,
				SourceLang: lang.Swift,
				SourceCode: source[match[0]:end],
				Attrs:      uir.Attributes{Kind: uir.KindClass},
			}
			for _, mm := range swiftFuncRE.FindAllStringSubmatchIndex(body, -1) {
				cls.Methods = append(cls.Methods, p.buildFunc(body, mm))
			}
			byName[target] = len(m.Classes)
			m.Classes = append(m.Classes, cls)
		}
		spans = append(spans, [2]int{match[0], end})
	}
	return spans
}

func (p *SwiftParser) parseMembers(body string, cls *uir.Class) {
	for _, match := range swiftInitRE.FindAllStringSubmatchIndex(body, -1) {
		initBody, end, ok := matchBraces(body, match[1]-1)
		if !ok {
			end = match[1]
		}
		params := swiftParams(body[match[2]:match[3]])
		cls.Properties = append(cls.Properties, params...)
		cls.Methods = append(cls.Methods, uir.Function{
			ID:         uir.NewID(),
			Name:       "init",
			Parameters: params,
			ReturnType: uir.Sig(uir.Void),
			SourceLang: lang.Swift,
			SourceCode: strings.TrimSpace(body[match[0]:end]),
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				ControlFlow: scanControlFlow(initBody, swiftFlowPatterns),
			},
		})
	}
	methodSpans := [][2]int{}
	for _, match := range swiftFuncRE.FindAllStringSubmatchIndex(body, -1) {
		fn := p.buildFunc(body, match)
		_, end, ok := matchBraces(body, match[1]-1)
		if !ok {
			end = match[1]
		}
		methodSpans = append(methodSpans, [2]int{match[0], end})
		cls.Methods = append(cls.Methods, fn)
	}
	for _, match := range swiftPropRE.FindAllStringSubmatchIndex(body, -1) {
		if insideSpans(match[0], methodSpans) {
			continue
		}
		value := ""
		if match[10] >= 0 {
			value = strings.TrimSpace(body[match[10]:match[11]])
		}
		sig := swiftInfer(value)
		if match[8] >= 0 {
			sig = swiftType(body[match[8]:match[9]])
		}
		cls.Properties = append(cls.Properties, uir.Parameter{
			Name: body[match[6]:match[7]], Type: sig, Default: value,
		})
	}
}

func (p *SwiftParser) buildFunc(src string, match []int) uir.Function {
	body, end, ok := matchBraces(src, match[1]-1)
	if !ok {
		end = match[1]
	}
	fn := uir.Function{
		ID:         uir.NewID(),
		Name:       src[match[4]:match[5]],
		Parameters: swiftParams(src[match[6]:match[7]]),
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.Swift,
		SourceCode: strings.TrimSpace(src[match[0]:end]),
		Attrs: uir.Attributes{
			Static:      match[2] >= 0,
			Async:       match[8] >= 0,
			Visibility:  uir.Public,
			Exported:    true,
			ControlFlow: scanControlFlow(body, swiftFlowPatterns),
		},
	}
	if strings.Contains(firstLine(src[match[0]:end]), "private ") {
		fn.Attrs.Visibility = uir.Private
		fn.Attrs.Exported = false
	}
	if match[10] >= 0 {
		fn.ReturnType = swiftType(src[match[10]:match[11]])
	}
	return fn
}

// swiftParams parses a swift parameter list. Arguments carry an optional
// external label; the internal name wins.
func swiftParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.IndexByte(part, ':')
		if colon < 0 {
			continue
		}
		names := strings.Fields(part[:colon])
		if len(names) == 0 {
			continue
		}
		name := names[len(names)-1]
		rest := part[colon+1:]
		defaultValue := ""
		if eq := strings.IndexByte(rest, '='); eq >= 0 {
			defaultValue = strings.TrimSpace(rest[eq+1:])
			rest = rest[:eq]
		}
		params = append(params, uir.NewParameter(name, swiftType(rest), defaultValue))
	}
	return params
}

// swiftType maps a swift type expression to a TypeSignature. Optionals
// (`T?`, `T!`) become nullable.
func swiftType(t string) uir.TypeSignature {
	t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "inout "))
	nullable := strings.HasSuffix(t, "?") || strings.HasSuffix(t, "!")
	t = strings.TrimRight(t, "?!")
	if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
		inner := t[1 : len(t)-1]
		if strings.Contains(inner, ":") {
			return uir.TypeSignature{Base: uir.Object, Nullable: nullable}
		}
		return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{swiftType(inner)}, Nullable: nullable}
	}
	if strings.Contains(t, "->") {
		return uir.TypeSignature{Base: uir.Func, Nullable: nullable}
	}
	if open := strings.IndexByte(t, '<'); open >= 0 && strings.HasSuffix(t, ">") {
		switch t[:open] {
		case "Array", "Set":
			return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{swiftType(t[open+1 : len(t)-1])}, Nullable: nullable}
		case "Dictionary":
			return uir.TypeSignature{Base: uir.Object, Nullable: nullable}
		case "Optional":
			sig := swiftType(t[open+1 : len(t)-1])
			sig.Nullable = true
			return sig
		default:
			return uir.TypeSignature{Base: uir.Object, Nullable: nullable}
		}
	}
	var base uir.DataType
	switch t {
	case "Void", "Never", "()":
		base = uir.Void
	case "Bool":
		base = uir.Boolean
	case "Int", "Int8", "Int16", "Int32", "Int64", "UInt", "UInt8", "UInt16", "UInt32", "UInt64":
		base = uir.Integer
	case "Float", "Double", "CGFloat":
		base = uir.Float
	case "String", "Character", "Substring":
		base = uir.String
	case "Any", "AnyObject":
		base = uir.Any
	default:
		base = uir.Object
	}
	return uir.TypeSignature{Base: base, Nullable: nullable}
}

func swiftInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return uir.Sig(uir.Any)
	case swiftIntLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case swiftFloatLit.MatchString(v):
		return uir.Sig(uir.Float)
	case v == "nil":
		return uir.TypeSignature{Base: uir.Any, Nullable: true}
	default:
		return uir.Infer(v, lang.Swift)
	}
}
