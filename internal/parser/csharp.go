package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// CSharpParser is the pattern scanner for c# sources.
type CSharpParser struct{}

var (
	csUsingRE     = regexp.MustCompile(`(?m)^\s*(using\s+(?:static\s+)?[\w.=\s]+?)\s*;`)
	csNamespaceRE = regexp.MustCompile(`namespace\s+([\w.]+)`)
	csInterfaceRE = regexp.MustCompile(`(?:public\s+)?interface\s+(\w+)(?:<[^>]+>)?(?:\s*:\s*([^{]+))?\s*\{`)
	csClassRE     = regexp.MustCompile(`(?:(?:public|internal|private|protected)\s+)?(?:(?:abstract|sealed|static|partial)\s+)*class\s+(\w+)(?:<[^>]+>)?(?:\s*:\s*([^{]+))?\s*\{`)
	csStructRE    = regexp.MustCompile(`(?:public\s+)?struct\s+(\w+)(?:<[^>]+>)?\s*\{`)
	csEnumRE      = regexp.MustCompile(`(?:public\s+)?enum\s+(\w+)(?:\s*:\s*(\w+))?\s*\{`)
	csMethodRE    = regexp.MustCompile(`(?m)^\s*(?:(public|private|protected|internal)\s+)?(?:(static)\s+)?(?:(?:virtual|override|sealed|new)\s+)?(?:(async)\s+)?([\w<>\[\],.?]+)\s+(\w+)\s*\(([^)]*)\)\s*\{`)
	csIfaceSigRE  = regexp.MustCompile(`(?m)^\s*([\w<>\[\],.?]+)\s+(\w+)\s*\(([^)]*)\)\s*;`)
	csPropertyRE  = regexp.MustCompile(`(?:public|private|protected|internal)\s+(?:static\s+)?([\w<>\[\],.?]+)\s+(\w+)\s*\{\s*get`)
	csFieldRE     = regexp.MustCompile(`(?m)^\s*(?:public|private|protected|internal)\s+(?:readonly\s+)?(?:static\s+)?([\w<>\[\],.?]+)\s+(\w+)\s*(?:=\s*([^;]+))?;`)
	csIntLit      = regexp.MustCompile(`^-?\d+[lLuU]*$`)
	csFloatLit    = regexp.MustCompile(`^-?\d+\.\d+[fdmFDM]?$`)
)

func (p *CSharpParser) Language() lang.Language { return lang.CSharp }

func (p *CSharpParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.CSharp, filename)

	for _, use := range csUsingRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(use[1])+";")
	}
	if ns := csNamespaceRE.FindStringSubmatch(source); ns != nil {
		m.Imports = append(m.Imports, "namespace "+ns[1]+";")
	}

	spans := p.parseInterfaces(source, m)
	spans = append(spans, p.parseEnums(source, m)...)
	p.parseClasses(source, spans, m)
	p.parseStructs(source, spans, m)

	resolveDependencies(m)
	return m
}

func (p *CSharpParser) parseInterfaces(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range csInterfaceRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.CSharp,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindInterface},
		}
		if match[4] >= 0 {
			for _, base := range strings.Split(source[match[4]:match[5]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(base))
			}
		}
		for _, mm := range csIfaceSigRE.FindAllStringSubmatch(body, -1) {
			cls.Methods = append(cls.Methods, uir.Function{
				ID:         uir.NewID(),
				Name:       mm[2],
				Parameters: csParams(mm[3]),
				ReturnType: csType(mm[1]),
				SourceLang: lang.CSharp,
				Attrs:      uir.Attributes{Visibility: uir.Public},
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *CSharpParser) parseEnums(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range csEnumRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.CSharp,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindEnum},
		}
		for _, member := range splitTopLevel(body, ',') {
			name := strings.TrimSpace(member)
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name = strings.TrimSpace(name[:eq])
			}
			if name != "" {
				cls.Properties = append(cls.Properties, uir.Parameter{
					Name: name, Type: uir.Sig(uir.Integer),
				})
			}
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *CSharpParser) parseClasses(source string, spans [][2]int, m *uir.Module) {
	for _, match := range csClassRE.FindAllStringSubmatchIndex(source, -1) {
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
			SourceLang: lang.CSharp,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if match[4] >= 0 {
			for _, base := range strings.Split(source[match[4]:match[5]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(base))
			}
		}
		p.parseMembers(&cls, body)
		m.Classes = append(m.Classes, cls)
	}
}

func (p *CSharpParser) parseStructs(source string, spans [][2]int, m *uir.Module) {
	for _, match := range csStructRE.FindAllStringSubmatchIndex(source, -1) {
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
			SourceLang: lang.CSharp,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindStruct},
		}
		p.parseMembers(&cls, body)
		m.Classes = append(m.Classes, cls)
	}
}

func (p *CSharpParser) parseMembers(cls *uir.Class, body string) {
	for _, mm := range csMethodRE.FindAllStringSubmatchIndex(body, -1) {
		ret := body[mm[8]:mm[9]]
		name := body[mm[10]:mm[11]]
		if controlKeywords[name] {
			continue
		}
		methodBody, mEnd, ok := matchBraces(body, mm[1]-1)
		if !ok {
			mEnd = mm[1]
		}
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       name,
			Parameters: csParams(body[mm[12]:mm[13]]),
			ReturnType: csType(ret),
			SourceLang: lang.CSharp,
			SourceCode: strings.TrimSpace(body[mm[0]:mEnd]),
			Attrs: uir.Attributes{
				Static:      mm[4] >= 0,
				Async:       mm[6] >= 0,
				Visibility:  csVisibility(body, mm),
				ControlFlow: scanControlFlow(methodBody, braceFlowPatterns),
			},
		}
		// Constructors match with the visibility keyword in the return
		// slot: `public Calculator(...)` captures ret="public".
		if name == cls.Name {
			fn.ReturnType = uir.Sig(uir.Void)
			for _, param := range fn.Parameters {
				cls.Properties = append(cls.Properties, param)
			}
		}
		cls.Methods = append(cls.Methods, fn)
	}
	for _, prop := range csPropertyRE.FindAllStringSubmatch(body, -1) {
		cls.Properties = append(cls.Properties, uir.Parameter{
			Name: prop[2], Type: csType(prop[1]),
		})
	}
	for _, field := range csFieldRE.FindAllStringSubmatch(body, -1) {
		if strings.Contains(field[1], "(") {
			continue
		}
		cls.Properties = append(cls.Properties, uir.Parameter{
			Name: field[2], Type: csType(field[1]), Default: strings.TrimSpace(field[3]),
		})
	}
}

func csVisibility(body string, mm []int) uir.Visibility {
	if mm[2] >= 0 {
		switch body[mm[2]:mm[3]] {
		case "private":
			return uir.Private
		case "protected":
			return uir.Protected
		}
	}
	return uir.Public
}

// csParams parses a c# parameter list; ref/out/in/params modifiers are
// stripped, params arrays map to arrays.
func csParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, mod := range []string{"ref ", "out ", "in ", "params ", "this "} {
			part = strings.TrimPrefix(part, mod)
		}
		defaultValue := ""
		if eq := strings.IndexByte(part, '='); eq >= 0 {
			defaultValue = strings.TrimSpace(part[eq+1:])
			part = strings.TrimSpace(part[:eq])
		}
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		name := fields[len(fields)-1]
		sig := csType(strings.Join(fields[:len(fields)-1], " "))
		params = append(params, uir.NewParameter(name, sig, defaultValue))
	}
	return params
}

// csType maps a c# type expression to a TypeSignature.
func csType(t string) uir.TypeSignature {
	t = strings.TrimSpace(t)
	nullable := strings.HasSuffix(t, "?")
	t = strings.TrimSuffix(t, "?")
	if t == "" {
		return uir.Sig(uir.Void)
	}
	if strings.HasSuffix(t, "[]") {
		return uir.TypeSignature{
			Base:     uir.Array,
			Generics: []uir.TypeSignature{csType(strings.TrimSuffix(t, "[]"))},
			Nullable: nullable,
		}
	}
	if open := strings.IndexByte(t, '<'); open >= 0 && strings.HasSuffix(t, ">") {
		base := t[:open]
		inner := t[open+1 : len(t)-1]
		switch base {
		case "List", "IList", "IEnumerable", "ICollection", "HashSet":
			return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{csType(inner)}, Nullable: nullable}
		case "Dictionary", "IDictionary", "SortedDictionary":
			return uir.TypeSignature{Base: uir.Object, Nullable: nullable}
		case "Task", "ValueTask":
			return csType(inner)
		default:
			return uir.TypeSignature{Base: uir.Object, Nullable: nullable}
		}
	}
	var base uir.DataType
	switch t {
	case "void", "Task", "ValueTask":
		base = uir.Void
	case "bool", "Boolean":
		base = uir.Boolean
	case "byte", "sbyte", "short", "ushort", "int", "Int32", "uint", "long", "Int64", "ulong":
		base = uir.Integer
	case "float", "Single", "double", "Double", "decimal", "Decimal":
		base = uir.Float
	case "char", "string", "String":
		base = uir.String
	case "object", "dynamic", "var":
		base = uir.Any
	default:
		base = uir.Object
	}
	return uir.TypeSignature{Base: base, Nullable: nullable}
}

func csInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(v, `@"`) || strings.HasPrefix(v, `$"`):
		return uir.Sig(uir.String)
	case csIntLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case csFloatLit.MatchString(v):
		return uir.Sig(uir.Float)
	case strings.HasPrefix(v, "new "):
		return uir.Sig(uir.Object)
	default:
		return uir.Infer(v, lang.CSharp)
	}
}
