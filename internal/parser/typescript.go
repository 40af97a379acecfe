package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// TypeScriptParser is the pattern scanner for typescript sources, layered on
// the javascript scanner plus declared types, interfaces and enums. It is
// also the fallback behind the tree-sitter grammar.
type TypeScriptParser struct{}

var (
	tsFuncRE      = regexp.MustCompile(`(?:export\s+)?(async\s+)?function\s+(\w+)\s*\(([^)]*)\)\s*(?::\s*([^\{\n]+))?\{`)
	tsInterfaceRE = regexp.MustCompile(`(?:export\s+)?interface\s+(\w+)(?:\s+extends\s+([\w,\s.]+))?\s*\{`)
	tsEnumRE      = regexp.MustCompile(`(?:export\s+)?enum\s+(\w+)\s*\{`)
	tsClassRE     = regexp.MustCompile(`(?:export\s+)?(?:abstract\s+)?class\s+(\w+)(?:\s+extends\s+([\w.]+))?(?:\s+implements\s+([\w,\s.]+))?\s*\{`)
	tsMethodRE    = regexp.MustCompile(`(?m)^\s*(?:(public|private|protected)\s+)?(?:(static)\s+)?(?:(async)\s+)?(\w+)\s*\(([^)]*)\)\s*(?::\s*([^\{\n]+))?\{`)
	tsPropertyRE  = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|readonly)\s+)*(\w+)\??\s*:\s*([^;=\n]+)(?:=\s*([^;\n]+))?;`)
	tsMemberSigRE = regexp.MustCompile(`(?m)^\s*(\w+)\??\s*\(([^)]*)\)\s*:\s*([^;\n]+);`)
)

func (p *TypeScriptParser) Language() lang.Language { return lang.TypeScript }

func (p *TypeScriptParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.TypeScript, filename)

	for _, imp := range jsES6ImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(imp[1]))
	}
	for _, imp := range jsCJSImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(imp[1]))
	}

	spans := p.parseInterfaces(source, m)
	spans = append(spans, p.parseEnums(source, m)...)
	spans = append(spans, p.parseClasses(source, m)...)

	for _, match := range tsFuncRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			end = match[1]
		}
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			Parameters: tsParams(source[match[6]:match[7]]),
			ReturnType: uir.Sig(uir.Void),
			SourceLang: lang.TypeScript,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Async:       match[2] >= 0,
				Visibility:  uir.Public,
				Exported:    true,
				ControlFlow: scanControlFlow(body, braceFlowPatterns),
			},
		}
		if match[8] >= 0 {
			fn.ReturnType = tsType(strings.TrimSpace(source[match[8]:match[9]]))
		} else {
			fn.ReturnType = jsInferReturn(body)
		}
		m.Functions = append(m.Functions, fn)
	}

	p.parseVariables(source, spans, m)
	resolveDependencies(m)
	return m
}

func (p *TypeScriptParser) parseInterfaces(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range tsInterfaceRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.TypeScript,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindInterface},
		}
		if match[4] >= 0 {
			for _, base := range strings.Split(source[match[4]:match[5]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(base))
			}
		}
		for _, prop := range tsPropertyRE.FindAllStringSubmatch(body, -1) {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: prop[1], Type: tsType(strings.TrimSpace(prop[2])),
			})
		}
		for _, sig := range tsMemberSigRE.FindAllStringSubmatch(body, -1) {
			cls.Methods = append(cls.Methods, uir.Function{
				ID:         uir.NewID(),
				Name:       sig[1],
				Parameters: tsParams(sig[2]),
				ReturnType: tsType(strings.TrimSpace(sig[3])),
				SourceLang: lang.TypeScript,
				Attrs:      uir.Attributes{Visibility: uir.Public},
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *TypeScriptParser) parseEnums(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range tsEnumRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.TypeScript,
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

func (p *TypeScriptParser) parseClasses(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range tsClassRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.TypeScript,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if match[4] >= 0 {
			cls.BaseClasses = append(cls.BaseClasses, source[match[4]:match[5]])
		}
		if match[6] >= 0 {
			for _, iface := range strings.Split(source[match[6]:match[7]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(iface))
			}
		}
		for _, prop := range tsPropertyRE.FindAllStringSubmatch(body, -1) {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: prop[1], Type: tsType(strings.TrimSpace(prop[2])),
			})
		}
		for _, mm := range tsMethodRE.FindAllStringSubmatchIndex(body, -1) {
			name := body[mm[8]:mm[9]]
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
				Parameters: tsParams(body[mm[10]:mm[11]]),
				ReturnType: uir.Sig(uir.Void),
				SourceLang: lang.TypeScript,
				SourceCode: strings.TrimSpace(body[mm[0]:mEnd]),
				Attrs: uir.Attributes{
					Async:       mm[6] >= 0,
					Static:      mm[4] >= 0,
					Visibility:  tsVisibility(body, mm),
					ControlFlow: scanControlFlow(methodBody, braceFlowPatterns),
				},
			}
			if mm[12] >= 0 {
				fn.ReturnType = tsType(strings.TrimSpace(body[mm[12]:mm[13]]))
			}
			if name == "constructor" {
				// Parameter properties (visibility-modified constructor args)
				// already appear in tsParams output; promote them.
				for _, param := range fn.Parameters {
					cls.Properties = append(cls.Properties, param)
				}
			}
			cls.Methods = append(cls.Methods, fn)
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func tsVisibility(body string, mm []int) uir.Visibility {
	if mm[2] >= 0 && body[mm[2]:mm[3]] == "private" {
		return uir.Private
	}
	return uir.Public
}

func (p *TypeScriptParser) parseVariables(source string, spans [][2]int, m *uir.Module) {
	for _, match := range jsVariableRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		value := strings.TrimSpace(source[match[6]:match[7]])
		if strings.Contains(value, "=>") || strings.Contains(value, "require(") {
			continue
		}
		keyword := source[match[2]:match[3]]
		name := source[match[4]:match[5]]
		sig := uir.Infer(value, lang.TypeScript)
		// Strip a declared type from the name side: `const x: number = 1`
		// leaves `x: number` unmatched by the shared regex, so names with a
		// colon carry their annotation here.
		if colon := strings.IndexByte(name, ':'); colon >= 0 {
			sig = tsType(strings.TrimSpace(name[colon+1:]))
			name = strings.TrimSpace(name[:colon])
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       name,
			Type:       sig,
			Value:      value,
			IsConstant: keyword == "const",
			IsGlobal:   true,
			SourceLang: lang.TypeScript,
		})
	}
}

// tsParams parses a typed parameter list: name?: type = default, with
// constructor visibility modifiers tolerated.
func tsParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, mod := range []string{"public ", "private ", "protected ", "readonly "} {
			part = strings.TrimPrefix(part, mod)
		}
		if strings.HasPrefix(part, "...") {
			name := strings.TrimPrefix(part, "...")
			if colon := strings.IndexByte(name, ':'); colon >= 0 {
				name = strings.TrimSpace(name[:colon])
			}
			params = append(params, uir.Parameter{Name: name, Type: uir.Sig(uir.Array)})
			continue
		}
		name := part
		defaultValue := ""
		if eq := strings.IndexByte(part, '='); eq >= 0 {
			defaultValue = strings.TrimSpace(part[eq+1:])
			name = strings.TrimSpace(part[:eq])
		}
		sig := uir.Sig(uir.Any)
		nullable := false
		if colon := strings.IndexByte(name, ':'); colon >= 0 {
			sig = tsType(strings.TrimSpace(name[colon+1:]))
			name = strings.TrimSpace(name[:colon])
		}
		if strings.HasSuffix(name, "?") {
			name = strings.TrimSuffix(name, "?")
			nullable = true
		}
		sig.Nullable = sig.Nullable || nullable
		params = append(params, uir.NewParameter(name, sig, defaultValue))
	}
	return params
}

// tsType maps a typescript type expression to a TypeSignature.
func tsType(t string) uir.TypeSignature {
	t = strings.TrimSpace(t)
	if strings.HasSuffix(t, "[]") {
		return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{tsType(strings.TrimSuffix(t, "[]"))}}
	}
	if open := strings.IndexByte(t, '<'); open >= 0 && strings.HasSuffix(t, ">") {
		outer := tsBaseType(t[:open])
		var generics []uir.TypeSignature
		for _, inner := range splitTopLevel(t[open+1:len(t)-1], ',') {
			generics = append(generics, tsType(inner))
		}
		return uir.TypeSignature{Base: outer, Generics: generics}
	}
	if strings.Contains(t, "|") {
		parts := strings.Split(t, "|")
		nullable := false
		var core []string
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "null" || p == "undefined" {
				nullable = true
			} else {
				core = append(core, p)
			}
		}
		if len(core) == 1 {
			sig := tsType(core[0])
			sig.Nullable = nullable
			return sig
		}
		return uir.TypeSignature{Base: uir.Any, Nullable: nullable}
	}
	return uir.Sig(tsBaseType(t))
}

func tsBaseType(name string) uir.DataType {
	switch strings.TrimSpace(name) {
	case "void":
		return uir.Void
	case "boolean":
		return uir.Boolean
	case "number":
		return uir.Float
	case "bigint":
		return uir.Integer
	case "string":
		return uir.String
	case "Array", "ReadonlyArray", "Set":
		return uir.Array
	case "object", "Record", "Map":
		return uir.Object
	case "Function":
		return uir.Func
	case "any":
		return uir.Any
	case "unknown", "never":
		return uir.Unknown
	default:
		return uir.Object
	}
}
