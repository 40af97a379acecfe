package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// JavaParser is the pattern scanner for java sources.
type JavaParser struct{}

var (
	javaPackageRE   = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)
	javaImportRE    = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.*]+)\s*;`)
	javaInterfaceRE = regexp.MustCompile(`(?:public\s+)?interface\s+(\w+)(?:<[^>]+>)?(?:\s+extends\s+([\w,\s<>.]+?))?\s*\{`)
	javaClassRE     = regexp.MustCompile(`(?:(?:public|private|protected)\s+)?(?:(?:abstract|final)\s+)?class\s+(\w+)(?:<[^>]+>)?(?:\s+extends\s+(\w+)(?:<[^>]+>)?)?(?:\s+implements\s+([\w,\s<>.]+?))?\s*\{`)
	javaEnumRE      = regexp.MustCompile(`(?:public\s+)?enum\s+(\w+)(?:\s+implements\s+([\w,\s.]+?))?\s*\{`)
	javaMethodRE    = regexp.MustCompile(`(?m)^\s*(?:(public|private|protected)\s+)?(?:(static)\s+)?(?:(?:abstract|final|synchronized)\s+)?([\w<>\[\],.\s]+?)\s+(\w+)\s*\(([^)]*)\)(?:\s+throws\s+[\w,\s.]+)?\s*[\{;]`)
	javaAbstractRE  = regexp.MustCompile(`(?:default\s+)?([\w<>\[\],.\s]+?)\s+(\w+)\s*\(([^)]*)\)(?:\s+throws\s+[\w,\s.]+)?\s*;`)
	javaFieldRE     = regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected)\s+)?(?:(?:static|final|transient|volatile)\s+)*([\w<>\[\],.]+)\s+(\w+)(?:\s*=\s*([^;]+))?;`)
	javaAnnotRE     = regexp.MustCompile(`@\w+(?:\([^)]*\))?\s*`)
	javaIntLit      = regexp.MustCompile(`^-?\d+[lL]?$`)
	javaFloatLit    = regexp.MustCompile(`^-?\d+\.\d*[fFdD]?$`)
)

func (p *JavaParser) Language() lang.Language { return lang.Java }

func (p *JavaParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Java, filename)

	if pkg := javaPackageRE.FindStringSubmatch(source); pkg != nil {
		m.Imports = append(m.Imports, "package "+pkg[1]+";")
	}
	for _, imp := range javaImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, "import "+imp[1]+";")
	}

	spans := p.parseInterfaces(source, m)
	spans = append(spans, p.parseEnums(source, m)...)
	p.parseClasses(source, spans, m)

	resolveDependencies(m)
	return m
}

func (p *JavaParser) parseInterfaces(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range javaInterfaceRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Java,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindInterface},
		}
		if match[4] >= 0 {
			for _, ext := range splitTopLevel(source[match[4]:match[5]], ',') {
				cls.BaseClasses = append(cls.BaseClasses, javaEraseGenerics(ext))
			}
		}
		for _, mm := range javaAbstractRE.FindAllStringSubmatch(body, -1) {
			ret := strings.TrimSpace(mm[1])
			if ret == "" || strings.Contains(ret, "(") {
				continue
			}
			cls.Methods = append(cls.Methods, uir.Function{
				ID:         uir.NewID(),
				Name:       mm[2],
				Parameters: javaParams(mm[3]),
				ReturnType: javaType(ret),
				SourceLang: lang.Java,
				Attrs:      uir.Attributes{Visibility: uir.Public},
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *JavaParser) parseEnums(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range javaEnumRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Java,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindEnum},
		}
		if match[4] >= 0 {
			for _, iface := range strings.Split(source[match[4]:match[5]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(iface))
			}
		}
		// Enum constants run up to the first semicolon (or the whole body).
		constants := body
		if semi := strings.IndexByte(body, ';'); semi >= 0 {
			constants = body[:semi]
		}
		for _, member := range splitTopLevel(constants, ',') {
			name := strings.TrimSpace(member)
			if paren := strings.IndexByte(name, '('); paren >= 0 {
				name = strings.TrimSpace(name[:paren])
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

func (p *JavaParser) parseClasses(source string, spans [][2]int, m *uir.Module) {
	for _, match := range javaClassRE.FindAllStringSubmatchIndex(source, -1) {
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
			SourceLang: lang.Java,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if match[4] >= 0 {
			cls.BaseClasses = append(cls.BaseClasses, source[match[4]:match[5]])
		}
		if match[6] >= 0 {
			for _, iface := range splitTopLevel(source[match[6]:match[7]], ',') {
				cls.BaseClasses = append(cls.BaseClasses, javaEraseGenerics(iface))
			}
		}

		for _, mm := range javaMethodRE.FindAllStringSubmatchIndex(body, -1) {
			ret := strings.TrimSpace(body[mm[6]:mm[7]])
			name := body[mm[8]:mm[9]]
			if controlKeywords[name] || strings.Contains(ret, "=") {
				continue
			}
			methodBody := ""
			mEnd := mm[1]
			if body[mm[1]-1] == '{' {
				if b, e, ok := matchBraces(body, mm[1]-1); ok {
					methodBody, mEnd = b, e
				}
			}
			fn := uir.Function{
				ID:         uir.NewID(),
				Name:       name,
				Parameters: javaParams(body[mm[10]:mm[11]]),
				ReturnType: javaType(ret),
				SourceLang: lang.Java,
				SourceCode: strings.TrimSpace(body[mm[0]:mEnd]),
				Attrs: uir.Attributes{
					Static:      mm[4] >= 0,
					Visibility:  javaVisibility(body, mm),
					ControlFlow: scanControlFlow(methodBody, braceFlowPatterns),
				},
			}
			// Constructors carry the class name and no return type.
			if name == cls.Name {
				fn.ReturnType = uir.Sig(uir.Void)
				for _, param := range fn.Parameters {
					cls.Properties = append(cls.Properties, param)
				}
			}
			cls.Methods = append(cls.Methods, fn)
		}

		for _, field := range javaFieldRE.FindAllStringSubmatch(body, -1) {
			t := strings.TrimSpace(field[1])
			if t == "" || t == "return" || strings.ContainsAny(t, "(=") {
				continue
			}
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: field[2], Type: javaType(t), Default: strings.TrimSpace(field[3]),
			})
		}
		m.Classes = append(m.Classes, cls)
	}
}

func javaVisibility(body string, mm []int) uir.Visibility {
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

// javaParams parses a java parameter list: annotations and the final
// modifier are stripped, varargs map to arrays.
func javaParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(javaAnnotRE.ReplaceAllString(part, ""))
		part = strings.TrimPrefix(part, "final ")
		if part == "" {
			continue
		}
		variadic := strings.Contains(part, "...")
		part = strings.ReplaceAll(part, "...", "")
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		name := fields[len(fields)-1]
		sig := javaType(strings.Join(fields[:len(fields)-1], " "))
		if variadic {
			sig = uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{sig}}
		}
		params = append(params, uir.Parameter{Name: name, Type: sig, Required: !variadic})
	}
	return params
}

func javaEraseGenerics(name string) string {
	name = strings.TrimSpace(name)
	if open := strings.IndexByte(name, '<'); open >= 0 {
		name = name[:open]
	}
	return name
}

// javaType maps a java type expression to a TypeSignature.
func javaType(t string) uir.TypeSignature {
	t = strings.TrimSpace(t)
	if t == "" {
		return uir.Sig(uir.Any)
	}
	if strings.HasSuffix(t, "[]") {
		return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{javaType(strings.TrimSuffix(t, "[]"))}}
	}
	if open := strings.IndexByte(t, '<'); open >= 0 && strings.HasSuffix(t, ">") {
		outer := javaBaseType(t[:open])
		var generics []uir.TypeSignature
		for _, inner := range splitTopLevel(t[open+1:len(t)-1], ',') {
			generics = append(generics, javaType(inner))
		}
		return uir.TypeSignature{Base: outer, Generics: generics}
	}
	return uir.Sig(javaBaseType(t))
}

func javaBaseType(name string) uir.DataType {
	switch strings.TrimSpace(name) {
	case "void", "Void":
		return uir.Void
	case "boolean", "Boolean":
		return uir.Boolean
	case "byte", "Byte", "short", "Short", "int", "Integer", "long", "Long":
		return uir.Integer
	case "float", "Float", "double", "Double":
		return uir.Float
	case "char", "Character", "String", "CharSequence":
		return uir.String
	case "List", "ArrayList", "Set", "HashSet", "Collection":
		return uir.Array
	case "Map", "HashMap":
		return uir.Object
	case "Runnable", "Callable", "Function", "Consumer", "Supplier":
		return uir.Func
	default:
		return uir.Object
	}
}

func javaInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case javaIntLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case javaFloatLit.MatchString(v):
		return uir.Sig(uir.Float)
	case strings.HasPrefix(v, "new "):
		return uir.Sig(uir.Object)
	default:
		return uir.Infer(v, lang.Java)
	}
}
