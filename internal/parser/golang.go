package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// GoParser is the pattern scanner for go sources. It doubles as the fallback
// behind the tree-sitter grammar.
type GoParser struct{}

var (
	goImportOneRE   = regexp.MustCompile(`(?m)^import\s+(?:\w+\s+)?"([^"]+)"`)
	goImportBlockRE = regexp.MustCompile(`(?s)import\s*\(([^)]+)\)`)
	goImportPathRE  = regexp.MustCompile(`"([^"]+)"`)
	goInterfaceRE   = regexp.MustCompile(`type\s+(\w+)\s+interface\s*\{`)
	goStructRE      = regexp.MustCompile(`type\s+(\w+)\s+struct\s*\{`)
	goFuncRE        = regexp.MustCompile(`func\s+(\w+)\s*\(([^)]*)\)\s*(?:\(([^)]+)\)|([\w*\[\]{}.]+))?\s*\{`)
	goMethodRE      = regexp.MustCompile(`func\s+\((\w+)\s+(\*?\w+)\)\s+(\w+)\s*\(([^)]*)\)\s*(?:\(([^)]+)\)|([\w*\[\]{}.]+))?\s*\{`)
	goIfaceMethodRE = regexp.MustCompile(`(?m)^\s*(\w+)\s*\(([^)]*)\)\s*(?:\(([^)]+)\)|([\w*\[\]{}.]+))?\s*$`)
	goFieldRE       = regexp.MustCompile(`(?m)^\s*(\w+)\s+([\w*\[\]{}.]+)(?:\s+` + "`[^`]*`" + `)?\s*$`)
	goConstRE       = regexp.MustCompile(`(?m)^\s*const\s+(\w+)(?:\s+(\w+))?\s*=\s*([^\n]+)`)
	goVarRE         = regexp.MustCompile(`(?m)^var\s+(\w+)\s+([\w*\[\]{}.]+)(?:\s*=\s*([^\n]+))?`)
)

func (p *GoParser) Language() lang.Language { return lang.Go }

func (p *GoParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Go, filename)

	for _, imp := range goImportOneRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, `import "`+imp[1]+`"`)
	}
	if block := goImportBlockRE.FindStringSubmatch(source); block != nil {
		for _, path := range goImportPathRE.FindAllStringSubmatch(block[1], -1) {
			m.Imports = append(m.Imports, `import "`+path[1]+`"`)
		}
	}

	classIdx := make(map[string]int)
	p.parseInterfaces(source, m)
	p.parseStructs(source, m)
	for i, cls := range m.Classes {
		classIdx[cls.Name] = i
	}

	for _, match := range goMethodRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			end = match[1]
		}
		name := source[match[6]:match[7]]
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       name,
			Parameters: goParams(source[match[8]:match[9]]),
			ReturnType: goReturnType(source, match, 5),
			SourceLang: lang.Go,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Receiver:     source[match[2]:match[3]],
				ReceiverType: strings.TrimPrefix(source[match[4]:match[5]], "*"),
				Visibility:   goVisibility(name),
				Exported:     goExported(name),
				ControlFlow:  scanControlFlow(body, braceFlowPatterns),
			},
		}
		if idx, ok := classIdx[fn.Attrs.ReceiverType]; ok {
			m.Classes[idx].Methods = append(m.Classes[idx].Methods, fn)
		} else {
			m.Functions = append(m.Functions, fn)
		}
	}

	for _, match := range goFuncRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			end = match[1]
		}
		name := source[match[2]:match[3]]
		m.Functions = append(m.Functions, uir.Function{
			ID:         uir.NewID(),
			Name:       name,
			Parameters: goParams(source[match[4]:match[5]]),
			ReturnType: goReturnType(source, match, 3),
			SourceLang: lang.Go,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Visibility:  goVisibility(name),
				Exported:    goExported(name),
				ControlFlow: scanControlFlow(body, braceFlowPatterns),
			},
		})
	}

	for _, match := range goConstRE.FindAllStringSubmatch(source, -1) {
		value := strings.TrimSpace(match[3])
		sig := uir.Infer(value, lang.Go)
		if match[2] != "" {
			sig = goType(match[2])
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       match[1],
			Type:       sig,
			Value:      value,
			IsConstant: true,
			IsGlobal:   true,
			SourceLang: lang.Go,
		})
	}
	for _, match := range goVarRE.FindAllStringSubmatch(source, -1) {
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       match[1],
			Type:       goType(match[2]),
			Value:      strings.TrimSpace(match[3]),
			IsGlobal:   true,
			SourceLang: lang.Go,
		})
	}

	resolveDependencies(m)
	return m
}

func (p *GoParser) parseInterfaces(source string, m *uir.Module) {
	for _, match := range goInterfaceRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Go,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindInterface},
		}
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
		m.Classes = append(m.Classes, cls)
	}
}

func (p *GoParser) parseStructs(source string, m *uir.Module) {
	for _, match := range goStructRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.Go,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindStruct},
		}
		for _, field := range goFieldRE.FindAllStringSubmatch(body, -1) {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: field[1], Type: goType(field[2]),
			})
		}
		m.Classes = append(m.Classes, cls)
	}
}

// goParams parses a go parameter list, distributing a shared trailing type
// over grouped names: (a, b int, c string).
func goParams(s string) []uir.Parameter {
	parts := splitTopLevel(s, ',')
	type entry struct{ name, typ string }
	entries := make([]entry, 0, len(parts))
	lastType := ""
	for i := len(parts) - 1; i >= 0; i-- {
		part := strings.TrimSpace(parts[i])
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		switch {
		case len(fields) >= 2:
			lastType = strings.Join(fields[1:], " ")
			entries = append(entries, entry{fields[0], lastType})
		case lastType != "":
			entries = append(entries, entry{fields[0], lastType})
		default:
			entries = append(entries, entry{fields[0], "interface{}"})
		}
	}
	var params []uir.Parameter
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if strings.HasPrefix(e.typ, "...") {
			params = append(params, uir.Parameter{
				Name: e.name,
				Type: uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{goType(strings.TrimPrefix(e.typ, "..."))}},
			})
			continue
		}
		params = append(params, uir.Parameter{Name: e.name, Type: goType(e.typ), Required: true})
	}
	return params
}

// goReturnType reads a result clause from a func match: group g is the
// parenthesized multi-value alternative, g+1 the single bare type.
func goReturnType(source string, match []int, g int) uir.TypeSignature {
	if match[2*g] >= 0 {
		return goResultType(source[match[2*g]:match[2*g+1]])
	}
	if match[2*(g+1)] >= 0 {
		return goResultType(source[match[2*(g+1)]:match[2*(g+1)+1]])
	}
	return uir.Sig(uir.Void)
}

// goResultType maps a result clause to a signature; multiple return values
// collapse to an array.
func goResultType(clause string) uir.TypeSignature {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return uir.Sig(uir.Void)
	}
	if len(splitTopLevel(clause, ',')) > 1 {
		return uir.Sig(uir.Array)
	}
	return goType(clause)
}

// goType maps a go type expression to a TypeSignature.
func goType(t string) uir.TypeSignature {
	t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "*"))
	switch {
	case t == "":
		return uir.Sig(uir.Any)
	case strings.HasPrefix(t, "[]"):
		return uir.TypeSignature{Base: uir.Array, Generics: []uir.TypeSignature{goType(strings.TrimPrefix(t, "[]"))}}
	case strings.HasPrefix(t, "map["):
		return uir.Sig(uir.Object)
	case strings.HasPrefix(t, "func"):
		return uir.Sig(uir.Func)
	case strings.HasPrefix(t, "chan "):
		return uir.Sig(uir.Object)
	}
	switch t {
	case "bool":
		return uir.Sig(uir.Boolean)
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "byte", "rune", "uintptr":
		return uir.Sig(uir.Integer)
	case "float32", "float64":
		return uir.Sig(uir.Float)
	case "string":
		return uir.Sig(uir.String)
	case "interface{}", "any":
		return uir.Sig(uir.Any)
	case "struct{}":
		return uir.Sig(uir.Void)
	default:
		return uir.Sig(uir.Object)
	}
}

// goVisibility follows the case rule: exported identifiers are public.
func goVisibility(name string) uir.Visibility {
	if goExported(name) {
		return uir.Public
	}
	return uir.Private
}

func goExported(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}
