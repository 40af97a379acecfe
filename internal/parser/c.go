package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// CParser is the pattern scanner for C sources.
type CParser struct{}

var (
	cIncludeRE = regexp.MustCompile(`#include\s*[<"][^>"]+[>"]`)
	cDefineRE  = regexp.MustCompile(`(?m)^#define\s+(\w+)(?:[ \t]+([^\n\\]+))?`)
	cStructRE  = regexp.MustCompile(`(?:typedef\s+)?struct\s+(\w+)?\s*\{`)
	cEnumRE    = regexp.MustCompile(`(?:typedef\s+)?enum\s+(\w+)?\s*\{`)
	cFuncRE    = regexp.MustCompile(`(?m)^(?:static\s+)?(?:inline\s+)?(\w+(?:\s+\w+)*(?:\s*\*+)?)\s+(\w+)\s*\(([^)]*)\)\s*\{`)
	cGlobalRE  = regexp.MustCompile(`(?m)^(?:static\s+)?(?:const\s+)?(\w+(?:\s*\*+)?)\s+(\w+)(?:\s*=\s*([^;]+))?;`)
	cTailRE    = regexp.MustCompile(`^\s*(\w+)?\s*;`)
	cFieldRE   = regexp.MustCompile(`(\w+(?:\s*\*+)?)\s+(\w+)(?:\[\d*\])?\s*;`)
	cEnumValRE = regexp.MustCompile(`(\w+)(?:\s*=\s*[^,\n]+)?`)
	cIntLit    = regexp.MustCompile(`^-?\d+[lLuU]*$`)
	cFloatLit  = regexp.MustCompile(`^-?\d+\.\d+[fF]?$`)
	cHexLit    = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
)

var cFlowPatterns = []flowPattern{
	{regexp.MustCompile(`\bif\s*\([^)]+\)`), uir.FlowIf},
	{regexp.MustCompile(`\bfor\s*\([^)]*\)`), uir.FlowFor},
	{regexp.MustCompile(`\bwhile\s*\([^)]+\)`), uir.FlowWhile},
	{regexp.MustCompile(`\bdo\s*\{`), uir.FlowWhile},
	{regexp.MustCompile(`\bswitch\s*\([^)]+\)`), uir.FlowSwitch},
}

func (p *CParser) Language() lang.Language { return lang.C }

func (p *CParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.C, filename)

	for _, inc := range cIncludeRE.FindAllString(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(inc))
	}

	for _, match := range cDefineRE.FindAllStringSubmatch(source, -1) {
		value := strings.TrimSpace(match[2])
		if value == "" {
			continue
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       match[1],
			Type:       cInfer(value),
			Value:      value,
			IsConstant: true,
			IsGlobal:   true,
			SourceLang: lang.C,
		})
	}

	spans := p.parseStructs(source, m)
	spans = append(spans, p.parseEnums(source, m)...)

	var fnSpans [][2]int
	for _, match := range cFuncRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		ret := strings.TrimSpace(source[match[2]:match[3]])
		if ret == "struct" || ret == "enum" || controlKeywords[ret] {
			continue
		}
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			end = match[1]
		}
		fnSpans = append(fnSpans, [2]int{match[0], end})
		m.Functions = append(m.Functions, uir.Function{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			Parameters: cParams(source[match[6]:match[7]]),
			ReturnType: cType(ret),
			SourceLang: lang.C,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Static:      strings.HasPrefix(firstLine(source[match[0]:end]), "static"),
				Visibility:  uir.Public,
				ControlFlow: scanControlFlow(body, cFlowPatterns),
			},
		})
	}

	spans = append(spans, fnSpans...)
	for _, match := range cGlobalRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		typ := strings.TrimSpace(source[match[2]:match[3]])
		if typ == "return" || typ == "typedef" || controlKeywords[typ] {
			continue
		}
		value := ""
		if match[6] >= 0 {
			value = strings.TrimSpace(source[match[6]:match[7]])
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			Type:       cType(typ),
			Value:      value,
			IsConstant: strings.Contains(firstLine(source[match[0]:match[1]]), "const "),
			IsGlobal:   true,
			SourceLang: lang.C,
		})
	}

	resolveDependencies(m)
	return m
}

// parseStructs records struct declarations; either the tag name or the
// typedef alias after the closing brace names the class.
func (p *CParser) parseStructs(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range cStructRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		name := ""
		if match[2] >= 0 {
			name = source[match[2]:match[3]]
		}
		end = p.consumeTail(source, end, &name)
		if name == "" {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       name,
			SourceLang: lang.C,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindStruct},
		}
		for _, field := range cFieldRE.FindAllStringSubmatch(body, -1) {
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: field[2], Type: cType(field[1]),
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *CParser) parseEnums(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range cEnumRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		name := ""
		if match[2] >= 0 {
			name = source[match[2]:match[3]]
		}
		end = p.consumeTail(source, end, &name)
		if name == "" {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       name,
			SourceLang: lang.C,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindEnum},
		}
		for _, member := range splitTopLevel(body, ',') {
			mm := cEnumValRE.FindStringSubmatch(strings.TrimSpace(member))
			if mm == nil || mm[1] == "" {
				continue
			}
			cls.Properties = append(cls.Properties, uir.Parameter{
				Name: mm[1], Type: uir.Sig(uir.Integer),
			})
		}
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

// consumeTail eats the `alias;` tail after a struct/enum closing brace. A
// typedef alias takes over as the name when the tag was anonymous.
func (p *CParser) consumeTail(source string, end int, name *string) int {
	tail := cTailRE.FindStringSubmatchIndex(source[end:])
	if tail == nil {
		return end
	}
	if tail[2] >= 0 && *name == "" {
		*name = source[end+tail[2] : end+tail[3]]
	}
	return end + tail[1]
}

// cParams parses a C parameter list; a bare void means no parameters and a
// trailing `...` maps to an optional variadic slot.
func cParams(s string) []uir.Parameter {
	s = strings.TrimSpace(s)
	if s == "" || s == "void" {
		return nil
	}
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "..." {
			params = append(params, uir.Parameter{Name: "args", Type: uir.Sig(uir.Array)})
			continue
		}
		tokens := strings.Fields(part)
		if len(tokens) < 2 {
			continue
		}
		name := strings.TrimLeft(tokens[len(tokens)-1], "*")
		if bracket := strings.IndexByte(name, '['); bracket >= 0 {
			name = name[:bracket]
		}
		params = append(params, uir.Parameter{
			Name:     name,
			Type:     cType(strings.Join(tokens[:len(tokens)-1], " ")),
			Required: true,
		})
	}
	return params
}

// cType maps a C type expression to a TypeSignature. char* is a string;
// bare char is an integer.
func cType(t string) uir.TypeSignature {
	t = strings.TrimSpace(t)
	if t == "" {
		return uir.Sig(uir.Void)
	}
	pointer := strings.Contains(t, "*")
	t = strings.ReplaceAll(t, "*", "")
	for _, qualifier := range []string{"const", "static", "volatile", "unsigned", "signed", "struct"} {
		t = strings.TrimSpace(strings.ReplaceAll(t, qualifier, ""))
	}
	switch t {
	case "void":
		return uir.Sig(uir.Void)
	case "bool", "_Bool":
		return uir.Sig(uir.Boolean)
	case "char":
		if pointer {
			return uir.Sig(uir.String)
		}
		return uir.Sig(uir.Integer)
	case "short", "int", "long", "long long", "size_t", "ssize_t", "int8_t", "int16_t", "int32_t", "int64_t",
		"uint8_t", "uint16_t", "uint32_t", "uint64_t":
		return uir.Sig(uir.Integer)
	case "float", "double", "long double":
		return uir.Sig(uir.Float)
	default:
		return uir.Sig(uir.Object)
	}
}

func cInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(v, `"`):
		return uir.Sig(uir.String)
	case strings.HasPrefix(v, "'"):
		return uir.Sig(uir.Integer)
	case v == "true" || v == "false":
		return uir.Sig(uir.Boolean)
	case v == "NULL":
		return uir.TypeSignature{Base: uir.Any, Nullable: true}
	case cHexLit.MatchString(v), cIntLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case cFloatLit.MatchString(v):
		return uir.Sig(uir.Float)
	default:
		return uir.Sig(uir.Any)
	}
}
