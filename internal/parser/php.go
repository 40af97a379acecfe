package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// PHPParser is the pattern scanner for php sources.
type PHPParser struct{}

var (
	phpTagRE       = regexp.MustCompile(`<\?(?:php)?\s*|\?>`)
	phpNamespaceRE = regexp.MustCompile(`namespace\s+([\w\\]+)\s*;`)
	phpUseRE       = regexp.MustCompile(`(?m)^\s*(use\s+[\w\\]+(?:\s+as\s+\w+)?)\s*;`)
	phpRequireRE   = regexp.MustCompile(`(?m)^\s*((?:require|include)(?:_once)?\s*\(?\s*['"][^'"]+['"]\s*\)?)\s*;`)
	phpInterfaceRE = regexp.MustCompile(`interface\s+(\w+)(?:\s+extends\s+([\w,\s\\]+?))?\s*\{`)
	phpTraitRE     = regexp.MustCompile(`trait\s+(\w+)\s*\{`)
	phpClassRE     = regexp.MustCompile(`(?:(abstract|final)\s+)?class\s+(\w+)(?:\s+extends\s+([\w\\]+))?(?:\s+implements\s+([\w,\s\\]+?))?\s*\{`)
	phpMethodRE    = regexp.MustCompile(`(?m)^\s*(?:(public|private|protected)\s+)?(?:(static)\s+)?(?:(abstract)\s+)?function\s+(\w+)\s*\(([^)]*)\)(?:\s*:\s*(\??[\w\\]+))?\s*[\{;]`)
	phpFuncRE      = regexp.MustCompile(`function\s+(\w+)\s*\(([^)]*)\)(?:\s*:\s*(\??[\w\\]+))?\s*\{`)
	phpPropertyRE  = regexp.MustCompile(`(?m)^\s*(?:(public|private|protected)\s+)(?:static\s+)?(?:readonly\s+)?(\??[\w\\]+\s+)?\$(\w+)(?:\s*=\s*([^;]+))?;`)
	phpParamRE     = regexp.MustCompile(`^(\??)([\w\\]+\s+)?&?(?:\.\.\.)?\$(\w+)(?:\s*=\s*(.+))?$`)
	phpConstRE     = regexp.MustCompile(`(?:define\s*\(\s*['"](\w+)['"]\s*,\s*([^)]+)\)|const\s+(\w+)\s*=\s*([^;]+);)`)
	phpReturnRE    = regexp.MustCompile(`return\s+([^;]+);`)
)

func (p *PHPParser) Language() lang.Language { return lang.PHP }

func (p *PHPParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.PHP, filename)
	code := phpTagRE.ReplaceAllString(source, "")

	if ns := phpNamespaceRE.FindStringSubmatch(code); ns != nil {
		m.Imports = append(m.Imports, "namespace "+ns[1]+";")
	}
	for _, use := range phpUseRE.FindAllStringSubmatch(code, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(use[1])+";")
	}
	for _, req := range phpRequireRE.FindAllStringSubmatch(code, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(req[1])+";")
	}

	spans := p.parseInterfaces(code, m)
	spans = append(spans, p.parseTraits(code, m)...)
	spans = append(spans, p.parseClasses(code, m)...)

	for _, match := range phpFuncRE.FindAllStringSubmatchIndex(code, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		body, end, ok := matchBraces(code, match[1]-1)
		if !ok {
			end = match[1]
		}
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       code[match[2]:match[3]],
			Parameters: phpParams(code[match[4]:match[5]]),
			SourceLang: lang.PHP,
			SourceCode: code[match[0]:end],
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				Exported:    true,
				ControlFlow: scanControlFlow(body, braceFlowPatterns),
			},
		}
		if match[6] >= 0 {
			fn.ReturnType = phpType(code[match[6]:match[7]])
		} else {
			fn.ReturnType = phpInferReturn(body)
		}
		m.Functions = append(m.Functions, fn)
	}

	for _, match := range phpConstRE.FindAllStringSubmatchIndex(code, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		var name, value string
		if match[2] >= 0 {
			name, value = code[match[2]:match[3]], code[match[4]:match[5]]
		} else {
			name, value = code[match[6]:match[7]], code[match[8]:match[9]]
		}
		value = strings.TrimSpace(value)
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       name,
			Type:       phpInfer(value),
			Value:      value,
			IsConstant: true,
			IsGlobal:   true,
			SourceLang: lang.PHP,
		})
	}

	resolveDependencies(m)
	return m
}

func (p *PHPParser) parseInterfaces(code string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range phpInterfaceRE.FindAllStringSubmatchIndex(code, -1) {
		body, end, ok := matchBraces(code, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       code[match[2]:match[3]],
			SourceLang: lang.PHP,
			SourceCode: code[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindInterface},
		}
		if match[4] >= 0 {
			for _, ext := range strings.Split(code[match[4]:match[5]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(ext))
			}
		}
		p.parseMethods(&cls, body)
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *PHPParser) parseTraits(code string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range phpTraitRE.FindAllStringSubmatchIndex(code, -1) {
		body, end, ok := matchBraces(code, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       code[match[2]:match[3]],
			SourceLang: lang.PHP,
			SourceCode: code[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindTrait},
		}
		p.parseMethods(&cls, body)
		p.parseProperties(&cls, body)
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *PHPParser) parseClasses(code string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range phpClassRE.FindAllStringSubmatchIndex(code, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		body, end, ok := matchBraces(code, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       code[match[4]:match[5]],
			SourceLang: lang.PHP,
			SourceCode: code[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if match[6] >= 0 {
			cls.BaseClasses = append(cls.BaseClasses, code[match[6]:match[7]])
		}
		if match[8] >= 0 {
			for _, iface := range strings.Split(code[match[8]:match[9]], ",") {
				cls.BaseClasses = append(cls.BaseClasses, strings.TrimSpace(iface))
			}
		}
		p.parseProperties(&cls, body)
		p.parseMethods(&cls, body)
		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *PHPParser) parseProperties(cls *uir.Class, body string) {
	for _, prop := range phpPropertyRE.FindAllStringSubmatch(body, -1) {
		sig := uir.Sig(uir.Any)
		if t := strings.TrimSpace(prop[2]); t != "" {
			sig = phpType(t)
		}
		cls.Properties = append(cls.Properties, uir.Parameter{
			Name: prop[3], Type: sig, Default: strings.TrimSpace(prop[4]),
		})
	}
}

func (p *PHPParser) parseMethods(cls *uir.Class, body string) {
	for _, mm := range phpMethodRE.FindAllStringSubmatchIndex(body, -1) {
		methodBody := ""
		mEnd := mm[1]
		if body[mm[1]-1] == '{' {
			if b, e, ok := matchBraces(body, mm[1]-1); ok {
				methodBody, mEnd = b, e
			}
		}
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       body[mm[8]:mm[9]],
			Parameters: phpParams(body[mm[10]:mm[11]]),
			SourceLang: lang.PHP,
			SourceCode: strings.TrimSpace(body[mm[0]:mEnd]),
			Attrs: uir.Attributes{
				Static:      mm[4] >= 0,
				Visibility:  phpVisibility(body, mm),
				ControlFlow: scanControlFlow(methodBody, braceFlowPatterns),
			},
		}
		if mm[12] >= 0 {
			fn.ReturnType = phpType(body[mm[12]:mm[13]])
		} else {
			fn.ReturnType = phpInferReturn(methodBody)
		}
		if fn.Name == "__construct" {
			for _, param := range fn.Parameters {
				cls.Properties = append(cls.Properties, param)
			}
		}
		cls.Methods = append(cls.Methods, fn)
	}
}

func phpVisibility(body string, mm []int) uir.Visibility {
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

// phpParams parses a php parameter list: `?Type $name = default`.
func phpParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		match := phpParamRE.FindStringSubmatch(part)
		if match == nil {
			continue
		}
		sig := uir.Sig(uir.Any)
		if t := strings.TrimSpace(match[2]); t != "" {
			sig = phpType(t)
		}
		sig.Nullable = sig.Nullable || match[1] == "?"
		defaultValue := strings.TrimSpace(match[4])
		params = append(params, uir.NewParameter(match[3], sig, defaultValue))
	}
	return params
}

// phpType maps a php type hint to a TypeSignature.
func phpType(t string) uir.TypeSignature {
	t = strings.TrimSpace(t)
	nullable := strings.HasPrefix(t, "?")
	t = strings.TrimPrefix(t, "?")
	var base uir.DataType
	switch strings.ToLower(t) {
	case "string":
		base = uir.String
	case "int", "integer":
		base = uir.Integer
	case "float", "double":
		base = uir.Float
	case "bool", "boolean":
		base = uir.Boolean
	case "array", "iterable":
		base = uir.Array
	case "callable", "closure":
		base = uir.Func
	case "void":
		base = uir.Void
	case "null", "mixed":
		base = uir.Any
	default:
		base = uir.Object
	}
	return uir.TypeSignature{Base: base, Nullable: nullable}
}

func phpInferReturn(body string) uir.TypeSignature {
	returns := phpReturnRE.FindAllStringSubmatch(body, -1)
	if len(returns) == 0 {
		return uir.Sig(uir.Void)
	}
	return phpInfer(returns[len(returns)-1][1])
}

func phpInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(v, "array("):
		return uir.Sig(uir.Array)
	case strings.HasPrefix(v, "new "):
		return uir.Sig(uir.Object)
	default:
		return uir.Infer(v, lang.PHP)
	}
}
