package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// RubyParser is the pattern scanner for ruby sources.
type RubyParser struct{}

var (
	rbRequireRE  = regexp.MustCompile(`(?m)^\s*(require(?:_relative)?\s*\(?\s*['"][^'"]+['"]\s*\)?|load\s+['"][^'"]+['"])`)
	rbClassRE    = regexp.MustCompile(`(?m)^([ \t]*)class\s+(\w+)(?:\s*<\s*(\w+(?:::\w+)*))?\s*$`)
	rbModuleRE   = regexp.MustCompile(`(?m)^([ \t]*)module\s+(\w+)\s*$`)
	rbMethodRE   = regexp.MustCompile(`(?m)^([ \t]*)def\s+(self\.)?(\w+[?!]?)(?:\s*\(([^)]*)\))?\s*$`)
	rbAccessorRE = regexp.MustCompile(`attr_(accessor|reader|writer)\s+([^\n]+)`)
	rbSymbolRE   = regexp.MustCompile(`:(\w+)`)
	rbConstRE    = regexp.MustCompile(`(?m)^([A-Z][A-Z0-9_]*)\s*=\s*(.+)$`)
	rbPrivateRE  = regexp.MustCompile(`(?m)^\s*private\s*$`)
)

var rbFlowPatterns = []flowPattern{
	{regexp.MustCompile(`(?m)^\s*(?:if|unless)\s+[^\n]+`), uir.FlowIf},
	{regexp.MustCompile(`(?m)^\s*(?:while|until)\s+[^\n]+`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)^\s*for\s+\w+\s+in\s+[^\n]+`), uir.FlowFor},
	{regexp.MustCompile(`\.(?:each|map|times)\s+do\b`), uir.FlowFor},
	{regexp.MustCompile(`(?m)^\s*case\s+[^\n]+`), uir.FlowSwitch},
	{regexp.MustCompile(`(?m)^\s*begin\b`), uir.FlowTry},
}

func (p *RubyParser) Language() lang.Language { return lang.Ruby }

func (p *RubyParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Ruby, filename)

	for _, imp := range rbRequireRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(imp[1]))
	}

	spans := p.parseClasses(source, m)

	for _, match := range rbMethodRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		fn := p.buildMethod(source, match, "")
		m.Functions = append(m.Functions, fn)
	}

	for _, match := range rbConstRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		value := strings.TrimSpace(source[match[4]:match[5]])
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			Type:       rbInfer(value),
			Value:      value,
			IsConstant: true,
			IsGlobal:   true,
			SourceLang: lang.Ruby,
		})
	}

	resolveDependencies(m)
	return m
}

func (p *RubyParser) parseClasses(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range rbClassRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		indent := indentOf(source[match[2]:match[3]])
		body, end := endBlock(source, match[1]+1, indent)
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			SourceLang: lang.Ruby,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if match[6] >= 0 {
			cls.BaseClasses = []string{source[match[6]:match[7]]}
		}

		// attr_accessor/reader/writer symbols become properties.
		for _, acc := range rbAccessorRE.FindAllStringSubmatch(body, -1) {
			for _, sym := range rbSymbolRE.FindAllStringSubmatch(acc[2], -1) {
				cls.Properties = append(cls.Properties, uir.Parameter{
					Name: sym[1], Type: uir.Sig(uir.Any),
				})
			}
		}

		privateFrom := len(body)
		if loc := rbPrivateRE.FindStringIndex(body); loc != nil {
			privateFrom = loc[0]
		}
		for _, mm := range rbMethodRE.FindAllStringSubmatchIndex(body, -1) {
			visibility := uir.Public
			if mm[0] >= privateFrom {
				visibility = uir.Private
			}
			fn := p.buildMethod(body, mm, "")
			fn.Attrs.Visibility = visibility
			if fn.Name == "initialize" {
				for _, param := range fn.Parameters {
					cls.Properties = append(cls.Properties, param)
				}
			}
			cls.Methods = append(cls.Methods, fn)
		}

		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}

	// Module blocks only mark spans so top-level scans skip their insides.
	for _, match := range rbModuleRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		indent := indentOf(source[match[2]:match[3]])
		_, end := endBlock(source, match[1]+1, indent)
		spans = append(spans, [2]int{match[0], end})
	}
	return spans
}

// buildMethod assembles a Function from a def-match (indent, self., name,
// params) against src.
func (p *RubyParser) buildMethod(src string, match []int, _ string) uir.Function {
	name := src[match[6]:match[7]]
	params := ""
	if match[8] >= 0 {
		params = src[match[8]:match[9]]
	}
	indent := indentOf(src[match[2]:match[3]])
	body, end := endBlock(src, match[1]+1, indent)
	return uir.Function{
		ID:         uir.NewID(),
		Name:       name,
		Parameters: rbParams(params),
		ReturnType: rbInferReturn(body),
		SourceLang: lang.Ruby,
		SourceCode: src[match[0]:end],
		Attrs: uir.Attributes{
			Static:      match[4] >= 0,
			Visibility:  uir.Public,
			Exported:    true,
			ControlFlow: scanControlFlow(body, rbFlowPatterns),
		},
	}
}

// rbParams parses a ruby parameter list: splats, block params, keyword
// arguments and defaults.
func rbParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, "**"):
			params = append(params, uir.Parameter{
				Name: strings.TrimPrefix(part, "**"), Type: uir.Sig(uir.Object),
			})
		case strings.HasPrefix(part, "*"):
			params = append(params, uir.Parameter{
				Name: strings.TrimPrefix(part, "*"), Type: uir.Sig(uir.Array),
			})
		case strings.HasPrefix(part, "&"):
			params = append(params, uir.Parameter{
				Name: strings.TrimPrefix(part, "&"), Type: uir.Sig(uir.Func),
			})
		case strings.Contains(part, ":") && !strings.Contains(part, "::"):
			// Keyword argument: `name:` or `name: default`.
			colon := strings.IndexByte(part, ':')
			name := strings.TrimSpace(part[:colon])
			defaultValue := strings.TrimSpace(part[colon+1:])
			if defaultValue == "" {
				params = append(params, uir.Parameter{Name: name, Type: uir.Sig(uir.Any)})
			} else {
				params = append(params, uir.NewParameter(name, rbInfer(defaultValue), defaultValue))
			}
		case strings.Contains(part, "="):
			eq := strings.IndexByte(part, '=')
			name := strings.TrimSpace(part[:eq])
			defaultValue := strings.TrimSpace(part[eq+1:])
			params = append(params, uir.NewParameter(name, rbInfer(defaultValue), defaultValue))
		default:
			params = append(params, uir.Parameter{Name: part, Type: uir.Sig(uir.Any)})
		}
	}
	return params
}

// rbInferReturn infers a return type from the method body's last expression;
// ruby methods return their final value with or without the keyword.
func rbInferReturn(body string) uir.TypeSignature {
	var last string
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		last = t
	}
	if last == "" {
		return uir.Sig(uir.Void)
	}
	last = strings.TrimPrefix(last, "return ")
	return rbInfer(last)
}

// rbInfer extends the shared literal heuristic with ruby's percent literals
// and symbols.
func rbInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(v, "%w") || strings.HasPrefix(v, "%i"):
		return uir.Sig(uir.Array)
	case strings.HasPrefix(v, "%q") || strings.HasPrefix(v, "%Q") || strings.HasPrefix(v, ":"):
		return uir.Sig(uir.String)
	default:
		return uir.Infer(v, lang.Ruby)
	}
}
