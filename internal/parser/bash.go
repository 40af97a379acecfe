package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// BashParser is the pattern scanner for shell scripts. Function parameters
// do not exist syntactically, so they are reconstructed from positional
// references inside the body.
type BashParser struct{}

var (
	bashShebangRE = regexp.MustCompile(`(?m)^#!(.+)$`)
	bashSourceRE  = regexp.MustCompile(`(?m)^\s*(source\s+\S+)`)
	bashDotRE     = regexp.MustCompile(`(?m)^\s*(\.\s+\S+)`)
	bashFuncRE    = regexp.MustCompile(`(?m)^\s*function\s+(\w+)\s*(?:\(\s*\))?\s*\{`)
	bashFunc2RE   = regexp.MustCompile(`(?m)^\s*(\w+)\s*\(\s*\)\s*\{`)
	bashVarRE     = regexp.MustCompile(`(?m)^(?:export\s+)?(\w+)=([^\n]+)`)
	bashPosRE     = regexp.MustCompile(`\$(\d+)`)
	bashIntLit    = regexp.MustCompile(`^-?\d+$`)
	bashFloatLit  = regexp.MustCompile(`^-?\d+\.\d+$`)
)

var bashFlowPatterns = []flowPattern{
	{regexp.MustCompile(`(?m)\bif\s+\[`), uir.FlowIf},
	{regexp.MustCompile(`(?m)\bfor\s+\w+\s+in\b`), uir.FlowFor},
	{regexp.MustCompile(`(?m)\bwhile\s+\[`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)\buntil\s+\[`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)\bcase\s+`), uir.FlowSwitch},
}

func (p *BashParser) Language() lang.Language { return lang.Bash }

func (p *BashParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Bash, filename)

	if shebang := bashShebangRE.FindStringSubmatch(source); shebang != nil {
		m.Imports = append(m.Imports, "#!"+strings.TrimSpace(shebang[1]))
	}
	for _, src := range bashSourceRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(src[1]))
	}
	for _, src := range bashDotRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(src[1]))
	}

	spans := p.parseFunctions(source, bashFuncRE, nil, m)
	spans = append(spans, p.parseFunctions(source, bashFunc2RE, spans, m)...)

	for _, match := range bashVarRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		name := source[match[2]:match[3]]
		value := strings.TrimSpace(source[match[4]:match[5]])
		// Array-literal assignments double as function-call noise filters.
		if strings.HasPrefix(value, "(") && !strings.HasSuffix(value, ")") {
			continue
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       name,
			Type:       bashInfer(value),
			Value:      value,
			IsConstant: name == strings.ToUpper(name),
			IsGlobal:   true,
			SourceLang: lang.Bash,
		})
	}

	resolveDependencies(m)
	return m
}

func (p *BashParser) parseFunctions(source string, re *regexp.Regexp, seen [][2]int, m *uir.Module) [][2]int {
	names := make(map[string]bool)
	for _, fn := range m.Functions {
		names[fn.Name] = true
	}
	var spans [][2]int
	for _, match := range re.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], seen) {
			continue
		}
		name := source[match[2]:match[3]]
		if names[name] || controlKeywords[name] {
			continue
		}
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		names[name] = true
		spans = append(spans, [2]int{match[0], end})
		m.Functions = append(m.Functions, uir.Function{
			ID:         uir.NewID(),
			Name:       name,
			Parameters: bashParams(body),
			ReturnType: uir.Sig(uir.Any),
			SourceLang: lang.Bash,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				ControlFlow: scanControlFlow(body, bashFlowPatterns),
			},
		})
	}
	return spans
}

// bashParams reconstructs parameters from $1..$N references; $@ or $* adds
// a trailing rest argument.
func bashParams(body string) []uir.Parameter {
	highest := 0
	for _, ref := range bashPosRE.FindAllStringSubmatch(body, -1) {
		if n, err := strconv.Atoi(ref[1]); err == nil && n > highest {
			highest = n
		}
	}
	var params []uir.Parameter
	for i := 1; i <= highest; i++ {
		params = append(params, uir.Parameter{
			Name: "arg" + strconv.Itoa(i), Type: uir.Sig(uir.String), Required: true,
		})
	}
	if strings.Contains(body, "$@") || strings.Contains(body, "$*") {
		params = append(params, uir.Parameter{Name: "args", Type: uir.Sig(uir.Array)})
	}
	return params
}

// bashInfer types an assignment value. Everything in shell is a string
// until it looks like something else.
func bashInfer(value string) uir.TypeSignature {
	v := strings.Trim(strings.TrimSpace(value), `"'`)
	switch {
	case bashIntLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case bashFloatLit.MatchString(v):
		return uir.Sig(uir.Float)
	case strings.EqualFold(v, "true") || strings.EqualFold(v, "false"):
		return uir.Sig(uir.Boolean)
	case strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")"):
		return uir.Sig(uir.Array)
	default:
		return uir.Sig(uir.String)
	}
}
