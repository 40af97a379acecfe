package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// RParser is the pattern scanner for r sources. It recognizes plain function
// assignments plus the S4 (setClass/setMethod) and R6 class systems.
type RParser struct{}

var (
	rImportRE    = regexp.MustCompile(`(?m)^\s*((?:library|require|source)\s*\(\s*["']?[\w./]+["']?\s*\))`)
	rFuncRE      = regexp.MustCompile(`(\w+)\s*(?:<-|=)\s*function\s*\(([^)]*)\)\s*\{`)
	rSetClassRE  = regexp.MustCompile(`setClass\s*\(\s*["'](\w+)["']`)
	rSlotsRE     = regexp.MustCompile(`(?s)(?:slots|representation)\s*=\s*c\s*\(([^)]+)\)`)
	rSlotRE      = regexp.MustCompile(`(\w+)\s*=\s*["'](\w+)["']`)
	rContainsRE  = regexp.MustCompile(`contains\s*=\s*["'](\w+)["']`)
	rSetMethodRE = regexp.MustCompile(`setMethod\s*\(\s*["'](\w+)["']\s*,\s*["'](\w+)["']\s*,\s*function\s*\(([^)]*)\)\s*\{`)
	rR6ClassRE   = regexp.MustCompile(`(\w+)\s*<-\s*R6Class\s*\(\s*["'](\w+)["']`)
	rInheritRE   = regexp.MustCompile(`inherit\s*=\s*(\w+)`)
	rMemberFnRE  = regexp.MustCompile(`(\w+)\s*=\s*function\s*\(([^)]*)\)\s*\{`)
	rVariableRE  = regexp.MustCompile(`(?m)^(\w+)\s*(?:<-|=)\s*([^\n{]+)$`)
	rReturnRE    = regexp.MustCompile(`(?:return|invisible)\s*\(([^)]+)\)`)
	rIntLit      = regexp.MustCompile(`^-?\d+L?$`)
	rNumLit      = regexp.MustCompile(`(?i)^-?\d+\.?\d*(?:e[+-]?\d+)?$`)
)

var rFlowPatterns = []flowPattern{
	{regexp.MustCompile(`\bif\s*\([^)]+\)`), uir.FlowIf},
	{regexp.MustCompile(`\bfor\s*\([^)]+\)`), uir.FlowFor},
	{regexp.MustCompile(`\bwhile\s*\([^)]+\)`), uir.FlowWhile},
	{regexp.MustCompile(`\brepeat\s*\{`), uir.FlowWhile},
	{regexp.MustCompile(`\bswitch\s*\(`), uir.FlowSwitch},
	{regexp.MustCompile(`\btryCatch\s*\(`), uir.FlowTry},
}

func (p *RParser) Language() lang.Language { return lang.R }

func (p *RParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.R, filename)

	for _, imp := range rImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(imp[1]))
	}

	spans := p.parseS4Classes(source, m)
	spans = append(spans, p.parseR6Classes(source, m)...)

	for _, match := range rFuncRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			end = match[1]
		}
		m.Functions = append(m.Functions, uir.Function{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			Parameters: rParams(source[match[4]:match[5]]),
			ReturnType: rInferReturn(body),
			SourceLang: lang.R,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				Exported:    true,
				ControlFlow: scanControlFlow(body, rFlowPatterns),
			},
		})
	}

	p.parseVariables(source, spans, m)
	resolveDependencies(m)
	return m
}

func (p *RParser) parseS4Classes(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	byName := make(map[string]int)
	for _, match := range rSetClassRE.FindAllStringSubmatchIndex(source, -1) {
		def, end := rCallBody(source, match[1])
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			SourceLang: lang.R,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if slots := rSlotsRE.FindStringSubmatch(def); slots != nil {
			for _, slot := range rSlotRE.FindAllStringSubmatch(slots[1], -1) {
				cls.Properties = append(cls.Properties, uir.Parameter{
					Name: slot[1], Type: uir.Sig(rBaseType(slot[2])),
				})
			}
		}
		if contains := rContainsRE.FindStringSubmatch(def); contains != nil {
			cls.BaseClasses = append(cls.BaseClasses, contains[1])
		}
		byName[cls.Name] = len(m.Classes)
		m.Classes = append(m.Classes, cls)
		spans = append(spans, [2]int{match[0], end})
	}

	for _, match := range rSetMethodRE.FindAllStringSubmatchIndex(source, -1) {
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			end = match[1]
		}
		className := source[match[4]:match[5]]
		idx, known := byName[className]
		if !known {
			continue
		}
		m.Classes[idx].Methods = append(m.Classes[idx].Methods, uir.Function{
			ID:         uir.NewID(),
			Name:       source[match[2]:match[3]],
			Parameters: rParams(source[match[6]:match[7]]),
			ReturnType: rInferReturn(body),
			SourceLang: lang.R,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				ControlFlow: scanControlFlow(body, rFlowPatterns),
			},
		})
		spans = append(spans, [2]int{match[0], end})
	}
	return spans
}

func (p *RParser) parseR6Classes(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range rR6ClassRE.FindAllStringSubmatchIndex(source, -1) {
		def, end := rCallBody(source, match[1])
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			SourceLang: lang.R,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if inherit := rInheritRE.FindStringSubmatch(def); inherit != nil {
			cls.BaseClasses = append(cls.BaseClasses, inherit[1])
		}
		p.parseR6Members(&cls, def, "public", uir.Public)
		p.parseR6Members(&cls, def, "private", uir.Private)
		m.Classes = append(m.Classes, cls)
		spans = append(spans, [2]int{match[0], end})
	}
	return spans
}

func (p *RParser) parseR6Members(cls *uir.Class, def, section string, vis uir.Visibility) {
	listRE := regexp.MustCompile(`(?s)` + section + `\s*=\s*list\s*\(`)
	loc := listRE.FindStringIndex(def)
	if loc == nil {
		return
	}
	members, _ := rCallBody(def, loc[1]-1)
	for _, mm := range rMemberFnRE.FindAllStringSubmatchIndex(members, -1) {
		body, end, ok := matchBraces(members, mm[1]-1)
		if !ok {
			end = mm[1]
		}
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       members[mm[2]:mm[3]],
			Parameters: rParams(members[mm[4]:mm[5]]),
			ReturnType: rInferReturn(body),
			SourceLang: lang.R,
			SourceCode: members[mm[0]:end],
			Attrs: uir.Attributes{
				Visibility:  vis,
				ControlFlow: scanControlFlow(body, rFlowPatterns),
			},
		}
		if fn.Name == "initialize" {
			for _, param := range fn.Parameters {
				cls.Properties = append(cls.Properties, param)
			}
		}
		cls.Methods = append(cls.Methods, fn)
	}
}

// rCallBody returns the argument text of a call whose open paren is at or
// before from's line, scanning forward from the character after the matched
// prefix, plus the offset just past the closing paren.
func rCallBody(source string, from int) (string, int) {
	depth := 1
	var quote byte
	for i := from; i < len(source); i++ {
		c := source[i]
		switch {
		case quote != 0:
			if c == quote && source[i-1] != '\\' {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return source[from:i], i + 1
			}
		}
	}
	return source[from:], len(source)
}

func (p *RParser) parseVariables(source string, spans [][2]int, m *uir.Module) {
	for _, match := range rVariableRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], spans) {
			continue
		}
		name := source[match[2]:match[3]]
		value := strings.TrimSpace(source[match[4]:match[5]])
		if controlKeywords[name] || name == "repeat" || name == "in" {
			continue
		}
		if strings.HasPrefix(value, "function") || strings.Contains(value, "R6Class") || strings.Contains(value, "setClass") {
			continue
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       name,
			Type:       rInfer(value),
			Value:      value,
			IsGlobal:   true,
			SourceLang: lang.R,
		})
	}
}

// rParams parses an r parameter list; `...` is the dots argument.
func rParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "..." {
			params = append(params, uir.Parameter{Name: "...", Type: uir.Sig(uir.Array)})
			continue
		}
		if eq := strings.IndexByte(part, '='); eq >= 0 {
			name := strings.TrimSpace(part[:eq])
			defaultValue := strings.TrimSpace(part[eq+1:])
			params = append(params, uir.NewParameter(name, rInfer(defaultValue), defaultValue))
			continue
		}
		params = append(params, uir.Parameter{Name: part, Type: uir.Sig(uir.Any)})
	}
	return params
}

func rInferReturn(body string) uir.TypeSignature {
	returns := rReturnRE.FindAllStringSubmatch(body, -1)
	if len(returns) > 0 {
		return rInfer(returns[len(returns)-1][1])
	}
	// Without an explicit return the function yields its last expression.
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
	return rInfer(last)
}

// rInfer extends the shared literal heuristic with r's vector constructors,
// NA family and integer suffix.
func rInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case v == "T" || v == "F":
		return uir.Sig(uir.Boolean)
	case v == "NA" || strings.HasPrefix(v, "NA_"):
		return uir.TypeSignature{Base: uir.Any, Nullable: true}
	case strings.HasPrefix(v, "vector("):
		return uir.Sig(uir.Array)
	case strings.Contains(v, "data.frame(") || strings.Contains(v, "tibble("):
		return uir.Sig(uir.Object)
	case rIntLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case rNumLit.MatchString(v):
		return uir.Sig(uir.Float)
	case strings.HasPrefix(v, "function("):
		return uir.Sig(uir.Func)
	default:
		return uir.Infer(v, lang.R)
	}
}

func rBaseType(name string) uir.DataType {
	switch strings.ToLower(name) {
	case "logical":
		return uir.Boolean
	case "integer":
		return uir.Integer
	case "numeric", "double":
		return uir.Float
	case "character":
		return uir.String
	case "vector":
		return uir.Array
	case "list":
		return uir.Object
	case "function":
		return uir.Func
	default:
		return uir.Any
	}
}
