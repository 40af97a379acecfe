package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// JavaScriptParser is the pattern scanner for javascript sources.
type JavaScriptParser struct{}

var (
	jsES6ImportRE = regexp.MustCompile(`(?m)^[ \t]*(import\s+[^\n]*?['"][^'"]+['"])\s*;?\s*$`)
	jsCJSImportRE = regexp.MustCompile(`(?m)^[ \t]*((?:const|let|var)\s+[\w{},\s]+=\s*require\s*\(['"][^'"]+['"]\))\s*;?\s*$`)
	jsFuncRE      = regexp.MustCompile(`(async\s+)?function\s+(\w+)\s*\(([^)]*)\)`)
	jsArrowRE     = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(async\s+)?\(([^)]*)\)\s*=>`)
	jsClassRE     = regexp.MustCompile(`class\s+(\w+)(?:\s+extends\s+([\w.]+))?\s*\{`)
	jsMethodRE    = regexp.MustCompile(`(?m)^\s*(?:(static)\s+)?(?:(async)\s+)?(\w+)\s*\(([^)]*)\)\s*\{`)
	jsVariableRE  = regexp.MustCompile(`(?m)^(const|let|var)\s+(\w+)\s*=\s*([^;\n]+);?\s*$`)
	jsThisPropRE  = regexp.MustCompile(`this\.(\w+)\s*=`)
	jsReturnRE    = regexp.MustCompile(`(?m)\breturn\s+([^;\n]+)`)
)

func (p *JavaScriptParser) Language() lang.Language { return lang.JavaScript }

func (p *JavaScriptParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.JavaScript, filename)
	p.extract(source, m)
	resolveDependencies(m)
	return m
}

// extract runs the full scan; shared with the TypeScript parser which layers
// type annotations on top.
func (p *JavaScriptParser) extract(source string, m *uir.Module) {
	for _, imp := range jsES6ImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(imp[1]))
	}
	for _, imp := range jsCJSImportRE.FindAllStringSubmatch(source, -1) {
		m.Imports = append(m.Imports, strings.TrimSpace(imp[1]))
	}

	classSpans := p.parseClasses(source, m)

	for _, match := range jsFuncRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], classSpans) {
			continue
		}
		name := source[match[4]:match[5]]
		body, end, ok := matchBraces(source, match[1])
		if !ok {
			end = match[1]
		}
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       name,
			Parameters: jsParams(source[match[6]:match[7]]),
			ReturnType: jsInferReturn(body),
			SourceLang: m.SourceLang,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Async:       match[2] >= 0,
				Visibility:  uir.Public,
				Exported:    true,
				ControlFlow: scanControlFlow(body, braceFlowPatterns),
			},
		}
		m.Functions = append(m.Functions, fn)
	}

	for _, match := range jsArrowRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], classSpans) {
			continue
		}
		name := source[match[2]:match[3]]
		body, end, ok := matchBraces(source, match[1])
		if !ok {
			end = match[1]
		}
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       name,
			Parameters: jsParams(source[match[6]:match[7]]),
			ReturnType: jsInferReturn(body),
			SourceLang: m.SourceLang,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Async:       match[4] >= 0,
				Visibility:  uir.Public,
				Exported:    true,
				ControlFlow: scanControlFlow(body, braceFlowPatterns),
			},
		}
		m.Functions = append(m.Functions, fn)
	}

	p.parseVariables(source, classSpans, m)
}

func (p *JavaScriptParser) parseClasses(source string, m *uir.Module) [][2]int {
	var spans [][2]int
	for _, match := range jsClassRE.FindAllStringSubmatchIndex(source, -1) {
		name := source[match[2]:match[3]]
		body, end, ok := matchBraces(source, match[1]-1)
		if !ok {
			continue
		}
		cls := uir.Class{
			ID:         uir.NewID(),
			Name:       name,
			SourceLang: m.SourceLang,
			SourceCode: source[match[0]:end],
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		}
		if match[4] >= 0 {
			cls.BaseClasses = []string{source[match[4]:match[5]]}
		}

		for _, mm := range jsMethodRE.FindAllStringSubmatchIndex(body, -1) {
			methodName := body[mm[6]:mm[7]]
			if controlKeywords[methodName] {
				continue
			}
			methodBody, mEnd, ok := matchBraces(body, mm[1]-1)
			if !ok {
				mEnd = mm[1]
			}
			fn := uir.Function{
				ID:         uir.NewID(),
				Name:       methodName,
				Parameters: jsParams(body[mm[8]:mm[9]]),
				ReturnType: jsInferReturn(methodBody),
				SourceLang: m.SourceLang,
				SourceCode: strings.TrimSpace(body[mm[0]:mEnd]),
				Attrs: uir.Attributes{
					Async:       mm[4] >= 0,
					Static:      mm[2] >= 0,
					Visibility:  uir.Public,
					ControlFlow: scanControlFlow(methodBody, braceFlowPatterns),
				},
			}
			if methodName == "constructor" {
				for _, prop := range jsThisPropRE.FindAllStringSubmatch(methodBody, -1) {
					cls.Properties = append(cls.Properties, uir.Parameter{
						Name: prop[1], Type: uir.Sig(uir.Any),
					})
				}
			}
			cls.Methods = append(cls.Methods, fn)
		}

		spans = append(spans, [2]int{match[0], end})
		m.Classes = append(m.Classes, cls)
	}
	return spans
}

func (p *JavaScriptParser) parseVariables(source string, classSpans [][2]int, m *uir.Module) {
	for _, match := range jsVariableRE.FindAllStringSubmatchIndex(source, -1) {
		if insideSpans(match[0], classSpans) {
			continue
		}
		value := strings.TrimSpace(source[match[6]:match[7]])
		// Arrow functions and requires are handled elsewhere.
		if strings.Contains(value, "=>") || strings.Contains(value, "require(") {
			continue
		}
		keyword := source[match[2]:match[3]]
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			Type:       uir.Infer(value, m.SourceLang),
			Value:      value,
			IsConstant: keyword == "const",
			IsGlobal:   true,
			SourceLang: m.SourceLang,
		})
	}
}

// jsParams parses an untyped parameter list with optional defaults.
func jsParams(s string) []uir.Parameter {
	var params []uir.Parameter
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "...") {
			params = append(params, uir.Parameter{
				Name: strings.TrimPrefix(part, "..."), Type: uir.Sig(uir.Array),
			})
			continue
		}
		name := part
		defaultValue := ""
		if eq := strings.IndexByte(part, '='); eq >= 0 {
			defaultValue = strings.TrimSpace(part[eq+1:])
			name = strings.TrimSpace(part[:eq])
		}
		sig := uir.Sig(uir.Any)
		if defaultValue != "" {
			sig = uir.Infer(defaultValue, lang.JavaScript)
		}
		params = append(params, uir.NewParameter(name, sig, defaultValue))
	}
	return params
}

// jsInferReturn guesses the return type from the first return statement's
// literal shape.
func jsInferReturn(body string) uir.TypeSignature {
	match := jsReturnRE.FindStringSubmatch(body)
	if match == nil {
		return uir.Sig(uir.Void)
	}
	return uir.Infer(match[1], lang.JavaScript)
}
