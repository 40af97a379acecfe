package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// LuaParser is the pattern scanner for lua sources. Table-based OOP is
// recovered by grouping `function Table.method` and `function Table:method`
// declarations under one class per table.
type LuaParser struct{}

var (
	luaRequireRE  = regexp.MustCompile(`(?m)^\s*((?:local\s+\w+\s*=\s*)?require\s*\(?\s*['"][^'"]+['"]\s*\)?)`)
	luaFuncRE     = regexp.MustCompile(`(?m)^([ \t]*)(local\s+)?function\s+([\w.:]+)\s*\(([^)]*)\)`)
	luaAssignFnRE = regexp.MustCompile(`(?m)^([ \t]*)local\s+(\w+)\s*=\s*function\s*\(([^)]*)\)`)
	luaTableRE    = regexp.MustCompile(`(?m)^(\w+)\s*=\s*\{\s*\}`)
	luaGlobalRE   = regexp.MustCompile(`(?m)^(\w+)\s*=\s*([^=\n][^\n]*)$`)
	luaLocalVarRE = regexp.MustCompile(`(?m)^\s*local\s+(\w+)\s*=\s*([^\n]+)$`)
	luaReturnRE   = regexp.MustCompile(`(?m)\breturn\s+([^\n]+)`)
	luaHexLit     = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)
)

var luaFlowPatterns = []flowPattern{
	{regexp.MustCompile(`(?m)\bif\s+[^\n]+\s+then`), uir.FlowIf},
	{regexp.MustCompile(`(?m)\bfor\s+[^\n]+\s+do`), uir.FlowFor},
	{regexp.MustCompile(`(?m)\bwhile\s+[^\n]+\s+do`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)\brepeat\b`), uir.FlowWhile},
}

func (p *LuaParser) Language() lang.Language { return lang.Lua }

func (p *LuaParser) Parse(source, filename string) *uir.Module {
	m := uir.NewModule(moduleName(filename), lang.Lua, filename)

	seen := make(map[string]bool)
	for _, imp := range luaRequireRE.FindAllStringSubmatch(source, -1) {
		stmt := strings.TrimSpace(imp[1])
		if !seen[stmt] {
			seen[stmt] = true
			m.Imports = append(m.Imports, stmt)
		}
	}

	// Tables with attached methods become classes; their method spans are
	// excluded from the free-function scan.
	tableMethods := make(map[string][]uir.Function)
	var methodSpans [][2]int

	for _, match := range luaFuncRE.FindAllStringSubmatchIndex(source, -1) {
		name := source[match[6]:match[7]]
		indent := indentOf(source[match[2]:match[3]])
		body, end := endBlock(source, match[1]+1, indent)
		fn := uir.Function{
			ID:         uir.NewID(),
			Name:       name,
			Parameters: luaParams(source[match[8]:match[9]]),
			ReturnType: luaInferReturn(body),
			SourceLang: lang.Lua,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				Exported:    match[4] < 0,
				ControlFlow: scanControlFlow(body, luaFlowPatterns),
			},
		}
		if sep := strings.IndexAny(name, ".:"); sep >= 0 {
			table := name[:sep]
			fn.Name = name[sep+1:]
			// Colon methods receive an implicit self.
			if name[sep] == ':' {
				fn.Attrs.Receiver = "self"
				fn.Attrs.ReceiverType = table
			}
			tableMethods[table] = append(tableMethods[table], fn)
			methodSpans = append(methodSpans, [2]int{match[0], end})
			continue
		}
		m.Functions = append(m.Functions, fn)
	}

	for _, match := range luaAssignFnRE.FindAllStringSubmatchIndex(source, -1) {
		indent := indentOf(source[match[2]:match[3]])
		body, end := endBlock(source, match[1]+1, indent)
		m.Functions = append(m.Functions, uir.Function{
			ID:         uir.NewID(),
			Name:       source[match[4]:match[5]],
			Parameters: luaParams(source[match[6]:match[7]]),
			ReturnType: luaInferReturn(body),
			SourceLang: lang.Lua,
			SourceCode: source[match[0]:end],
			Attrs: uir.Attributes{
				Visibility:  uir.Public,
				ControlFlow: scanControlFlow(body, luaFlowPatterns),
			},
		})
	}

	for _, match := range luaTableRE.FindAllStringSubmatch(source, -1) {
		name := match[1]
		methods := tableMethods[name]
		if len(methods) == 0 {
			continue
		}
		m.Classes = append(m.Classes, uir.Class{
			ID:         uir.NewID(),
			Name:       name,
			Methods:    methods,
			SourceLang: lang.Lua,
			Attrs:      uir.Attributes{Kind: uir.KindClass},
		})
		delete(tableMethods, name)
	}

	p.parseVariables(source, methodSpans, m)
	resolveDependencies(m)
	return m
}

func (p *LuaParser) parseVariables(source string, spans [][2]int, m *uir.Module) {
	add := func(offset int, name, value string, local bool) {
		if insideSpans(offset, spans) {
			return
		}
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "function") || strings.Contains(value, "require") || value == "{}" {
			return
		}
		m.Variables = append(m.Variables, uir.Variable{
			ID:         uir.NewID(),
			Name:       name,
			Type:       luaInfer(value),
			Value:      value,
			IsGlobal:   !local,
			SourceLang: lang.Lua,
		})
	}
	for _, match := range luaGlobalRE.FindAllStringSubmatchIndex(source, -1) {
		name := source[match[2]:match[3]]
		if controlKeywords[name] || name == "local" || name == "end" || name == "then" {
			continue
		}
		add(match[0], name, source[match[4]:match[5]], false)
	}
	for _, match := range luaLocalVarRE.FindAllStringSubmatchIndex(source, -1) {
		add(match[0], source[match[2]:match[3]], source[match[4]:match[5]], true)
	}
}

// luaParams parses an untyped lua parameter list; `...` is the vararg slot.
func luaParams(s string) []uir.Parameter {
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
		params = append(params, uir.Parameter{Name: part, Type: uir.Sig(uir.Any)})
	}
	return params
}

func luaInferReturn(body string) uir.TypeSignature {
	returns := luaReturnRE.FindAllStringSubmatch(body, -1)
	if len(returns) == 0 {
		return uir.Sig(uir.Void)
	}
	last := strings.TrimSpace(returns[len(returns)-1][1])
	// Multiple return values collapse to an array.
	if len(splitTopLevel(last, ',')) > 1 {
		return uir.Sig(uir.Array)
	}
	return luaInfer(last)
}

// luaInfer extends the shared literal heuristic with long strings, hex
// numerals and table constructors.
func luaInfer(value string) uir.TypeSignature {
	v := strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(v, "[["):
		return uir.Sig(uir.String)
	case luaHexLit.MatchString(v):
		return uir.Sig(uir.Integer)
	case strings.HasPrefix(v, "function"):
		return uir.Sig(uir.Func)
	default:
		return uir.Infer(v, lang.Lua)
	}
}
