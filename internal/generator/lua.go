package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// LuaGenerator emits lua source from a module. Types-with-members become
// the conventional metatable class idiom.
type LuaGenerator struct{}

func (LuaGenerator) Language() lang.Language { return lang.Lua }

func (g *LuaGenerator) Generate(m *uir.Module) string {
	e := newEmitter("  ")
	e.line("-- module: " + m.Name)
	e.blank()

	if translated := imports.TranslateAll(m.Imports, lang.Lua); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	for _, v := range m.Variables {
		e.line("local " + v.Name + " = " + formatValue(v.Value, v.Type, lang.Lua))
	}
	if len(m.Variables) > 0 {
		e.blank()
	}

	for i := range m.Classes {
		g.class(e, &m.Classes[i])
		e.blank()
	}
	for i := range m.Functions {
		g.function(e, &m.Functions[i])
		e.blank()
	}

	g.moduleReturn(e, m)
	return e.String()
}

func (g *LuaGenerator) class(e *emitter, cls *uir.Class) {
	e.line(cls.Name + " = {}")
	e.line(cls.Name + ".__index = " + cls.Name)
	e.blank()

	ctor := findConstructor(cls)
	params := ""
	if ctor != nil {
		params = g.params(ctor.Parameters)
	}
	e.line("function " + cls.Name + ":new(" + params + ")")
	e.in()
	e.line("local self = setmetatable({}, " + cls.Name + ")")
	if ctor != nil {
		for _, p := range ctor.Parameters {
			e.line("self." + p.Name + " = " + p.Name)
		}
	}
	e.line("return self")
	e.out()
	e.line("end")

	for i := range cls.Methods {
		fn := &cls.Methods[i]
		if isConstructor(cls, fn) {
			continue
		}
		e.blank()
		e.line("function " + cls.Name + ":" + fn.Name + "(" + g.params(fn.Parameters) + ")")
		e.in()
		g.body(e, fn)
		e.out()
		e.line("end")
	}
}

func (g *LuaGenerator) function(e *emitter, fn *uir.Function) {
	e.line("function " + fn.Name + "(" + g.params(fn.Parameters) + ")")
	e.in()
	g.body(e, fn)
	e.out()
	e.line("end")
}

func (g *LuaGenerator) body(e *emitter, fn *uir.Function) {
	if fn.SourceLang == lang.Lua {
		if body := blockBody(fn.SourceCode); len(body) > 0 {
			e.lines(body)
			return
		}
	}
	e.line(todo(fn.Name, lang.Lua))
	if fn.ReturnType.Base != uir.Void {
		e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.Lua))
	}
}

func (g *LuaGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p.Name)
	}
	return strings.Join(parts, ", ")
}

func (g *LuaGenerator) moduleReturn(e *emitter, m *uir.Module) {
	names := make([]string, 0, len(m.Classes)+len(m.Functions))
	for _, cls := range m.Classes {
		names = append(names, cls.Name)
	}
	for _, fn := range m.Functions {
		names = append(names, fn.Name)
	}
	switch len(names) {
	case 0:
	case 1:
		e.line("return " + names[0])
	default:
		pairs := make([]string, 0, len(names))
		for _, n := range names {
			pairs = append(pairs, n+" = "+n)
		}
		e.line("return { " + strings.Join(pairs, ", ") + " }")
	}
}
