package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// RGenerator emits R source from a module. Types-with-members become
// setRefClass definitions; everything else is plain functions and
// assignments.
type RGenerator struct{}

func (RGenerator) Language() lang.Language { return lang.R }

func (g *RGenerator) Generate(m *uir.Module) string {
	e := newEmitter("  ")
	e.line("# module: " + m.Name)
	e.blank()

	if translated := imports.TranslateAll(m.Imports, lang.R); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	for _, v := range m.Variables {
		e.line(v.Name + " <- " + formatValue(v.Value, v.Type, lang.R))
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

	return e.String()
}

func (g *RGenerator) class(e *emitter, cls *uir.Class) {
	e.line(cls.Name + ` <- setRefClass("` + cls.Name + `",`)
	e.in()

	if len(cls.BaseClasses) > 0 {
		e.line(`contains = "` + cls.BaseClasses[0] + `",`)
	}

	if members := fields(cls); len(members) > 0 {
		slots := make([]string, 0, len(members))
		for _, p := range members {
			slots = append(slots, p.Name+` = "ANY"`)
		}
		e.line("fields = list(" + strings.Join(slots, ", ") + "),")
	}

	e.line("methods = list(")
	e.in()
	methods := make([]*uir.Function, 0, len(cls.Methods))
	for i := range cls.Methods {
		if !isConstructor(cls, &cls.Methods[i]) {
			methods = append(methods, &cls.Methods[i])
		}
	}
	for i, fn := range methods {
		e.line(fn.Name + " = function(" + g.params(fn.Parameters) + ") {")
		e.in()
		g.body(e, fn)
		e.out()
		if i < len(methods)-1 {
			e.line("},")
		} else {
			e.line("}")
		}
	}
	e.out()
	e.line(")")

	e.out()
	e.line(")")
}

func (g *RGenerator) function(e *emitter, fn *uir.Function) {
	e.line(fn.Name + " <- function(" + g.params(fn.Parameters) + ") {")
	e.in()
	g.body(e, fn)
	e.out()
	e.line("}")
}

func (g *RGenerator) body(e *emitter, fn *uir.Function) {
	if fn.SourceLang == lang.R {
		if body := braceBody(fn.SourceCode); len(body) > 0 {
			e.lines(body)
			return
		}
	}
	e.line(todo(fn.Name, lang.R))
	if fn.ReturnType.Base != uir.Void {
		e.line(uir.DefaultReturn(fn.ReturnType, lang.R))
	} else {
		e.line("invisible(NULL)")
	}
}

func (g *RGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		switch {
		case p.Name == "...":
			parts = append(parts, "...")
		case p.Default != "":
			parts = append(parts, p.Name+" = "+formatValue(p.Default, p.Type, lang.R))
		case !p.Required:
			parts = append(parts, p.Name+" = NULL")
		default:
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, ", ")
}
