package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// JavaScriptGenerator emits javascript source from a module.
type JavaScriptGenerator struct{}

func (JavaScriptGenerator) Language() lang.Language { return lang.JavaScript }

func (g *JavaScriptGenerator) Generate(m *uir.Module) string {
	e := newEmitter("  ")

	if translated := imports.TranslateAll(m.Imports, lang.JavaScript); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	for _, v := range m.Variables {
		e.line(g.variable(&v))
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

	g.exports(e, m)
	return e.String()
}

func (g *JavaScriptGenerator) variable(v *uir.Variable) string {
	keyword := "let"
	if v.IsConstant {
		keyword = "const"
	}
	if v.Value == "" {
		return keyword + " " + v.Name + ";"
	}
	return keyword + " " + v.Name + " = " + formatValue(v.Value, v.Type, lang.JavaScript) + ";"
}

func (g *JavaScriptGenerator) class(e *emitter, cls *uir.Class) {
	head := "class " + cls.Name
	if len(cls.BaseClasses) > 0 {
		// javascript supports single inheritance only
		head += " extends " + cls.BaseClasses[0]
	}
	e.line(head + " {")
	e.in()

	ctor := findConstructor(cls)
	if ctor != nil {
		g.constructor(e, ctor)
		e.blank()
	} else if members := fields(cls); len(members) > 0 {
		e.line("constructor() {")
		e.in()
		for _, prop := range members {
			e.line("this." + prop.Name + " = null;")
		}
		e.out()
		e.line("}")
		e.blank()
	}

	empty := ctor == nil && len(fields(cls)) == 0
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		if isConstructor(cls, fn) {
			continue
		}
		g.method(e, fn)
		e.blank()
		empty = false
	}
	if empty {
		e.line("// empty class")
	}

	e.out()
	e.line("}")
}

func (g *JavaScriptGenerator) constructor(e *emitter, ctor *uir.Function) {
	e.line("constructor(" + g.params(ctor.Parameters) + ") {")
	e.in()
	if ctor.SourceLang == lang.JavaScript {
		if body := braceBody(ctor.SourceCode); len(body) > 0 {
			e.lines(body)
			e.out()
			e.line("}")
			return
		}
	}
	for _, p := range ctor.Parameters {
		e.line("this." + p.Name + " = " + p.Name + ";")
	}
	e.out()
	e.line("}")
}

func (g *JavaScriptGenerator) method(e *emitter, fn *uir.Function) {
	head := ""
	if fn.Attrs.Static {
		head += "static "
	}
	if fn.Attrs.Async {
		head += "async "
	}
	e.line(head + fn.Name + "(" + g.params(fn.Parameters) + ") {")
	e.in()
	g.body(e, fn)
	e.out()
	e.line("}")
}

func (g *JavaScriptGenerator) function(e *emitter, fn *uir.Function) {
	head := "function " + fn.Name
	if fn.Attrs.Async {
		head = "async " + head
	}
	e.line(head + "(" + g.params(fn.Parameters) + ") {")
	e.in()
	g.body(e, fn)
	e.out()
	e.line("}")
}

func (g *JavaScriptGenerator) body(e *emitter, fn *uir.Function) {
	if fn.SourceLang == lang.JavaScript {
		if body := braceBody(fn.SourceCode); len(body) > 0 {
			e.lines(body)
			return
		}
	}
	if body, ok := rewriteBody(fn, lang.JavaScript); ok && len(body) > 0 {
		e.lines(body)
		return
	}
	e.line(todo(fn.Name, lang.JavaScript))
	if fn.ReturnType.Base != uir.Void {
		e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.JavaScript) + ";")
	}
}

// params renders an untyped javascript parameter list with defaults.
func (g *JavaScriptGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		s := p.Name
		if p.Default != "" {
			s += " = " + formatValue(p.Default, p.Type, lang.JavaScript)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func (g *JavaScriptGenerator) exports(e *emitter, m *uir.Module) {
	if len(m.Functions) == 0 && len(m.Classes) == 0 {
		return
	}
	e.line("// exports")
	for _, fn := range m.Functions {
		e.line("module.exports." + fn.Name + " = " + fn.Name + ";")
	}
	for _, cls := range m.Classes {
		e.line("module.exports." + cls.Name + " = " + cls.Name + ";")
	}
}
