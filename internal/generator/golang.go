package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// GoGenerator emits go source from a module. Classes become structs with
// pointer-receiver methods; interface-marked types become interfaces.
type GoGenerator struct{}

func (GoGenerator) Language() lang.Language { return lang.Go }

func (g *GoGenerator) Generate(m *uir.Module) string {
	e := newEmitter("\t")
	e.line("package main")
	e.blank()

	if translated := imports.TranslateAll(m.Imports, lang.Go); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	constants := make([]*uir.Variable, 0, len(m.Variables))
	variables := make([]*uir.Variable, 0, len(m.Variables))
	for i := range m.Variables {
		if m.Variables[i].IsConstant {
			constants = append(constants, &m.Variables[i])
		} else {
			variables = append(variables, &m.Variables[i])
		}
	}
	if len(constants) > 0 {
		e.line("const (")
		e.in()
		for _, v := range constants {
			e.line(v.Name + " = " + formatValue(v.Value, v.Type, lang.Go))
		}
		e.out()
		e.line(")")
		e.blank()
	}
	if len(variables) > 0 {
		e.line("var (")
		e.in()
		for _, v := range variables {
			if v.Value == "" {
				e.line(v.Name + " " + uir.MapType(v.Type, lang.Go))
			} else {
				e.line(v.Name + " = " + formatValue(v.Value, v.Type, lang.Go))
			}
		}
		e.out()
		e.line(")")
		e.blank()
	}

	for i := range m.Classes {
		g.declaration(e, &m.Classes[i])
		e.blank()
	}
	for i := range m.Classes {
		cls := &m.Classes[i]
		if cls.Attrs.Kind == uir.KindInterface {
			continue
		}
		for j := range cls.Methods {
			fn := &cls.Methods[j]
			if isConstructor(cls, fn) {
				continue
			}
			g.method(e, cls, fn)
			e.blank()
		}
	}
	for i := range m.Functions {
		g.function(e, &m.Functions[i])
		e.blank()
	}

	return e.String()
}

func (g *GoGenerator) declaration(e *emitter, cls *uir.Class) {
	if cls.Attrs.Kind == uir.KindInterface {
		e.line("type " + cls.Name + " interface {")
		e.in()
		for i := range cls.Methods {
			fn := &cls.Methods[i]
			sig := fn.Name + "(" + g.params(fn.Parameters) + ")"
			if ret := g.result(fn.ReturnType); ret != "" {
				sig += " " + ret
			}
			e.line(sig)
		}
		e.out()
		e.line("}")
		return
	}

	e.line("type " + cls.Name + " struct {")
	e.in()
	for _, prop := range fields(cls) {
		e.line(exportCap(prop.Name) + " " + uir.MapType(prop.Type, lang.Go))
	}
	e.out()
	e.line("}")
}

func (g *GoGenerator) method(e *emitter, cls *uir.Class, fn *uir.Function) {
	recv := fn.Attrs.Receiver
	if recv == "" || recv == "self" || recv == "this" {
		recv = "s"
		if cls.Name != "" {
			recv = strings.ToLower(cls.Name[:1])
		}
	}
	head := "func (" + recv + " *" + cls.Name + ") " + fn.Name +
		"(" + g.params(fn.Parameters) + ")"
	if ret := g.result(fn.ReturnType); ret != "" {
		head += " " + ret
	}
	e.line(head + " {")
	e.in()
	g.body(e, fn)
	e.out()
	e.line("}")
}

func (g *GoGenerator) function(e *emitter, fn *uir.Function) {
	head := "func " + fn.Name + "(" + g.params(fn.Parameters) + ")"
	if ret := g.result(fn.ReturnType); ret != "" {
		head += " " + ret
	}
	e.line(head + " {")
	e.in()
	g.body(e, fn)
	e.out()
	e.line("}")
}

func (g *GoGenerator) body(e *emitter, fn *uir.Function) {
	if fn.SourceLang == lang.Go {
		if body := braceBody(fn.SourceCode); len(body) > 0 {
			e.lines(body)
			return
		}
	}
	e.line(todo(fn.Name, lang.Go))
	if fn.ReturnType.Base != uir.Void {
		e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.Go))
	}
}

// result renders a return type, omitting it entirely for void.
func (g *GoGenerator) result(sig uir.TypeSignature) string {
	if sig.Base == uir.Void {
		return ""
	}
	return uir.MapType(sig, lang.Go)
}

func (g *GoGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p.Name+" "+uir.MapType(p.Type, lang.Go))
	}
	return strings.Join(parts, ", ")
}
