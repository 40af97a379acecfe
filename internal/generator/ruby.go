package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// RubyGenerator emits ruby source from a module.
type RubyGenerator struct{}

func (RubyGenerator) Language() lang.Language { return lang.Ruby }

func (g *RubyGenerator) Generate(m *uir.Module) string {
	e := newEmitter("  ")
	e.line("# frozen_string_literal: true")
	e.blank()

	if translated := imports.TranslateAll(m.Imports, lang.Ruby); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	for _, v := range m.Variables {
		if v.IsConstant {
			e.line(strings.ToUpper(v.Name) + " = " + formatValue(v.Value, v.Type, lang.Ruby))
		} else {
			e.line(v.Name + " = " + formatValue(v.Value, v.Type, lang.Ruby))
		}
	}
	if len(m.Variables) > 0 {
		e.blank()
	}

	for i := range m.Classes {
		g.class(e, &m.Classes[i])
		e.blank()
	}
	for i := range m.Functions {
		g.method(e, nil, &m.Functions[i])
		e.blank()
	}

	return e.String()
}

func (g *RubyGenerator) class(e *emitter, cls *uir.Class) {
	// modules and interface-like shapes become ruby modules; everything
	// else is a class.
	keyword := "class"
	head := keyword + " " + cls.Name
	switch cls.Attrs.Kind {
	case uir.KindInterface, uir.KindTrait, uir.KindModule:
		head = "module " + cls.Name
	default:
		if len(cls.BaseClasses) > 0 {
			head += " < " + cls.BaseClasses[0]
		}
	}
	e.line(head)
	e.in()

	if members := fields(cls); len(members) > 0 {
		names := make([]string, 0, len(members))
		for _, p := range members {
			names = append(names, ":"+p.Name)
		}
		e.line("attr_accessor " + strings.Join(names, ", "))
		e.blank()
	}

	for i := range cls.Methods {
		g.method(e, cls, &cls.Methods[i])
		e.blank()
	}

	e.out()
	e.line("end")
}

func (g *RubyGenerator) method(e *emitter, cls *uir.Class, fn *uir.Function) {
	name := fn.Name
	ctor := cls != nil && isConstructor(cls, fn)
	if ctor {
		name = "initialize"
	}
	if fn.Attrs.Static {
		name = "self." + name
	}

	if params := g.params(fn.Parameters); params != "" {
		e.line("def " + name + "(" + params + ")")
	} else {
		e.line("def " + name)
	}
	e.in()

	switch {
	case ctor:
		for _, p := range fn.Parameters {
			e.line("@" + p.Name + " = " + p.Name)
		}
	case fn.SourceLang == lang.Ruby && len(blockBody(fn.SourceCode)) > 0:
		e.lines(blockBody(fn.SourceCode))
	default:
		e.line(todo(fn.Name, lang.Ruby))
		if fn.ReturnType.Base != uir.Void {
			e.line(uir.DefaultReturn(fn.ReturnType, lang.Ruby))
		}
	}

	e.out()
	e.line("end")
}

func (g *RubyGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		switch {
		case strings.HasPrefix(p.Name, "*") || strings.HasPrefix(p.Name, "&"):
			parts = append(parts, p.Name)
		case p.Default != "":
			parts = append(parts, p.Name+" = "+formatValue(p.Default, p.Type, lang.Ruby))
		case !p.Required:
			parts = append(parts, p.Name+" = nil")
		default:
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, ", ")
}
