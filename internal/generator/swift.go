package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// SwiftGenerator emits swift source from a module. Interface- and
// trait-marked types become protocols, struct-marked types become structs.
type SwiftGenerator struct{}

func (SwiftGenerator) Language() lang.Language { return lang.Swift }

func (g *SwiftGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")

	if translated := imports.TranslateAll(m.Imports, lang.Swift); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	for _, v := range m.Variables {
		keyword := "var"
		if v.IsConstant {
			keyword = "let"
		}
		if v.Value == "" {
			e.line(keyword + " " + v.Name + ": " + uir.MapType(v.Type, lang.Swift) + "? = nil")
		} else {
			e.line(keyword + " " + v.Name + " = " + formatValue(v.Value, v.Type, lang.Swift))
		}
	}
	if len(m.Variables) > 0 {
		e.blank()
	}

	for i := range m.Classes {
		g.declaration(e, &m.Classes[i])
		e.blank()
	}
	for i := range m.Functions {
		g.function(e, &m.Functions[i])
		e.blank()
	}

	return e.String()
}

func (g *SwiftGenerator) declaration(e *emitter, cls *uir.Class) {
	switch cls.Attrs.Kind {
	case uir.KindInterface, uir.KindTrait:
		g.protocol(e, cls)
	case uir.KindEnum:
		g.enum(e, cls)
	case uir.KindStruct, uir.KindDataClass:
		g.container(e, cls, "struct", false)
	default:
		g.container(e, cls, "class", true)
	}
}

func (g *SwiftGenerator) protocol(e *emitter, cls *uir.Class) {
	head := "protocol " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += ": " + strings.Join(cls.BaseClasses, ", ")
	}
	e.line(head + " {")
	e.in()
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		sig := "func " + fn.Name + "(" + g.params(fn.Parameters) + ")"
		if fn.ReturnType.Base != uir.Void {
			sig += " -> " + uir.MapType(fn.ReturnType, lang.Swift)
		}
		e.line(sig)
	}
	e.out()
	e.line("}")
}

func (g *SwiftGenerator) enum(e *emitter, cls *uir.Class) {
	e.line("enum " + cls.Name + " {")
	e.in()
	for _, member := range cls.Properties {
		e.line("case " + member.Name)
	}
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		if isConstructor(cls, fn) {
			continue
		}
		e.blank()
		g.function(e, fn)
	}
	e.out()
	e.line("}")
}

// container emits a struct or class body. Structs rely on the memberwise
// initializer, classes get an explicit init.
func (g *SwiftGenerator) container(e *emitter, cls *uir.Class, keyword string, explicitInit bool) {
	head := keyword + " " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += ": " + strings.Join(cls.BaseClasses, ", ")
	}
	e.line(head + " {")
	e.in()

	members := fields(cls)
	for _, prop := range members {
		e.line("var " + prop.Name + ": " + uir.MapType(prop.Type, lang.Swift))
	}
	if len(members) > 0 {
		e.blank()
	}

	if explicitInit && len(members) > 0 {
		slots := make([]string, 0, len(members))
		for _, p := range members {
			slots = append(slots, p.Name+": "+uir.MapType(p.Type, lang.Swift))
		}
		e.line("init(" + strings.Join(slots, ", ") + ") {")
		e.in()
		for _, p := range members {
			e.line("self." + p.Name + " = " + p.Name)
		}
		e.out()
		e.line("}")
		e.blank()
	}

	for i := range cls.Methods {
		fn := &cls.Methods[i]
		if isConstructor(cls, fn) {
			continue
		}
		g.function(e, fn)
		e.blank()
	}

	e.out()
	e.line("}")
}

func (g *SwiftGenerator) function(e *emitter, fn *uir.Function) {
	head := "func " + fn.Name
	if fn.Attrs.Static {
		head = "static " + head
	}
	head += "(" + g.params(fn.Parameters) + ")"
	if fn.Attrs.Async {
		head += " async"
	}
	if fn.ReturnType.Base != uir.Void {
		head += " -> " + uir.MapType(fn.ReturnType, lang.Swift)
	}
	e.line(head + " {")
	e.in()

	if fn.SourceLang == lang.Swift && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line(todo(fn.Name, lang.Swift))
		if fn.ReturnType.Base != uir.Void {
			e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.Swift))
		}
	}

	e.out()
	e.line("}")
}

func (g *SwiftGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.Name == "self" || p.Name == "this" {
			continue
		}
		part := p.Name + ": " + uir.MapType(p.Type, lang.Swift)
		if p.Default != "" {
			part += " = " + formatValue(p.Default, p.Type, lang.Swift)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
