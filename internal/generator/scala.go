package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// ScalaGenerator emits scala source from a module. Free functions and module
// variables land in an object named after the module.
type ScalaGenerator struct{}

func (ScalaGenerator) Language() lang.Language { return lang.Scala }

func (g *ScalaGenerator) Generate(m *uir.Module) string {
	e := newEmitter("  ")

	if translated := imports.TranslateAll(m.Imports, lang.Scala); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	for i := range m.Classes {
		g.declaration(e, &m.Classes[i])
		e.blank()
	}

	if len(m.Functions) > 0 || len(m.Variables) > 0 {
		e.line("object " + exportCap(m.Name) + " {")
		e.in()
		for _, v := range m.Variables {
			keyword := "var"
			if v.IsConstant {
				keyword = "val"
			}
			e.line(keyword + " " + v.Name + ": " + uir.MapType(v.Type, lang.Scala) +
				" = " + formatValue(v.Value, v.Type, lang.Scala))
		}
		if len(m.Variables) > 0 {
			e.blank()
		}
		for i := range m.Functions {
			g.function(e, &m.Functions[i])
			e.blank()
		}
		e.out()
		e.line("}")
	}

	return e.String()
}

func (g *ScalaGenerator) declaration(e *emitter, cls *uir.Class) {
	switch cls.Attrs.Kind {
	case uir.KindInterface, uir.KindTrait:
		g.trait(e, cls)
	case uir.KindEnum:
		g.enum(e, cls)
	case uir.KindDataClass, uir.KindStruct:
		g.caseClass(e, cls)
	case uir.KindModule:
		g.object(e, cls)
	default:
		g.class(e, cls)
	}
}

func (g *ScalaGenerator) trait(e *emitter, cls *uir.Class) {
	head := "trait " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " extends " + strings.Join(cls.BaseClasses, " with ")
	}
	e.line(head + " {")
	e.in()
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		e.line("def " + fn.Name + "(" + g.params(fn.Parameters) + "): " +
			uir.MapType(fn.ReturnType, lang.Scala))
	}
	e.out()
	e.line("}")
}

func (g *ScalaGenerator) enum(e *emitter, cls *uir.Class) {
	e.line("object " + cls.Name + " extends Enumeration {")
	e.in()
	names := make([]string, 0, len(cls.Properties))
	for _, member := range cls.Properties {
		names = append(names, exportCap(member.Name))
	}
	if len(names) > 0 {
		e.line("val " + strings.Join(names, ", ") + " = Value")
	}
	e.out()
	e.line("}")
}

func (g *ScalaGenerator) caseClass(e *emitter, cls *uir.Class) {
	slots := make([]string, 0, len(cls.Properties))
	for _, prop := range fields(cls) {
		slots = append(slots, prop.Name+": "+uir.MapType(prop.Type, lang.Scala))
	}
	e.line("case class " + cls.Name + "(" + strings.Join(slots, ", ") + ")")
}

func (g *ScalaGenerator) object(e *emitter, cls *uir.Class) {
	e.line("object " + cls.Name + " {")
	e.in()
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

func (g *ScalaGenerator) class(e *emitter, cls *uir.Class) {
	head := "class " + cls.Name
	if ctor := findConstructor(cls); ctor != nil {
		slots := make([]string, 0, len(ctor.Parameters))
		for _, p := range ctor.Parameters {
			slots = append(slots, "val "+p.Name+": "+uir.MapType(p.Type, lang.Scala))
		}
		head += "(" + strings.Join(slots, ", ") + ")"
	}
	if len(cls.BaseClasses) > 0 {
		head += " extends " + strings.Join(cls.BaseClasses, " with ")
	}
	e.line(head + " {")
	e.in()
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

func (g *ScalaGenerator) function(e *emitter, fn *uir.Function) {
	e.line("def " + fn.Name + "(" + g.params(fn.Parameters) + "): " +
		uir.MapType(fn.ReturnType, lang.Scala) + " = {")
	e.in()

	if fn.SourceLang == lang.Scala && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line(todo(fn.Name, lang.Scala))
		e.line(uir.DefaultReturn(fn.ReturnType, lang.Scala))
	}

	e.out()
	e.line("}")
}

func (g *ScalaGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.Name == "self" || p.Name == "this" {
			continue
		}
		part := p.Name + ": " + uir.MapType(p.Type, lang.Scala)
		if p.Default != "" {
			part += " = " + formatValue(p.Default, p.Type, lang.Scala)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
