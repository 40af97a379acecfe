package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// KotlinGenerator emits kotlin source from a module. Dataclass-marked types
// become data classes, module-marked types become objects.
type KotlinGenerator struct{}

func (KotlinGenerator) Language() lang.Language { return lang.Kotlin }

func (g *KotlinGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")

	if translated := imports.TranslateAll(m.Imports, lang.Kotlin); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	for _, v := range m.Variables {
		keyword := "var"
		if v.IsConstant {
			keyword = "val"
		}
		if v.Value == "" {
			e.line(keyword + " " + v.Name + ": " + uir.MapType(v.Type, lang.Kotlin) + "? = null")
		} else {
			e.line(keyword + " " + v.Name + " = " + formatValue(v.Value, v.Type, lang.Kotlin))
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

func (g *KotlinGenerator) declaration(e *emitter, cls *uir.Class) {
	switch cls.Attrs.Kind {
	case uir.KindInterface, uir.KindTrait:
		g.iface(e, cls)
	case uir.KindEnum:
		g.enum(e, cls)
	case uir.KindDataClass:
		g.dataClass(e, cls)
	case uir.KindModule:
		g.object(e, cls)
	default:
		g.class(e, cls)
	}
}

func (g *KotlinGenerator) iface(e *emitter, cls *uir.Class) {
	head := "interface " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " : " + strings.Join(cls.BaseClasses, ", ")
	}
	e.line(head + " {")
	e.in()
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		sig := "fun " + fn.Name + "(" + g.params(fn.Parameters) + ")"
		if fn.ReturnType.Base != uir.Void {
			sig += ": " + uir.MapType(fn.ReturnType, lang.Kotlin)
		}
		e.line(sig)
	}
	e.out()
	e.line("}")
}

func (g *KotlinGenerator) enum(e *emitter, cls *uir.Class) {
	e.line("enum class " + cls.Name + " {")
	e.in()
	names := make([]string, 0, len(cls.Properties))
	for _, member := range cls.Properties {
		names = append(names, strings.ToUpper(member.Name))
	}
	if len(names) > 0 {
		e.line(strings.Join(names, ", "))
	}
	e.out()
	e.line("}")
}

func (g *KotlinGenerator) dataClass(e *emitter, cls *uir.Class) {
	slots := make([]string, 0, len(cls.Properties))
	for _, prop := range fields(cls) {
		slots = append(slots, "val "+prop.Name+": "+uir.MapType(prop.Type, lang.Kotlin))
	}
	e.line("data class " + cls.Name + "(" + strings.Join(slots, ", ") + ")")
}

func (g *KotlinGenerator) object(e *emitter, cls *uir.Class) {
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

func (g *KotlinGenerator) class(e *emitter, cls *uir.Class) {
	head := "class " + cls.Name
	if ctor := findConstructor(cls); ctor != nil {
		slots := make([]string, 0, len(ctor.Parameters))
		for _, p := range ctor.Parameters {
			slots = append(slots, "val "+p.Name+": "+uir.MapType(p.Type, lang.Kotlin))
		}
		head += "(" + strings.Join(slots, ", ") + ")"
	}
	if len(cls.BaseClasses) > 0 {
		head += " : " + cls.BaseClasses[0] + "()"
	}

	methods := make([]*uir.Function, 0, len(cls.Methods))
	for i := range cls.Methods {
		if !isConstructor(cls, &cls.Methods[i]) {
			methods = append(methods, &cls.Methods[i])
		}
	}
	if len(methods) == 0 {
		e.line(head)
		return
	}

	e.line(head + " {")
	e.in()
	for _, fn := range methods {
		g.function(e, fn)
		e.blank()
	}
	e.out()
	e.line("}")
}

func (g *KotlinGenerator) function(e *emitter, fn *uir.Function) {
	head := "fun " + fn.Name
	if fn.Attrs.Async {
		head = "suspend fun " + fn.Name
	}
	head += "(" + g.params(fn.Parameters) + ")"
	if fn.ReturnType.Base != uir.Void {
		head += ": " + uir.MapType(fn.ReturnType, lang.Kotlin)
	}
	e.line(head + " {")
	e.in()

	if fn.SourceLang == lang.Kotlin && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line(todo(fn.Name, lang.Kotlin))
		if fn.ReturnType.Base != uir.Void {
			e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.Kotlin))
		}
	}

	e.out()
	e.line("}")
}

func (g *KotlinGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.Name == "self" || p.Name == "this" {
			continue
		}
		part := p.Name + ": " + uir.MapType(p.Type, lang.Kotlin)
		if p.Default != "" {
			part += " = " + formatValue(p.Default, p.Type, lang.Kotlin)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
