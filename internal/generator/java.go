package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// JavaGenerator emits java source from a module. Free functions are
// wrapped in a utility class named after the module, since java has no
// top-level functions.
type JavaGenerator struct{}

func (JavaGenerator) Language() lang.Language { return lang.Java }

func (g *JavaGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")

	if translated := imports.TranslateAll(m.Imports, lang.Java); len(translated) > 0 {
		for _, stmt := range translated {
			if !strings.HasSuffix(stmt, ";") && !strings.HasPrefix(stmt, "//") {
				stmt += ";"
			}
			e.line(stmt)
		}
		e.blank()
	}

	for i := range m.Classes {
		g.declaration(e, &m.Classes[i])
		e.blank()
	}

	if len(m.Functions) > 0 || len(m.Variables) > 0 {
		e.line("public class " + exportCap(m.Name) + " {")
		e.in()
		for _, v := range m.Variables {
			g.field(e, &v)
		}
		if len(m.Variables) > 0 {
			e.blank()
		}
		for i := range m.Functions {
			g.method(e, nil, &m.Functions[i], true)
			e.blank()
		}
		e.out()
		e.line("}")
	}

	return e.String()
}

func (g *JavaGenerator) field(e *emitter, v *uir.Variable) {
	typ := uir.MapType(v.Type, lang.Java)
	head := "public static "
	if v.IsConstant {
		head += "final "
	}
	if v.Value == "" {
		e.line(head + typ + " " + v.Name + ";")
		return
	}
	e.line(head + typ + " " + v.Name + " = " + formatValue(v.Value, v.Type, lang.Java) + ";")
}

func (g *JavaGenerator) declaration(e *emitter, cls *uir.Class) {
	switch cls.Attrs.Kind {
	case uir.KindInterface, uir.KindTrait:
		g.iface(e, cls)
	case uir.KindEnum:
		g.enum(e, cls)
	default:
		g.class(e, cls)
	}
}

func (g *JavaGenerator) iface(e *emitter, cls *uir.Class) {
	head := "public interface " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " extends " + strings.Join(cls.BaseClasses, ", ")
	}
	e.line(head + " {")
	e.in()
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		e.line(uir.MapType(fn.ReturnType, lang.Java) + " " + fn.Name +
			"(" + g.params(fn.Parameters) + ");")
	}
	e.out()
	e.line("}")
}

func (g *JavaGenerator) enum(e *emitter, cls *uir.Class) {
	e.line("public enum " + cls.Name + " {")
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

func (g *JavaGenerator) class(e *emitter, cls *uir.Class) {
	head := "public class " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " extends " + cls.BaseClasses[0]
		if len(cls.BaseClasses) > 1 {
			head += " implements " + strings.Join(cls.BaseClasses[1:], ", ")
		}
	}
	e.line(head + " {")
	e.in()

	members := fields(cls)
	for _, prop := range members {
		e.line("private " + uir.MapType(prop.Type, lang.Java) + " " + prop.Name + ";")
	}
	if len(members) > 0 {
		e.blank()
	}

	for i := range cls.Methods {
		g.method(e, cls, &cls.Methods[i], false)
		e.blank()
	}

	e.out()
	e.line("}")
}

func (g *JavaGenerator) method(e *emitter, cls *uir.Class, fn *uir.Function, forceStatic bool) {
	if cls != nil && isConstructor(cls, fn) {
		e.line("public " + cls.Name + "(" + g.params(fn.Parameters) + ") {")
		e.in()
		for _, p := range fn.Parameters {
			e.line("this." + p.Name + " = " + p.Name + ";")
		}
		e.out()
		e.line("}")
		return
	}

	head := "public "
	if fn.Attrs.Visibility == uir.Private {
		head = "private "
	}
	if fn.Attrs.Static || forceStatic {
		head += "static "
	}
	head += uir.MapType(fn.ReturnType, lang.Java) + " " + fn.Name
	e.line(head + "(" + g.params(fn.Parameters) + ") {")
	e.in()

	if fn.SourceLang == lang.Java && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line(todo(fn.Name, lang.Java))
		if fn.ReturnType.Base != uir.Void {
			e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.Java) + ";")
		}
	}

	e.out()
	e.line("}")
}

func (g *JavaGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, uir.MapType(p.Type, lang.Java)+" "+p.Name)
	}
	return strings.Join(parts, ", ")
}
