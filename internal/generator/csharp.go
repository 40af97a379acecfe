package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// CSharpGenerator emits C# source from a module. Free functions and module
// variables are wrapped in a static class named after the module.
type CSharpGenerator struct{}

func (CSharpGenerator) Language() lang.Language { return lang.CSharp }

func (g *CSharpGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")

	if translated := imports.TranslateAll(m.Imports, lang.CSharp); len(translated) > 0 {
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
		e.line("public static class " + exportCap(m.Name) + " {")
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

func (g *CSharpGenerator) field(e *emitter, v *uir.Variable) {
	typ := uir.MapType(v.Type, lang.CSharp)
	head := "public static "
	if v.IsConstant {
		head = "public const "
	}
	if v.Value == "" {
		e.line(head + typ + " " + v.Name + ";")
		return
	}
	e.line(head + typ + " " + v.Name + " = " + formatValue(v.Value, v.Type, lang.CSharp) + ";")
}

func (g *CSharpGenerator) declaration(e *emitter, cls *uir.Class) {
	switch cls.Attrs.Kind {
	case uir.KindInterface, uir.KindTrait:
		g.iface(e, cls)
	case uir.KindEnum:
		g.enum(e, cls)
	case uir.KindStruct:
		g.class(e, cls, "struct")
	default:
		g.class(e, cls, "class")
	}
}

func (g *CSharpGenerator) iface(e *emitter, cls *uir.Class) {
	head := "public interface " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " : " + strings.Join(cls.BaseClasses, ", ")
	}
	e.line(head + " {")
	e.in()
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		e.line(uir.MapType(fn.ReturnType, lang.CSharp) + " " + fn.Name +
			"(" + g.params(fn.Parameters) + ");")
	}
	e.out()
	e.line("}")
}

func (g *CSharpGenerator) enum(e *emitter, cls *uir.Class) {
	e.line("public enum " + cls.Name + " {")
	e.in()
	names := make([]string, 0, len(cls.Properties))
	for _, member := range cls.Properties {
		names = append(names, exportCap(member.Name))
	}
	if len(names) > 0 {
		e.line(strings.Join(names, ", "))
	}
	e.out()
	e.line("}")
}

func (g *CSharpGenerator) class(e *emitter, cls *uir.Class, keyword string) {
	head := "public " + keyword + " " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " : " + strings.Join(cls.BaseClasses, ", ")
	}
	e.line(head + " {")
	e.in()

	members := fields(cls)
	for _, prop := range members {
		// Member names pass through unchanged; this engine never re-cases
		// identifiers.
		e.line("public " + uir.MapType(prop.Type, lang.CSharp) + " " +
			prop.Name + " { get; set; }")
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

func (g *CSharpGenerator) method(e *emitter, cls *uir.Class, fn *uir.Function, forceStatic bool) {
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
	if fn.Attrs.Async {
		head += "async "
	}
	head += uir.MapType(fn.ReturnType, lang.CSharp) + " " + fn.Name
	e.line(head + "(" + g.params(fn.Parameters) + ") {")
	e.in()

	if fn.SourceLang == lang.CSharp && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line(todo(fn.Name, lang.CSharp))
		if fn.ReturnType.Base != uir.Void {
			e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.CSharp) + ";")
		}
	}

	e.out()
	e.line("}")
}

func (g *CSharpGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		part := uir.MapType(p.Type, lang.CSharp) + " " + p.Name
		if p.Default != "" {
			part += " = " + formatValue(p.Default, p.Type, lang.CSharp)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
