package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// TypeScriptGenerator emits typescript source from a module.
type TypeScriptGenerator struct{}

func (TypeScriptGenerator) Language() lang.Language { return lang.TypeScript }

func (g *TypeScriptGenerator) Generate(m *uir.Module) string {
	e := newEmitter("  ")

	if translated := imports.TranslateAll(m.Imports, lang.TypeScript); len(translated) > 0 {
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
		g.declaration(e, &m.Classes[i])
		e.blank()
	}
	for i := range m.Functions {
		g.function(e, &m.Functions[i])
		e.blank()
	}

	return e.String()
}

func (g *TypeScriptGenerator) variable(v *uir.Variable) string {
	keyword := "let"
	if v.IsConstant {
		keyword = "const"
	}
	typ := uir.MapType(v.Type, lang.TypeScript)
	if v.Value == "" {
		return "export " + keyword + " " + v.Name + ": " + typ + ";"
	}
	return "export " + keyword + " " + v.Name + ": " + typ + " = " +
		formatValue(v.Value, v.Type, lang.TypeScript) + ";"
}

// declaration routes a type-with-members to the closest typescript
// construct keyed on the parser's structural kind.
func (g *TypeScriptGenerator) declaration(e *emitter, cls *uir.Class) {
	switch cls.Attrs.Kind {
	case uir.KindInterface, uir.KindTrait:
		g.iface(e, cls)
	case uir.KindEnum:
		g.enum(e, cls)
	default:
		g.class(e, cls)
	}
}

func (g *TypeScriptGenerator) iface(e *emitter, cls *uir.Class) {
	head := "export interface " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " extends " + strings.Join(cls.BaseClasses, ", ")
	}
	e.line(head + " {")
	e.in()
	for _, prop := range cls.Properties {
		e.line(prop.Name + ": " + uir.MapType(prop.Type, lang.TypeScript) + ";")
	}
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		e.line(fn.Name + "(" + g.params(fn.Parameters) + "): " +
			uir.MapType(fn.ReturnType, lang.TypeScript) + ";")
	}
	e.out()
	e.line("}")
}

func (g *TypeScriptGenerator) enum(e *emitter, cls *uir.Class) {
	e.line("export enum " + cls.Name + " {")
	e.in()
	for _, member := range cls.Properties {
		e.line(member.Name + ",")
	}
	e.out()
	e.line("}")
}

func (g *TypeScriptGenerator) class(e *emitter, cls *uir.Class) {
	head := "export class " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " extends " + cls.BaseClasses[0]
	}
	e.line(head + " {")
	e.in()

	members := fields(cls)
	for _, prop := range members {
		e.line(prop.Name + ": " + uir.MapType(prop.Type, lang.TypeScript) + ";")
	}
	if len(members) > 0 {
		e.blank()
	}

	if ctor := findConstructor(cls); ctor != nil {
		e.line("constructor(" + g.params(ctor.Parameters) + ") {")
		e.in()
		if len(cls.BaseClasses) > 0 {
			e.line("super();")
		}
		for _, p := range ctor.Parameters {
			e.line("this." + p.Name + " = " + p.Name + ";")
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
		g.method(e, fn)
		e.blank()
	}
	e.out()
	e.line("}")
}

func (g *TypeScriptGenerator) method(e *emitter, fn *uir.Function) {
	head := ""
	if fn.Attrs.Visibility == uir.Private {
		head += "private "
	}
	if fn.Attrs.Static {
		head += "static "
	}
	if fn.Attrs.Async {
		head += "async "
	}
	e.line(head + fn.Name + "(" + g.params(fn.Parameters) + "): " +
		uir.MapType(fn.ReturnType, lang.TypeScript) + " {")
	e.in()
	g.body(e, fn)
	e.out()
	e.line("}")
}

func (g *TypeScriptGenerator) function(e *emitter, fn *uir.Function) {
	head := "export function " + fn.Name
	if fn.Attrs.Async {
		head = "export async function " + fn.Name
	}
	e.line(head + "(" + g.params(fn.Parameters) + "): " +
		uir.MapType(fn.ReturnType, lang.TypeScript) + " {")
	e.in()
	g.body(e, fn)
	e.out()
	e.line("}")
}

func (g *TypeScriptGenerator) body(e *emitter, fn *uir.Function) {
	if fn.SourceLang == lang.TypeScript {
		if body := braceBody(fn.SourceCode); len(body) > 0 {
			e.lines(body)
			return
		}
	}
	if body, ok := rewriteBody(fn, lang.TypeScript); ok && len(body) > 0 {
		e.lines(body)
		return
	}
	e.line(todo(fn.Name, lang.TypeScript))
	if fn.ReturnType.Base != uir.Void {
		e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.TypeScript) + ";")
	}
}

func (g *TypeScriptGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		s := p.Name + ": " + uir.MapType(p.Type, lang.TypeScript)
		if p.Default != "" {
			s += " = " + formatValue(p.Default, p.Type, lang.TypeScript)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
