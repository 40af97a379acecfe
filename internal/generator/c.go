package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// CGenerator emits C source from a module. Classes become typedef structs
// with free functions taking an explicit receiver pointer. At project scope
// it also produces a header per module.
type CGenerator struct{}

func (CGenerator) Language() lang.Language { return lang.C }

func (g *CGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")
	g.includes(e, m)

	for _, v := range m.Variables {
		if v.IsConstant {
			e.line("#define " + strings.ToUpper(v.Name) + " " + formatValue(v.Value, v.Type, lang.C))
		} else {
			e.line(uir.MapType(v.Type, lang.C) + " " + v.Name + " = " +
				formatValue(v.Value, v.Type, lang.C) + ";")
		}
	}
	if len(m.Variables) > 0 {
		e.blank()
	}

	for i := range m.Classes {
		g.typedef(e, &m.Classes[i])
		e.blank()
	}

	// Prototypes first so call order inside the file never matters.
	protos := g.prototypes(m)
	if len(protos) > 0 {
		e.lines(protos)
		e.blank()
	}

	for i := range m.Classes {
		cls := &m.Classes[i]
		if cls.Attrs.Kind == uir.KindEnum {
			continue
		}
		for j := range cls.Methods {
			fn := &cls.Methods[j]
			if isConstructor(cls, fn) {
				continue
			}
			g.function(e, cls, fn)
			e.blank()
		}
	}
	for i := range m.Functions {
		g.function(e, nil, &m.Functions[i])
		e.blank()
	}

	return e.String()
}

// GenerateProject emits one .c and one .h per module; the Makefile comes
// from the shared manifest table.
func (g *CGenerator) GenerateProject(p *uir.Project) map[string]string {
	files := make(map[string]string, 2*len(p.Modules))
	for _, m := range p.Modules {
		files[m.Name+".c"] = g.Generate(m)
		files[m.Name+".h"] = g.header(m)
	}
	return files
}

func (g *CGenerator) includes(e *emitter, m *uir.Module) {
	seen := map[string]bool{}
	for _, stmt := range imports.TranslateAll(m.Imports, lang.C) {
		e.line(stmt)
		seen[stmt] = true
	}
	for _, std := range []string{
		"#include <stdio.h>",
		"#include <stdlib.h>",
		"#include <stdbool.h>",
		"#include <string.h>",
	} {
		if !seen[std] {
			e.line(std)
		}
	}
	e.blank()
}

func (g *CGenerator) typedef(e *emitter, cls *uir.Class) {
	if cls.Attrs.Kind == uir.KindEnum {
		e.line("typedef enum {")
		e.in()
		for _, member := range cls.Properties {
			e.line(strings.ToUpper(cls.Name) + "_" + strings.ToUpper(member.Name) + ",")
		}
		e.out()
		e.line("} " + cls.Name + ";")
		return
	}

	e.line("typedef struct {")
	e.in()
	for _, prop := range fields(cls) {
		e.line(uir.MapType(prop.Type, lang.C) + " " + prop.Name + ";")
	}
	e.out()
	e.line("} " + cls.Name + ";")
}

func (g *CGenerator) prototypes(m *uir.Module) []string {
	var protos []string
	for i := range m.Classes {
		cls := &m.Classes[i]
		if cls.Attrs.Kind == uir.KindEnum {
			continue
		}
		for j := range cls.Methods {
			fn := &cls.Methods[j]
			if isConstructor(cls, fn) {
				continue
			}
			protos = append(protos, g.signature(cls, fn)+";")
		}
	}
	for i := range m.Functions {
		protos = append(protos, g.signature(nil, &m.Functions[i])+";")
	}
	return protos
}

// signature renders a function head; methods take the owning struct as an
// explicit first argument and carry its name as a prefix.
func (g *CGenerator) signature(cls *uir.Class, fn *uir.Function) string {
	name := fn.Name
	params := g.params(fn.Parameters)
	if cls != nil {
		name = strings.ToLower(cls.Name) + "_" + fn.Name
		recv := cls.Name + " *self"
		if params == "void" {
			params = recv
		} else {
			params = recv + ", " + params
		}
	}
	return uir.MapType(fn.ReturnType, lang.C) + " " + name + "(" + params + ")"
}

func (g *CGenerator) function(e *emitter, cls *uir.Class, fn *uir.Function) {
	e.line(g.signature(cls, fn) + " {")
	e.in()

	if cls == nil && fn.SourceLang == lang.C && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line("/* TODO: Implement " + fn.Name + " */")
		if fn.ReturnType.Base != uir.Void {
			e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.C) + ";")
		}
	}

	e.out()
	e.line("}")
}

func (g *CGenerator) header(m *uir.Module) string {
	guard := strings.ToUpper(strings.ReplaceAll(m.Name, "-", "_")) + "_H"
	e := newEmitter("    ")
	e.line("#ifndef " + guard)
	e.line("#define " + guard)
	e.blank()

	for i := range m.Classes {
		g.typedef(e, &m.Classes[i])
		e.blank()
	}
	if protos := g.prototypes(m); len(protos) > 0 {
		e.lines(protos)
		e.blank()
	}

	e.line("#endif /* " + guard + " */")
	return e.String()
}

func (g *CGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.Name == "self" || p.Name == "this" {
			continue
		}
		parts = append(parts, uir.MapType(p.Type, lang.C)+" "+p.Name)
	}
	if len(parts) == 0 {
		return "void"
	}
	return strings.Join(parts, ", ")
}
