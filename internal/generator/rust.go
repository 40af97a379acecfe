package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// RustGenerator emits rust source from a module. Class-marked types become
// structs with an impl block; trait- and enum-marked types keep their
// native construct.
type RustGenerator struct{}

func (RustGenerator) Language() lang.Language { return lang.Rust }

func (g *RustGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")
	e.line("//! " + m.Name + " module")
	e.blank()

	if translated := imports.TranslateAll(m.Imports, lang.Rust); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	constants := false
	for _, v := range m.Variables {
		if !v.IsConstant {
			continue
		}
		e.line("const " + strings.ToUpper(v.Name) + ": " + uir.MapType(v.Type, lang.Rust) +
			" = " + formatValue(v.Value, v.Type, lang.Rust) + ";")
		constants = true
	}
	if constants {
		e.blank()
	}

	for i := range m.Classes {
		g.declaration(e, &m.Classes[i])
		e.blank()
	}
	for i := range m.Classes {
		cls := &m.Classes[i]
		if cls.Attrs.Kind == uir.KindTrait || cls.Attrs.Kind == uir.KindEnum {
			continue
		}
		if len(cls.Methods) > 0 {
			g.impl(e, cls)
			e.blank()
		}
	}
	for i := range m.Functions {
		g.function(e, &m.Functions[i], false)
		e.blank()
	}

	return e.String()
}

func (g *RustGenerator) declaration(e *emitter, cls *uir.Class) {
	switch cls.Attrs.Kind {
	case uir.KindTrait, uir.KindInterface:
		e.line("pub trait " + cls.Name + " {")
		e.in()
		for i := range cls.Methods {
			fn := &cls.Methods[i]
			sig := "fn " + fn.Name + "(&self" + g.rest(fn.Parameters) + ")"
			if fn.ReturnType.Base != uir.Void {
				sig += " -> " + uir.MapType(fn.ReturnType, lang.Rust)
			}
			e.line(sig + ";")
		}
		e.out()
		e.line("}")
	case uir.KindEnum:
		e.line("pub enum " + cls.Name + " {")
		e.in()
		for _, member := range cls.Properties {
			e.line(exportCap(member.Name) + ",")
		}
		e.out()
		e.line("}")
	default:
		e.line("pub struct " + cls.Name + " {")
		e.in()
		for _, prop := range fields(cls) {
			e.line("pub " + prop.Name + ": " + uir.MapType(prop.Type, lang.Rust) + ",")
		}
		e.out()
		e.line("}")
	}
}

func (g *RustGenerator) impl(e *emitter, cls *uir.Class) {
	e.line("impl " + cls.Name + " {")
	e.in()

	if ctor := findConstructor(cls); ctor != nil {
		sig := "pub fn new(" + g.paramList(ctor.Parameters) + ") -> Self {"
		e.line(sig)
		e.in()
		e.line("Self {")
		e.in()
		for _, p := range ctor.Parameters {
			e.line(p.Name + ",")
		}
		e.out()
		e.line("}")
		e.out()
		e.line("}")
		e.blank()
	}

	for i := range cls.Methods {
		fn := &cls.Methods[i]
		if isConstructor(cls, fn) {
			continue
		}
		g.function(e, fn, true)
		e.blank()
	}

	e.out()
	e.line("}")
}

func (g *RustGenerator) function(e *emitter, fn *uir.Function, method bool) {
	params := g.paramList(fn.Parameters)
	if method {
		params = "&self" + g.rest(fn.Parameters)
	}
	head := "pub fn " + fn.Name + "(" + params + ")"
	if fn.Attrs.Async {
		head = "pub async fn " + fn.Name + "(" + params + ")"
	}
	if fn.ReturnType.Base != uir.Void {
		head += " -> " + uir.MapType(fn.ReturnType, lang.Rust)
	}
	e.line(head + " {")
	e.in()

	if fn.SourceLang == lang.Rust && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line(todo(fn.Name, lang.Rust))
		if fn.ReturnType.Base != uir.Void {
			e.line(uir.DefaultReturn(fn.ReturnType, lang.Rust))
		}
	}

	e.out()
	e.line("}")
}

func (g *RustGenerator) paramList(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.Name == "self" || strings.HasSuffix(p.Name, "self") {
			continue
		}
		parts = append(parts, p.Name+": "+uir.MapType(p.Type, lang.Rust))
	}
	return strings.Join(parts, ", ")
}

// rest renders the non-self parameters with a leading comma, for appending
// after a receiver.
func (g *RustGenerator) rest(ps []uir.Parameter) string {
	list := g.paramList(ps)
	if list == "" {
		return ""
	}
	return ", " + list
}
