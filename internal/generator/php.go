package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// PHPGenerator emits php source from a module.
type PHPGenerator struct{}

func (PHPGenerator) Language() lang.Language { return lang.PHP }

func (g *PHPGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")
	e.line("<?php")
	e.blank()

	if translated := imports.TranslateAll(m.Imports, lang.PHP); len(translated) > 0 {
		for _, stmt := range translated {
			if !strings.HasSuffix(stmt, ";") && !strings.HasPrefix(stmt, "//") {
				stmt += ";"
			}
			e.line(stmt)
		}
		e.blank()
	}

	for _, v := range m.Variables {
		if v.IsConstant {
			e.line("const " + v.Name + " = " + formatValue(v.Value, v.Type, lang.PHP) + ";")
		} else {
			e.line("$" + v.Name + " = " + formatValue(v.Value, v.Type, lang.PHP) + ";")
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
		g.function(e, &m.Functions[i], false)
		e.blank()
	}

	return e.String()
}

func (g *PHPGenerator) declaration(e *emitter, cls *uir.Class) {
	switch cls.Attrs.Kind {
	case uir.KindInterface:
		g.iface(e, cls)
	case uir.KindTrait:
		g.trait(e, cls)
	case uir.KindEnum:
		g.enum(e, cls)
	default:
		g.class(e, cls)
	}
}

func (g *PHPGenerator) iface(e *emitter, cls *uir.Class) {
	head := "interface " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " extends " + strings.Join(cls.BaseClasses, ", ")
	}
	e.line(head)
	e.line("{")
	e.in()
	for i := range cls.Methods {
		fn := &cls.Methods[i]
		e.line("public function " + fn.Name + "(" + g.params(fn.Parameters) + "): " +
			uir.MapType(fn.ReturnType, lang.PHP) + ";")
	}
	e.out()
	e.line("}")
}

func (g *PHPGenerator) trait(e *emitter, cls *uir.Class) {
	e.line("trait " + cls.Name)
	e.line("{")
	e.in()
	for i := range cls.Methods {
		g.function(e, &cls.Methods[i], true)
		e.blank()
	}
	e.out()
	e.line("}")
}

func (g *PHPGenerator) enum(e *emitter, cls *uir.Class) {
	e.line("enum " + cls.Name)
	e.line("{")
	e.in()
	for _, member := range cls.Properties {
		e.line("case " + exportCap(member.Name) + ";")
	}
	e.out()
	e.line("}")
}

func (g *PHPGenerator) class(e *emitter, cls *uir.Class) {
	head := "class " + cls.Name
	if len(cls.BaseClasses) > 0 {
		head += " extends " + cls.BaseClasses[0]
	}
	e.line(head)
	e.line("{")
	e.in()

	members := fields(cls)
	for _, prop := range members {
		e.line("public " + uir.MapType(prop.Type, lang.PHP) + " $" + prop.Name + ";")
	}
	if len(members) > 0 {
		e.blank()
	}

	if ctor := findConstructor(cls); ctor != nil {
		e.line("public function __construct(" + g.params(ctor.Parameters) + ")")
		e.line("{")
		e.in()
		for _, p := range ctor.Parameters {
			e.line("$this->" + p.Name + " = $" + p.Name + ";")
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
		g.function(e, fn, true)
		e.blank()
	}

	e.out()
	e.line("}")
}

func (g *PHPGenerator) function(e *emitter, fn *uir.Function, method bool) {
	head := "function " + fn.Name
	if method {
		visibility := "public"
		if fn.Attrs.Visibility == uir.Private {
			visibility = "private"
		}
		head = visibility + " "
		if fn.Attrs.Static {
			head += "static "
		}
		head += "function " + fn.Name
	}
	e.line(head + "(" + g.params(fn.Parameters) + "): " + uir.MapType(fn.ReturnType, lang.PHP))
	e.line("{")
	e.in()

	if fn.SourceLang == lang.PHP && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line(todo(fn.Name, lang.PHP))
		if fn.ReturnType.Base != uir.Void {
			e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.PHP) + ";")
		}
	}

	e.out()
	e.line("}")
}

func (g *PHPGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		typ := uir.MapType(p.Type, lang.PHP)
		switch {
		case p.Default != "":
			parts = append(parts, typ+" $"+p.Name+" = "+formatValue(p.Default, p.Type, lang.PHP))
		case !p.Required:
			parts = append(parts, "?"+typ+" $"+p.Name+" = null")
		default:
			parts = append(parts, typ+" $"+p.Name)
		}
	}
	return strings.Join(parts, ", ")
}
