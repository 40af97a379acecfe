package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// PythonGenerator emits python source from a module.
type PythonGenerator struct{}

func (PythonGenerator) Language() lang.Language { return lang.Python }

func (g *PythonGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")

	if translated := imports.TranslateAll(m.Imports, lang.Python); len(translated) > 0 {
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
		g.class(e, &m.Classes[i])
		e.blank()
		e.blank()
	}
	for i := range m.Functions {
		g.function(e, &m.Functions[i], false)
		e.blank()
		e.blank()
	}

	return e.String()
}

func (g *PythonGenerator) variable(v *uir.Variable) string {
	name := v.Name
	if v.IsConstant {
		name = strings.ToUpper(name)
	}
	if v.Value == "" {
		return name + ": " + uir.MapType(v.Type, lang.Python)
	}
	return name + " = " + formatValue(v.Value, v.Type, lang.Python)
}

func (g *PythonGenerator) class(e *emitter, cls *uir.Class) {
	if len(cls.BaseClasses) > 0 {
		e.line("class " + cls.Name + "(" + strings.Join(cls.BaseClasses, ", ") + "):")
	} else {
		e.line("class " + cls.Name + ":")
	}
	e.in()
	defer e.out()

	body := false
	for _, prop := range cls.Properties {
		e.line(prop.Name + ": " + uir.MapType(prop.Type, lang.Python))
		body = true
	}
	if len(cls.Properties) > 0 {
		e.blank()
	}
	for i := range cls.Methods {
		g.method(e, cls, &cls.Methods[i])
		e.blank()
		body = true
	}
	if !body {
		e.line("pass")
	}
}

func (g *PythonGenerator) method(e *emitter, cls *uir.Class, fn *uir.Function) {
	if isConstructor(cls, fn) {
		ctor := *fn
		ctor.Name = "__init__"
		ctor.ReturnType = uir.Sig(uir.Void)
		g.function(e, &ctor, true)
		return
	}
	g.function(e, fn, true)
}

func (g *PythonGenerator) function(e *emitter, fn *uir.Function, method bool) {
	params := ""
	if method && !fn.Attrs.Static {
		params = "self"
	}
	for _, p := range fn.Parameters {
		if params != "" {
			params += ", "
		}
		params += p.Name
		if p.Type.Base != uir.Any {
			params += ": " + uir.MapType(p.Type, lang.Python)
		}
		if p.Default != "" {
			params += " = " + formatValue(p.Default, p.Type, lang.Python)
		}
	}

	head := "def " + fn.Name + "(" + params + ")"
	if fn.Attrs.Async {
		head = "async " + head
	}
	if fn.ReturnType.Base != uir.Void {
		head += " -> " + uir.MapType(fn.ReturnType, lang.Python)
	}
	e.line(head + ":")
	e.in()
	defer e.out()

	if fn.SourceLang == lang.Python {
		if body := indentBody(fn.SourceCode); len(body) > 0 {
			e.lines(body)
			return
		}
	}
	if body, ok := rewriteBody(fn, lang.Python); ok && len(body) > 0 {
		e.lines(body)
		return
	}
	e.line(todo(fn.Name, lang.Python))
	if fn.ReturnType.Base == uir.Void {
		e.line("pass")
	} else {
		e.line("return " + uir.DefaultReturn(fn.ReturnType, lang.Python))
	}
}
