package generator

import (
	"strconv"
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// BashGenerator emits a shell script from a module. Shell has no types or
// classes; methods become prefixed functions and parameters become comment
// hints above positional arguments.
type BashGenerator struct{}

func (BashGenerator) Language() lang.Language { return lang.Bash }

func (g *BashGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")
	e.line("#!/usr/bin/env bash")
	e.line("# module: " + m.Name)
	e.blank()

	if translated := imports.TranslateAll(m.Imports, lang.Bash); len(translated) > 0 {
		e.lines(translated)
		e.blank()
	}

	for _, v := range m.Variables {
		if v.IsConstant {
			e.line("readonly " + strings.ToUpper(v.Name) + "=" + g.value(&v))
		} else {
			e.line(v.Name + "=" + g.value(&v))
		}
	}
	if len(m.Variables) > 0 {
		e.blank()
	}

	for i := range m.Classes {
		cls := &m.Classes[i]
		for j := range cls.Methods {
			fn := &cls.Methods[j]
			if isConstructor(cls, fn) {
				continue
			}
			// Method names keep the owning type's spelling; identifiers are
			// never re-cased.
			g.function(e, cls.Name+"_"+fn.Name, fn)
			e.blank()
		}
	}
	for i := range m.Functions {
		g.function(e, m.Functions[i].Name, &m.Functions[i])
		e.blank()
	}

	return e.String()
}

func (g *BashGenerator) function(e *emitter, name string, fn *uir.Function) {
	e.line(name + "() {")
	e.in()

	for i, p := range fn.Parameters {
		if p.Name == "self" || p.Name == "this" {
			continue
		}
		e.line("local " + p.Name + `="${` + strconv.Itoa(i+1) + `}"`)
	}

	if fn.SourceLang == lang.Bash && len(braceBody(fn.SourceCode)) > 0 {
		e.lines(braceBody(fn.SourceCode))
	} else {
		e.line(todo(fn.Name, lang.Bash))
		if fn.ReturnType.Base != uir.Void {
			e.line("echo " + uir.DefaultReturn(fn.ReturnType, lang.Bash))
		}
	}

	e.out()
	e.line("}")
}

func (g *BashGenerator) value(v *uir.Variable) string {
	if v.Value == "" {
		return `""`
	}
	if v.Type.Base == uir.String && !strings.HasPrefix(v.Value, `"`) {
		return `"` + v.Value + `"`
	}
	return v.Value
}
