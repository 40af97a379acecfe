package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/imports"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// SQLGenerator emits a SQL script from a module. Table-kind classes become
// tables, functions become plpgsql skeletons, and anything that carried its
// own SQL definition is spliced through unchanged.
type SQLGenerator struct{}

func (SQLGenerator) Language() lang.Language { return lang.SQL }

func (g *SQLGenerator) Generate(m *uir.Module) string {
	e := newEmitter("    ")
	e.line("-- module: " + m.Name)
	e.blank()

	if translated := imports.TranslateAll(m.Imports, lang.SQL); len(translated) > 0 {
		for _, stmt := range translated {
			if !strings.HasSuffix(stmt, ";") && !strings.HasPrefix(stmt, "--") {
				stmt += ";"
			}
			e.line(stmt)
		}
		e.blank()
	}

	for i := range m.Classes {
		g.relation(e, &m.Classes[i])
		e.blank()
	}
	// Methods have no SQL construct of their own; they come out as routines
	// prefixed with the owning type's name.
	for i := range m.Classes {
		cls := &m.Classes[i]
		for j := range cls.Methods {
			fn := &cls.Methods[j]
			if isConstructor(cls, fn) {
				continue
			}
			g.routine(e, cls.Name+"_"+fn.Name, fn)
			e.blank()
		}
	}
	for i := range m.Functions {
		g.routine(e, m.Functions[i].Name, &m.Functions[i])
		e.blank()
	}

	return e.String()
}

func (g *SQLGenerator) relation(e *emitter, cls *uir.Class) {
	// Native DDL (tables parsed from SQL, views with their SELECT) passes
	// through as written.
	if cls.SourceLang == lang.SQL && cls.SourceCode != "" {
		src := strings.TrimSpace(cls.SourceCode)
		if !strings.HasSuffix(src, ";") {
			src += ";"
		}
		e.lines(strings.Split(src, "\n"))
		return
	}

	e.line("CREATE TABLE IF NOT EXISTS " + cls.Name + " (")
	e.in()
	cols := fields(cls)
	for i, col := range cols {
		def := col.Name + " " + uir.MapType(col.Type, lang.SQL)
		if !col.Type.Nullable {
			def += " NOT NULL"
		}
		if i < len(cols)-1 {
			def += ","
		}
		e.line(def)
	}
	e.out()
	e.line(");")
}

func (g *SQLGenerator) routine(e *emitter, name string, fn *uir.Function) {
	if fn.Attrs.ReceiverType != "" {
		g.trigger(e, fn)
		return
	}

	if fn.SourceLang == lang.SQL && fn.SourceCode != "" {
		src := strings.TrimSpace(fn.SourceCode)
		if !strings.HasSuffix(src, ";") {
			src += ";"
		}
		e.lines(strings.Split(src, "\n"))
		return
	}

	ret := "void"
	if fn.ReturnType.Base != uir.Void {
		ret = uir.MapType(fn.ReturnType, lang.SQL)
	}
	e.line("CREATE OR REPLACE FUNCTION " + name + "(" + g.params(fn.Parameters) + ")")
	e.line("RETURNS " + ret)
	e.line("LANGUAGE plpgsql")
	e.line("AS $$")
	e.line("BEGIN")
	e.in()
	e.line("-- TODO: Implement " + fn.Name)
	if fn.ReturnType.Base != uir.Void {
		e.line("RETURN " + uir.DefaultReturn(fn.ReturnType, lang.SQL) + ";")
	}
	e.out()
	e.line("END;")
	e.line("$$;")
}

// trigger renders a trigger function plus the CREATE TRIGGER binding it to
// its table. Timing and event ride in the receiver attribute, the table in
// the receiver type.
func (g *SQLGenerator) trigger(e *emitter, fn *uir.Function) {
	e.line("CREATE OR REPLACE FUNCTION " + fn.Name + "_fn()")
	e.line("RETURNS TRIGGER")
	e.line("LANGUAGE plpgsql")
	e.line("AS $$")
	e.line("BEGIN")
	e.in()
	e.line("-- TODO: Implement " + fn.Name)
	e.line("RETURN NEW;")
	e.out()
	e.line("END;")
	e.line("$$;")
	e.blank()

	timing := fn.Attrs.Receiver
	if timing == "" {
		timing = "AFTER INSERT"
	}
	e.line("CREATE TRIGGER " + fn.Name)
	e.line(timing + " ON " + fn.Attrs.ReceiverType)
	e.line("FOR EACH ROW EXECUTE FUNCTION " + fn.Name + "_fn();")
}

func (g *SQLGenerator) params(ps []uir.Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p.Name+" "+uir.MapType(p.Type, lang.SQL))
	}
	return strings.Join(parts, ", ")
}
