// Package generator renders skeletal source code from Universal IR modules
// in each supported language.
//
// One contract, seventeen implementations, mirroring the parser package.
// Generators are stateless value transformers and never fail: every branch
// has a deterministic fallback (empty parameter list, universal-type field,
// placeholder body). Function bodies are stubs with a type-correct default
// return; the only exceptions are the same-language copy-through fast path
// and a narrow, labeled lexical rewrite between the python and javascript
// families.
package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// Generator renders one Universal IR module as source text.
type Generator interface {
	// Language returns the language this generator emits.
	Language() lang.Language

	// Generate renders m as source text. It never fails; a well-formed
	// module always produces output.
	Generate(m *uir.Module) string
}

// projectGenerator is implemented by generators that emit more than one
// file per module (c emits a header next to each source file).
type projectGenerator interface {
	GenerateProject(p *uir.Project) map[string]string
}

// New returns the generator for l, or nil for an unknown language.
func New(l lang.Language) Generator {
	switch l {
	case lang.Python:
		return &PythonGenerator{}
	case lang.JavaScript:
		return &JavaScriptGenerator{}
	case lang.TypeScript:
		return &TypeScriptGenerator{}
	case lang.Ruby:
		return &RubyGenerator{}
	case lang.PHP:
		return &PHPGenerator{}
	case lang.Lua:
		return &LuaGenerator{}
	case lang.R:
		return &RGenerator{}
	case lang.Java:
		return &JavaGenerator{}
	case lang.Go:
		return &GoGenerator{}
	case lang.Rust:
		return &RustGenerator{}
	case lang.CSharp:
		return &CSharpGenerator{}
	case lang.Kotlin:
		return &KotlinGenerator{}
	case lang.Swift:
		return &SwiftGenerator{}
	case lang.Scala:
		return &ScalaGenerator{}
	case lang.C:
		return &CGenerator{}
	case lang.SQL:
		return &SQLGenerator{}
	case lang.Bash:
		return &BashGenerator{}
	default:
		return nil
	}
}

// GenerateProject renders every module of p with g and adds the target's
// build manifest. Exactly one manifest file is emitted per project.
func GenerateProject(g Generator, p *uir.Project) map[string]string {
	var files map[string]string
	if pg, ok := g.(projectGenerator); ok {
		files = pg.GenerateProject(p)
	} else {
		files = make(map[string]string, len(p.Modules)+1)
		for _, m := range p.Modules {
			files[m.Name+g.Language().DefaultExtension()] = g.Generate(m)
		}
	}
	name, content := manifest(g.Language(), p)
	files[name] = content
	return files
}

// emitter accumulates indented output lines.
type emitter struct {
	buf   strings.Builder
	depth int
	unit  string
}

func newEmitter(unit string) *emitter {
	return &emitter{unit: unit}
}

func (e *emitter) line(s string) {
	if s == "" {
		e.buf.WriteByte('\n')
		return
	}
	for i := 0; i < e.depth; i++ {
		e.buf.WriteString(e.unit)
	}
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

func (e *emitter) lines(ls []string) {
	for _, l := range ls {
		e.line(l)
	}
}

func (e *emitter) blank() {
	e.buf.WriteByte('\n')
}

func (e *emitter) in()  { e.depth++ }
func (e *emitter) out() {
	if e.depth > 0 {
		e.depth--
	}
}

// String returns the accumulated output with trailing blank lines collapsed
// to a single newline.
func (e *emitter) String() string {
	return strings.TrimRight(e.buf.String(), "\n") + "\n"
}

// todo is the deterministic not-implemented marker every placeholder body
// starts with.
func todo(name string, target lang.Language) string {
	return target.CommentPrefix() + " TODO: Implement " + name
}

// dedent strips the common leading whitespace from a block of lines and
// trims surrounding blank lines.
func dedent(lines []string) []string {
	min := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if min < 0 || n < min {
			min = n
		}
	}
	if min < 0 {
		return nil
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, l[min:])
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// braceBody returns the dedented lines between the outermost braces of a
// captured definition, or nil when there is no brace-delimited body.
func braceBody(src string) []string {
	open := strings.IndexByte(src, '{')
	end := strings.LastIndexByte(src, '}')
	if open < 0 || end <= open {
		return nil
	}
	inner := strings.Trim(src[open+1:end], "\n")
	if strings.TrimSpace(inner) == "" {
		return nil
	}
	return dedent(strings.Split(inner, "\n"))
}

// indentBody returns the dedented body of an indentation-delimited
// definition: every line after the header.
func indentBody(src string) []string {
	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return nil
	}
	return dedent(lines[1:])
}

// blockBody returns the body of a keyword...end definition, dropping the
// header line and the trailing end.
func blockBody(src string) []string {
	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return nil
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "end" {
		lines = lines[:len(lines)-1]
	}
	return dedent(lines)
}

// constructorNames covers the constructor spellings the parsers capture.
var constructorNames = map[string]bool{
	"constructor": true, "__init__": true, "init": true,
	"initialize": true, "new": true,
}

// isConstructor reports whether fn is the constructor of cls.
func isConstructor(cls *uir.Class, fn *uir.Function) bool {
	return constructorNames[fn.Name] || fn.Name == cls.Name
}

// findConstructor returns cls's constructor method, or nil.
func findConstructor(cls *uir.Class) *uir.Function {
	for i := range cls.Methods {
		if isConstructor(cls, &cls.Methods[i]) {
			return &cls.Methods[i]
		}
	}
	return nil
}

// fields returns the member list to declare for a type: the parser-promoted
// properties when present, else the constructor parameters.
func fields(cls *uir.Class) []uir.Parameter {
	if len(cls.Properties) > 0 {
		return cls.Properties
	}
	if ctor := findConstructor(cls); ctor != nil {
		return ctor.Parameters
	}
	return nil
}

// formatValue renders a captured variable value for the target, quoting
// bare string literals and mapping the no-value case to the target's
// default for the type.
func formatValue(value string, sig uir.TypeSignature, target lang.Language) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return uir.DefaultReturn(sig, target)
	}
	if sig.Base == uir.String &&
		!strings.HasPrefix(v, `"`) && !strings.HasPrefix(v, "'") && !strings.HasPrefix(v, "`") {
		return `"` + v + `"`
	}
	return v
}

// exportCap upper-cases the first letter of a name for targets with
// case-based export rules.
func exportCap(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
