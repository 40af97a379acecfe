// Package parser extracts Universal IR modules from source text in each
// supported language.
//
// One contract, seventeen implementations. Parsers are stateless value
// transformers: the in-progress module is passed explicitly through the
// extraction helpers, so a single parser instance is safe to reuse across
// concurrent calls. Parse never fails — on malformed or unrecognized input
// it returns the best module it could assemble, which may have empty
// collections.
//
// Languages with a grammar binding in the dependency set (go, python, rust,
// typescript) get AST-based extraction via tree-sitter, falling back
// automatically to the same pattern scanner the other thirteen use. The
// surface scanners are a deliberate fidelity boundary: they round-trip
// signatures and shapes, not full ASTs.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// Parser extracts a Universal IR module from one source file.
type Parser interface {
	// Language returns the language this parser handles.
	Language() lang.Language

	// Parse extracts imports, functions, types-with-members and top-level
	// variables from source. It never fails; irrecoverable input yields a
	// module with empty collections.
	Parse(source, filename string) *uir.Module
}

// New returns the parser for l, or nil for an unknown language.
func New(l lang.Language) Parser {
	switch l {
	case lang.Python:
		return newTreeSitterParser(lang.Python, &PythonParser{})
	case lang.JavaScript:
		return &JavaScriptParser{}
	case lang.TypeScript:
		return newTreeSitterParser(lang.TypeScript, &TypeScriptParser{})
	case lang.Ruby:
		return &RubyParser{}
	case lang.PHP:
		return &PHPParser{}
	case lang.Lua:
		return &LuaParser{}
	case lang.R:
		return &RParser{}
	case lang.Java:
		return &JavaParser{}
	case lang.Go:
		return newTreeSitterParser(lang.Go, &GoParser{})
	case lang.Rust:
		return newTreeSitterParser(lang.Rust, &RustParser{})
	case lang.CSharp:
		return &CSharpParser{}
	case lang.Kotlin:
		return &KotlinParser{}
	case lang.Swift:
		return &SwiftParser{}
	case lang.Scala:
		return &ScalaParser{}
	case lang.C:
		return &CParser{}
	case lang.SQL:
		return &SQLParser{}
	case lang.Bash:
		return &BashParser{}
	default:
		return nil
	}
}

// moduleName strips the path and extension from a filename to produce the
// module name.
func moduleName(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}
