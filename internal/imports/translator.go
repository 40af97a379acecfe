// Package imports rewrites raw import statements, captured verbatim at parse
// time, into each generation target's own syntax.
//
// Statements are resolved per target in a fixed priority order:
//
//  1. already valid in the target's native import syntax → unchanged
//  2. matches a canonical foreign import shape → translated
//  3. recognizable foreign import with no target analog → commented out,
//     carrying the original text verbatim
//
// Anything else passes through unchanged. The native check always runs
// first so a target's own syntax is never corrupted by a coincidental
// resemblance to another language's import form.
package imports

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
)

// Marker is the fixed prefix carried by commented-out imports that have no
// analog in the target's module system.
const Marker = "foreign import:"

// Canonical foreign import shapes (the python-family forms every parser
// records): `import X`, `import X as Y`, `from X import A, B` including the
// `*` wildcard.
var (
	fromImportRE = regexp.MustCompile(`^from\s+([\w.]+)\s+import\s+(.+)$`)
	plainImportRE = regexp.MustCompile(`^import\s+([\w.]+)(?:\s+as\s+(\w+))?$`)
)

// isForeignImport reports whether stmt matches one of the canonical foreign
// import shapes.
func isForeignImport(stmt string) bool {
	s := strings.TrimSpace(stmt)
	return fromImportRE.MatchString(s) || plainImportRE.MatchString(s)
}

// isNative reports whether stmt is already valid import syntax in the
// target. Canonical foreign shapes are never native outside python, even
// when they superficially resemble the target's syntax (java's `import x.y;`
// vs python's `import x.y`).
func isNative(stmt string, target lang.Language) bool {
	s := strings.TrimSpace(stmt)

	if isForeignImport(s) && target != lang.Python {
		// Swift `import Foundation` and python `import Foundation` are
		// byte-identical; swift treats the bare single-segment, alias-free
		// form as its own. `import os as o` is python only.
		if target == lang.Swift {
			if m := plainImportRE.FindStringSubmatch(s); m != nil && m[2] == "" && !strings.Contains(m[1], ".") {
				return true
			}
		}
		return false
	}

	switch target {
	case lang.Python:
		return isForeignImport(s)
	case lang.JavaScript:
		return strings.HasPrefix(s, "const ") || strings.HasPrefix(s, "let ") ||
			strings.HasPrefix(s, "var ") || strings.HasPrefix(s, "require(") ||
			(strings.HasPrefix(s, "import ") && (strings.Contains(s, "from ") ||
				strings.Contains(s, "{") || strings.ContainsAny(s, `'"`)))
	case lang.TypeScript:
		return strings.HasPrefix(s, "export ") || strings.Contains(s, "require(") ||
			(strings.HasPrefix(s, "import ") && (strings.Contains(s, "from ") ||
				strings.Contains(s, "{") || strings.ContainsAny(s, `'"`)))
	case lang.Java:
		return strings.HasPrefix(s, "import ") && strings.Contains(s, ".")
	case lang.Go:
		return strings.HasPrefix(s, "import ") && (strings.Contains(s, `"`) || strings.Contains(s, "("))
	case lang.Rust:
		return strings.HasPrefix(s, "use ") || strings.HasPrefix(s, "extern ")
	case lang.C:
		return strings.HasPrefix(s, "#include")
	case lang.CSharp:
		return strings.HasPrefix(s, "using ")
	case lang.Kotlin:
		return strings.HasPrefix(s, "import ") && strings.Contains(s, ".")
	case lang.Swift:
		return strings.HasPrefix(s, "import ")
	case lang.Scala:
		return strings.HasPrefix(s, "import ") && strings.Contains(s, ".")
	case lang.Ruby:
		return strings.HasPrefix(s, "require ") || strings.HasPrefix(s, "require '") ||
			strings.HasPrefix(s, `require "`) || strings.HasPrefix(s, "require_relative ")
	case lang.PHP:
		return strings.HasPrefix(s, "use ") || strings.HasPrefix(s, "require ") ||
			strings.HasPrefix(s, "include ")
	case lang.Lua:
		return strings.Contains(s, "require(") || strings.Contains(s, `require "`) ||
			strings.Contains(s, "require '")
	case lang.R:
		return strings.HasPrefix(s, "library(") || strings.HasPrefix(s, "require(") ||
			strings.HasPrefix(s, "source(")
	case lang.Bash:
		return strings.HasPrefix(s, "source ") || strings.HasPrefix(s, ". ")
	case lang.SQL:
		upper := strings.ToUpper(s)
		return strings.HasPrefix(upper, "CREATE ") || strings.HasPrefix(upper, "ALTER ") ||
			strings.HasPrefix(upper, "SET ") || strings.HasPrefix(s, "--")
	default:
		return false
	}
}

// commentOut wraps stmt as a language-correct comment carrying the fixed
// marker plus the original text verbatim.
func commentOut(stmt string, target lang.Language) string {
	return target.CommentPrefix() + " " + Marker + " " + strings.TrimSpace(stmt)
}

// importParts is a recognized foreign import decomposed into module path,
// imported names (nil for plain imports) and optional alias.
type importParts struct {
	module string
	names  []string
	alias  string
}

// parseForeign decomposes stmt into importParts, or returns false when stmt
// is not a canonical foreign import.
func parseForeign(stmt string) (importParts, bool) {
	s := strings.TrimSpace(stmt)
	if m := fromImportRE.FindStringSubmatch(s); m != nil {
		names := strings.Split(m[2], ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		return importParts{module: m[1], names: names}, true
	}
	if m := plainImportRE.FindStringSubmatch(s); m != nil {
		return importParts{module: m[1], alias: m[2]}, true
	}
	return importParts{}, false
}

// lastSegment returns the final dot-separated segment of a module path.
func lastSegment(module string) string {
	parts := strings.Split(module, ".")
	return parts[len(parts)-1]
}

// isWildcard reports whether the name list is the single `*` wildcard.
func (p importParts) isWildcard() bool {
	return len(p.names) == 1 && p.names[0] == "*"
}

// renderers translate a recognized foreign import into each target's
// closest equivalent. Targets with no public-package analog (c, bash, sql,
// go for arbitrary foreign modules) are absent and fall through to the
// comment form.
var renderers = map[lang.Language]func(importParts) string{
	lang.Python:     renderPython,
	lang.JavaScript: renderJavaScript,
	lang.TypeScript: renderTypeScript,
	lang.Java:       renderJava,
	lang.Rust:       renderRust,
	lang.CSharp:     renderCSharp,
	lang.Kotlin:     renderKotlin,
	lang.Swift:      renderSwift,
	lang.Scala:      renderScala,
	lang.Ruby:       renderRuby,
	lang.PHP:        renderPHP,
	lang.Lua:        renderLua,
	lang.R:          renderR,
}

func renderPython(p importParts) string {
	if p.names != nil {
		return "from " + p.module + " import " + strings.Join(p.names, ", ")
	}
	if p.alias != "" {
		return "import " + p.module + " as " + p.alias
	}
	return "import " + p.module
}

func renderJavaScript(p importParts) string {
	if p.names != nil {
		if p.isWildcard() {
			return "const " + lastSegment(p.module) + " = require('" + p.module + "');"
		}
		return "const { " + strings.Join(p.names, ", ") + " } = require('" + p.module + "');"
	}
	name := p.alias
	if name == "" {
		name = lastSegment(p.module)
	}
	return "const " + name + " = require('" + p.module + "');"
}

func renderTypeScript(p importParts) string {
	if p.names != nil {
		if p.isWildcard() {
			return "import * as " + lastSegment(p.module) + " from '" + p.module + "';"
		}
		return "import { " + strings.Join(p.names, ", ") + " } from '" + p.module + "';"
	}
	name := p.alias
	if name == "" {
		name = lastSegment(p.module)
	}
	return "import * as " + name + " from '" + p.module + "';"
}

// renderJava expands multi-name imports to one line per name; java has no
// brace-grouped form.
func renderJava(p importParts) string {
	if p.names != nil {
		lines := make([]string, 0, len(p.names))
		for _, n := range p.names {
			if n == "*" {
				lines = append(lines, "import "+p.module+".*;")
			} else {
				lines = append(lines, "import "+p.module+"."+n+";")
			}
		}
		return strings.Join(lines, "\n")
	}
	return "import " + p.module + ".*;"
}

func renderRust(p importParts) string {
	path := strings.ReplaceAll(p.module, ".", "::")
	if p.names != nil {
		if p.isWildcard() {
			return "use " + path + "::*;"
		}
		if len(p.names) == 1 {
			return "use " + path + "::" + p.names[0] + ";"
		}
		return "use " + path + "::{" + strings.Join(p.names, ", ") + "};"
	}
	return "use " + path + ";"
}

func renderCSharp(p importParts) string {
	return "using " + p.module + ";"
}

// renderKotlin expands multi-name imports to one line per name, like java
// but without semicolons.
func renderKotlin(p importParts) string {
	if p.names != nil {
		lines := make([]string, 0, len(p.names))
		for _, n := range p.names {
			if n == "*" {
				lines = append(lines, "import "+p.module+".*")
			} else {
				lines = append(lines, "import "+p.module+"."+n)
			}
		}
		return strings.Join(lines, "\n")
	}
	return "import " + p.module + ".*"
}

// renderSwift keeps only the top-level module; swift imports whole modules.
func renderSwift(p importParts) string {
	return "import " + strings.Split(p.module, ".")[0]
}

func renderScala(p importParts) string {
	if p.names != nil {
		if p.isWildcard() {
			return "import " + p.module + "._"
		}
		if len(p.names) == 1 {
			return "import " + p.module + "." + p.names[0]
		}
		return "import " + p.module + ".{" + strings.Join(p.names, ", ") + "}"
	}
	return "import " + p.module + "._"
}

func renderRuby(p importParts) string {
	return "require '" + p.module + "'"
}

func renderPHP(p importParts) string {
	ns := strings.ReplaceAll(p.module, ".", `\`)
	if p.names != nil {
		lines := make([]string, 0, len(p.names))
		for _, n := range p.names {
			if n == "*" {
				lines = append(lines, "use "+ns+";")
			} else {
				lines = append(lines, "use "+ns+`\`+n+";")
			}
		}
		return strings.Join(lines, "\n")
	}
	return "use " + ns + ";"
}

func renderLua(p importParts) string {
	name := p.alias
	if name == "" {
		name = lastSegment(p.module)
	}
	return "local " + name + ` = require("` + p.module + `")`
}

func renderR(p importParts) string {
	return "library(" + strings.Split(p.module, ".")[0] + ")"
}

// Translate rewrites a single raw import statement for the target language.
// The result may span multiple lines when the target expands multi-name
// imports one per line.
func Translate(stmt string, target lang.Language) string {
	s := strings.TrimSpace(stmt)
	if s == "" {
		return s
	}

	// Native syntax wins regardless of how plausible a foreign match looks.
	if isNative(s, target) {
		return s
	}

	if parts, ok := parseForeign(s); ok {
		if render, ok := renderers[target]; ok {
			return render(parts)
		}
		// Recognized foreign import, no module-system analog in the target:
		// preserve it as a comment, never drop it.
		return commentOut(s, target)
	}

	// Not native, not a recognized foreign shape: pass through unchanged.
	return s
}

// TranslateAll translates a list of raw import statements, expanding
// multi-line results and deduplicating exact-match lines across the whole
// output while preserving first-seen order. Empty and whitespace-only
// entries are dropped.
func TranslateAll(stmts []string, target lang.Language) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		translated := Translate(stmt, target)
		for _, line := range strings.Split(translated, "\n") {
			line = strings.TrimRight(line, " \t")
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			out = append(out, line)
		}
	}
	return out
}
