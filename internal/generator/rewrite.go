package generator

import (
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// rewriteBody attempts the narrow lexical rewrite between the python and
// javascript surface families. The result is always labeled as a
// best-effort conversion; any other language pair returns ok=false and the
// caller falls back to the placeholder body. This is an enumerated
// convenience, not transpilation.
func rewriteBody(fn *uir.Function, target lang.Language) ([]string, bool) {
	if fn.SourceCode == "" {
		return nil, false
	}
	jsFamily := func(l lang.Language) bool {
		return l == lang.JavaScript || l == lang.TypeScript
	}
	switch {
	case jsFamily(target) && fn.SourceLang == lang.Python:
		return pythonToJS(indentBody(fn.SourceCode)), true
	case target == lang.Python && jsFamily(fn.SourceLang):
		return jsToPython(braceBody(fn.SourceCode)), true
	case target == lang.TypeScript && fn.SourceLang == lang.JavaScript:
		// javascript is valid typescript; splice the body through.
		return braceBody(fn.SourceCode), true
	}
	return nil, false
}

// jsToPython converts a javascript body to python line by line: keyword
// renames, operator swaps, declaration-keyword and semicolon removal.
func jsToPython(body []string) []string {
	out := []string{"# converted from javascript (best-effort)"}
	replacer := strings.NewReplacer(
		"console.log(", "print(",
		"===", "==",
		"!==", "!=",
		"&&", "and",
		"||", "or",
		"true", "True",
		"false", "False",
		"undefined", "None",
		"null", "None",
	)
	for _, raw := range body {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = replacer.Replace(line)
		for _, kw := range []string{"let ", "const ", "var "} {
			line = strings.ReplaceAll(line, kw, "")
		}
		line = strings.TrimSuffix(line, ";")
		out = append(out, line)
	}
	if len(out) == 1 {
		out = append(out, "pass")
	}
	return out
}

// pythonToJS converts a python body to javascript line by line: keyword and
// operator swaps, colon headers to brace headers, statement semicolons, and
// closing braces balanced at the end.
func pythonToJS(body []string) []string {
	out := []string{"// converted from python (best-effort)"}
	replacer := strings.NewReplacer(
		"print(", "console.log(",
		" and ", " && ",
		" or ", " || ",
		"True", "true",
		"False", "false",
		"None", "null",
		"==", "===",
		"!=", "!==",
	)
	depth := 0
	for _, raw := range body {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = replacer.Replace(line)
		switch {
		case strings.HasPrefix(line, "for ") && strings.Contains(line, " in ") && strings.HasSuffix(line, ":"):
			parts := strings.SplitN(strings.TrimSuffix(line[4:], ":"), " in ", 2)
			line = "for (const " + strings.TrimSpace(parts[0]) + " of " + strings.TrimSpace(parts[1]) + ") {"
			depth++
		case strings.HasPrefix(line, "elif "):
			line = "} else if " + strings.TrimSuffix(line[5:], ":") + " {"
		case line == "else:":
			line = "} else {"
		case (strings.HasPrefix(line, "if ") || strings.HasPrefix(line, "while ")) && strings.HasSuffix(line, ":"):
			line = strings.TrimSuffix(line, ":") + " {"
			depth++
		default:
			if !strings.HasSuffix(line, ";") && !strings.HasSuffix(line, "{") &&
				!strings.HasSuffix(line, "}") && !strings.HasPrefix(line, "//") {
				line += ";"
			}
		}
		out = append(out, line)
	}
	for ; depth > 0; depth-- {
		out = append(out, "}")
	}
	if len(out) == 1 {
		out = append(out, "return null;")
	}
	return out
}
