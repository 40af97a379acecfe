package parser

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/uir"
)

// lineAt returns the 1-based line number of byte offset in source.
func lineAt(source string, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return strings.Count(source[:offset], "\n") + 1
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// splitTopLevel splits s on sep, ignoring separators nested inside any kind
// of bracket or inside string quotes. Used for parameter lists, where
// default values and generic types may themselves contain commas.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '(' || c == '[' || c == '{' || c == '<':
			depth++
		case c == ')' || c == ']' || c == '}' || c == '>':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// matchBraces returns the source span of a brace-delimited block starting at
// the first '{' at or after from, and the index just past the closing brace.
// Returns ok=false when braces never balance.
func matchBraces(source string, from int) (body string, end int, ok bool) {
	open := strings.IndexByte(source[from:], '{')
	if open < 0 {
		return "", 0, false
	}
	open += from
	depth := 0
	var quote byte
	for i := open; i < len(source); i++ {
		c := source[i]
		switch {
		case quote != 0:
			if c == quote && source[i-1] != '\\' {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return source[open+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

// flowPattern pairs a control-flow regex with the kind it detects.
type flowPattern struct {
	re   *regexp.Regexp
	kind uir.ControlFlowKind
}

// braceFlowPatterns covers the brace-delimited language family (javascript,
// java, go, rust, c#, c, kotlin, swift, scala, php).
var braceFlowPatterns = []flowPattern{
	{regexp.MustCompile(`(?m)\bif\s*[^{\n]*\{`), uir.FlowIf},
	{regexp.MustCompile(`(?m)\bfor\s*[^{\n]*\{`), uir.FlowFor},
	{regexp.MustCompile(`(?m)\bwhile\s*[^{\n]*\{`), uir.FlowWhile},
	{regexp.MustCompile(`(?m)\b(?:switch|select|match|when)\s*[^{\n]*\{`), uir.FlowSwitch},
	{regexp.MustCompile(`(?m)\btry\s*\{`), uir.FlowTry},
}

// scanControlFlow builds the ordered control-flow inventory of body using
// the given patterns. The inventory is visualization data only.
func scanControlFlow(body string, patterns []flowPattern) []uir.ControlFlow {
	if body == "" {
		return nil
	}
	var flows []uir.ControlFlow
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(body, -1) {
			flows = append(flows, uir.ControlFlow{
				Kind:    p.kind,
				Snippet: strings.TrimSpace(body[loc[0]:loc[1]]),
				Line:    lineAt(body, loc[0]),
			})
		}
	}
	sortFlows(flows)
	return flows
}

// sortFlows orders the inventory by line number, preserving insertion order
// for equal lines (insertion sort; inventories are short).
func sortFlows(flows []uir.ControlFlow) {
	for i := 1; i < len(flows); i++ {
		for j := i; j > 0 && flows[j].Line < flows[j-1].Line; j-- {
			flows[j], flows[j-1] = flows[j-1], flows[j]
		}
	}
}

var callRE = regexp.MustCompile(`(\w[\w.]*)\s*\(`)

// controlKeywords are call-shaped tokens that are never function calls.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "func": true, "function": true, "def": true, "match": true,
	"when": true, "until": true, "unless": true, "elif": true, "elsif": true,
	"select": true, "case": true, "do": true, "new": true, "super": true,
	"sizeof": true, "typeof": true, "defer": true, "go": true, "print": true,
	"println": true, "printf": true,
}

// resolveDependencies populates the call graph for every function and method
// in m: callees defined in the same module become Dependencies (ids), other
// call targets are recorded in Attrs.ExternalCalls — never as dangling ids.
func resolveDependencies(m *uir.Module) {
	nameToID := make(map[string]string)
	for _, f := range m.Functions {
		nameToID[f.Name] = f.ID
	}
	for _, c := range m.Classes {
		for _, method := range c.Methods {
			nameToID[c.Name+"."+method.Name] = method.ID
		}
	}

	resolve := func(f *uir.Function) {
		if f.SourceCode == "" {
			return
		}
		depSet := make(map[string]bool)
		extSet := make(map[string]bool)
		for _, match := range callRE.FindAllStringSubmatch(f.SourceCode, -1) {
			callee := match[1]
			base := callee
			if dot := strings.LastIndexByte(callee, '.'); dot >= 0 {
				base = callee[dot+1:]
			}
			if controlKeywords[base] || base == f.Name {
				continue
			}
			if id, ok := nameToID[base]; ok && id != f.ID {
				depSet[id] = true
				continue
			}
			if id, ok := nameToID[callee]; ok && id != f.ID {
				depSet[id] = true
				continue
			}
			extSet[callee] = true
		}
		for id := range depSet {
			f.Dependencies = append(f.Dependencies, id)
		}
		sortStrings(f.Dependencies)
		for name := range extSet {
			f.Attrs.ExternalCalls = append(f.Attrs.ExternalCalls, name)
		}
		sortStrings(f.Attrs.ExternalCalls)
	}

	for i := range m.Functions {
		resolve(&m.Functions[i])
	}
	for ci := range m.Classes {
		for mi := range m.Classes[ci].Methods {
			resolve(&m.Classes[ci].Methods[mi])
		}
	}
}

// sortStrings sorts in place without pulling in sort for a hot path; these
// slices are tiny.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// indentedBlock returns the indented block following a header line at
// headerEnd in source, for indentation-delimited languages. The block ends
// at the first non-blank line indented at or below baseIndent.
func indentedBlock(source string, headerEnd int, baseIndent int) string {
	rest := source[headerEnd:]
	var out []string
	for _, line := range strings.Split(rest, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, line)
			continue
		}
		if indentOf(line) <= baseIndent {
			break
		}
		out = append(out, line)
	}
	// Trim trailing blank lines.
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// endBlock returns the body of a keyword-delimited block (ruby, lua) that
// starts after a header line ending at headerEnd and closes with an `end`
// line at indent <= baseIndent. Returns the body without the closing line
// and the offset just past it; an unterminated block runs to EOF.
func endBlock(source string, headerEnd, baseIndent int) (body string, end int) {
	if headerEnd >= len(source) {
		return "", len(source)
	}
	rest := source[headerEnd:]
	offset := headerEnd
	var out []string
	for len(rest) > 0 {
		nl := strings.IndexByte(rest, '\n')
		var line string
		if nl < 0 {
			line = rest
			rest = ""
		} else {
			line = rest[:nl]
			rest = rest[nl+1:]
		}
		trimmed := strings.TrimSpace(line)
		if (trimmed == "end" || strings.HasPrefix(trimmed, "end ")) && indentOf(line) <= baseIndent {
			// No trailing newline after a closing `end` at EOF.
			end = offset + len(line) + 1
			if end > len(source) {
				end = len(source)
			}
			return strings.Join(out, "\n"), end
		}
		out = append(out, line)
		offset += len(line) + 1
	}
	return strings.Join(out, "\n"), len(source)
}

// indentOf counts leading spaces, with tabs counted as 4.
func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}
