// Package lang defines the set of languages the engine can parse and
// generate, together with their file-extension and comment conventions.
package lang

import "strings"

// Language identifies a supported programming language.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Ruby       Language = "ruby"
	PHP        Language = "php"
	Lua        Language = "lua"
	R          Language = "r"
	Java       Language = "java"
	Go         Language = "go"
	Rust       Language = "rust"
	CSharp     Language = "csharp"
	Kotlin     Language = "kotlin"
	Swift      Language = "swift"
	Scala      Language = "scala"
	C          Language = "c"
	SQL        Language = "sql"
	Bash       Language = "bash"
)

// All lists every supported language in registration order.
var All = []Language{
	Python, JavaScript, TypeScript, Ruby, PHP, Lua, R,
	Java, Go, Rust, CSharp, Kotlin, Swift, Scala, C, SQL, Bash,
}

// extensions maps each language to its conventional file extensions.
// The first entry is the default extension used when synthesizing filenames.
var extensions = map[Language][]string{
	Python:     {".py"},
	JavaScript: {".js", ".mjs"},
	TypeScript: {".ts", ".tsx"},
	Ruby:       {".rb"},
	PHP:        {".php"},
	Lua:        {".lua"},
	R:          {".R", ".r"},
	Java:       {".java"},
	Go:         {".go"},
	Rust:       {".rs"},
	CSharp:     {".cs"},
	Kotlin:     {".kt", ".kts"},
	Swift:      {".swift"},
	Scala:      {".scala", ".sc"},
	C:          {".c", ".h"},
	SQL:        {".sql"},
	Bash:       {".sh", ".bash"},
}

// commentPrefix maps each language to its line-comment introducer.
var commentPrefix = map[Language]string{
	Python:     "#",
	JavaScript: "//",
	TypeScript: "//",
	Ruby:       "#",
	PHP:        "//",
	Lua:        "--",
	R:          "#",
	Java:       "//",
	Go:         "//",
	Rust:       "//",
	CSharp:     "//",
	Kotlin:     "//",
	Swift:      "//",
	Scala:      "//",
	C:          "//",
	SQL:        "--",
	Bash:       "#",
}

// Extensions returns the file extensions conventionally used by l.
func (l Language) Extensions() []string {
	return extensions[l]
}

// DefaultExtension returns the primary file extension for l, or ".txt" for
// an unknown language.
func (l Language) DefaultExtension() string {
	if exts := extensions[l]; len(exts) > 0 {
		return exts[0]
	}
	return ".txt"
}

// CommentPrefix returns the line-comment introducer for l. Unknown languages
// fall back to "//".
func (l Language) CommentPrefix() string {
	if p, ok := commentPrefix[l]; ok {
		return p
	}
	return "//"
}

// Known reports whether l is one of the supported languages.
func (l Language) Known() bool {
	_, ok := extensions[l]
	return ok
}

// Normalize resolves common aliases ("js", "ts", "py", "cs", "golang",
// "shell") and case variations to a canonical Language value.
func Normalize(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "python", "py":
		return Python
	case "javascript", "js":
		return JavaScript
	case "typescript", "ts":
		return TypeScript
	case "ruby", "rb":
		return Ruby
	case "php":
		return PHP
	case "lua":
		return Lua
	case "r":
		return R
	case "java":
		return Java
	case "go", "golang":
		return Go
	case "rust", "rs":
		return Rust
	case "csharp", "cs", "c#":
		return CSharp
	case "kotlin", "kt":
		return Kotlin
	case "swift":
		return Swift
	case "scala":
		return Scala
	case "c":
		return C
	case "sql":
		return SQL
	case "bash", "sh", "shell":
		return Bash
	default:
		return Language(strings.ToLower(strings.TrimSpace(name)))
	}
}

// FromFilename detects a language from a filename's extension, returning
// ("", false) when no language claims the extension.
func FromFilename(filename string) (Language, bool) {
	lower := strings.ToLower(filename)
	// Longest match first so ".bash" beats ".sh"-style overlaps.
	best := Language("")
	bestLen := 0
	for l, exts := range extensions {
		for _, ext := range exts {
			if strings.HasSuffix(lower, strings.ToLower(ext)) && len(ext) > bestLen {
				best = l
				bestLen = len(ext)
			}
		}
	}
	if bestLen == 0 {
		return "", false
	}
	return best, true
}
