package uir

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/polyglot/internal/lang"
)

// typeSpellings maps every DataType to its spelling in each target language.
// MapType is total over this table: every language row covers every
// DataType, and unmapped lookups fall back to the row's universal spelling.
var typeSpellings = map[lang.Language]map[DataType]string{
	lang.Python: {
		Void: "None", Boolean: "bool", Integer: "int", Float: "float",
		String: "str", Array: "List", Object: "Dict", Func: "Callable",
		Any: "Any", Unknown: "Any",
	},
	lang.JavaScript: {
		Void: "void", Boolean: "boolean", Integer: "number", Float: "number",
		String: "string", Array: "Array", Object: "Object", Func: "Function",
		Any: "any", Unknown: "any",
	},
	lang.TypeScript: {
		Void: "void", Boolean: "boolean", Integer: "number", Float: "number",
		String: "string", Array: "any[]", Object: "object", Func: "Function",
		Any: "any", Unknown: "unknown",
	},
	lang.Ruby: {
		Void: "nil", Boolean: "Boolean", Integer: "Integer", Float: "Float",
		String: "String", Array: "Array", Object: "Hash", Func: "Proc",
		Any: "Object", Unknown: "Object",
	},
	lang.PHP: {
		Void: "void", Boolean: "bool", Integer: "int", Float: "float",
		String: "string", Array: "array", Object: "object", Func: "callable",
		Any: "mixed", Unknown: "mixed",
	},
	lang.Lua: {
		Void: "nil", Boolean: "boolean", Integer: "number", Float: "number",
		String: "string", Array: "table", Object: "table", Func: "function",
		Any: "any", Unknown: "any",
	},
	lang.R: {
		Void: "NULL", Boolean: "logical", Integer: "integer", Float: "numeric",
		String: "character", Array: "vector", Object: "list", Func: "function",
		Any: "ANY", Unknown: "ANY",
	},
	lang.Java: {
		Void: "void", Boolean: "boolean", Integer: "int", Float: "double",
		String: "String", Array: "List<Object>", Object: "Object", Func: "Runnable",
		Any: "Object", Unknown: "Object",
	},
	lang.Go: {
		Void: "struct{}", Boolean: "bool", Integer: "int", Float: "float64",
		String: "string", Array: "[]interface{}", Object: "map[string]interface{}",
		Func: "func()", Any: "interface{}", Unknown: "interface{}",
	},
	lang.Rust: {
		Void: "()", Boolean: "bool", Integer: "i64", Float: "f64",
		String: "String", Array: "Vec<Box<dyn std::any::Any>>",
		Object: "Box<dyn std::any::Any>", Func: "Box<dyn Fn()>",
		Any: "Box<dyn std::any::Any>", Unknown: "Box<dyn std::any::Any>",
	},
	lang.CSharp: {
		Void: "void", Boolean: "bool", Integer: "int", Float: "double",
		String: "string", Array: "List<object>", Object: "Dictionary<string, object>",
		Func: "Action", Any: "object", Unknown: "object",
	},
	lang.Kotlin: {
		Void: "Unit", Boolean: "Boolean", Integer: "Int", Float: "Double",
		String: "String", Array: "List<Any>", Object: "Map<String, Any>",
		Func: "() -> Unit", Any: "Any", Unknown: "Any",
	},
	lang.Swift: {
		Void: "Void", Boolean: "Bool", Integer: "Int", Float: "Double",
		String: "String", Array: "[Any]", Object: "[String: Any]",
		Func: "() -> Void", Any: "Any", Unknown: "Any",
	},
	lang.Scala: {
		Void: "Unit", Boolean: "Boolean", Integer: "Int", Float: "Double",
		String: "String", Array: "List[Any]", Object: "Map[String, Any]",
		Func: "() => Unit", Any: "Any", Unknown: "Any",
	},
	lang.C: {
		Void: "void", Boolean: "bool", Integer: "int", Float: "double",
		String: "char*", Array: "void*", Object: "void*", Func: "void*",
		Any: "void*", Unknown: "void*",
	},
	lang.SQL: {
		Void: "VOID", Boolean: "BOOLEAN", Integer: "INTEGER", Float: "DOUBLE PRECISION",
		String: "TEXT", Array: "JSON", Object: "JSONB", Func: "TEXT",
		Any: "TEXT", Unknown: "TEXT",
	},
	lang.Bash: {
		Void: "none", Boolean: "bool", Integer: "int", Float: "float",
		String: "string", Array: "array", Object: "assoc", Func: "function",
		Any: "any", Unknown: "any",
	},
}

// universalSpelling is the per-target catch-all used when a lookup misses.
var universalSpelling = map[lang.Language]string{
	lang.Python: "Any", lang.JavaScript: "any", lang.TypeScript: "any",
	lang.Ruby: "Object", lang.PHP: "mixed", lang.Lua: "any", lang.R: "ANY",
	lang.Java: "Object", lang.Go: "interface{}",
	lang.Rust: "Box<dyn std::any::Any>", lang.CSharp: "object",
	lang.Kotlin: "Any", lang.Swift: "Any", lang.Scala: "Any",
	lang.C: "void*", lang.SQL: "TEXT", lang.Bash: "any",
}

// MapType renders a TypeSignature as a printable type name in the target
// language. It is total: every DataType resolves in every target, falling
// back to the target's universal spelling (and ultimately "any") rather
// than failing.
func MapType(sig TypeSignature, target lang.Language) string {
	row, ok := typeSpellings[target]
	if !ok {
		return "any"
	}
	if s, ok := row[sig.Base]; ok && s != "" {
		return s
	}
	if s, ok := universalSpelling[target]; ok {
		return s
	}
	return "any"
}

// defaultReturns gives the type-correct placeholder return expression per
// DataType in each target. Void never reaches this table: generators omit
// the return statement entirely for void functions.
var defaultReturns = map[lang.Language]map[DataType]string{
	lang.Python: {
		Boolean: "False", Integer: "0", Float: "0.0", String: `""`,
		Array: "[]", Object: "{}",
	},
	lang.JavaScript: {
		Boolean: "false", Integer: "0", Float: "0", String: `""`,
		Array: "[]", Object: "{}",
	},
	lang.TypeScript: {
		Boolean: "false", Integer: "0", Float: "0", String: `""`,
		Array: "[]", Object: "{}",
	},
	lang.Ruby: {
		Boolean: "false", Integer: "0", Float: "0.0", String: `""`,
		Array: "[]", Object: "{}",
	},
	lang.PHP: {
		Boolean: "false", Integer: "0", Float: "0.0", String: "''",
		Array: "[]", Object: "new stdClass()",
	},
	lang.Lua: {
		Boolean: "false", Integer: "0", Float: "0.0", String: `""`,
		Array: "{}", Object: "{}",
	},
	lang.R: {
		Boolean: "FALSE", Integer: "0L", Float: "0", String: `""`,
		Array: "c()", Object: "list()",
	},
	lang.Java: {
		Boolean: "false", Integer: "0", Float: "0.0", String: `""`,
		Array: "new ArrayList<>()",
	},
	lang.Go: {
		Boolean: "false", Integer: "0", Float: "0.0", String: `""`,
		Array: "nil", Object: "nil",
	},
	lang.Rust: {
		Boolean: "false", Integer: "0", Float: "0.0", String: "String::new()",
		Array: "Vec::new()",
	},
	lang.CSharp: {
		Boolean: "false", Integer: "0", Float: "0.0", String: `""`,
		Array: "new List<object>()", Object: "new Dictionary<string, object>()",
	},
	lang.Kotlin: {
		Boolean: "false", Integer: "0", Float: "0.0", String: `""`,
		Array: "emptyList()", Object: "emptyMap()",
	},
	lang.Swift: {
		Boolean: "false", Integer: "0", Float: "0.0", String: `""`,
		Array: "[]", Object: "[:]",
	},
	lang.Scala: {
		Boolean: "false", Integer: "0", Float: "0.0", String: `""`,
		Array: "List.empty", Object: "Map.empty",
	},
	lang.C: {
		Boolean: "false", Integer: "0", Float: "0.0",
	},
	lang.SQL: {},
	lang.Bash: {
		Boolean: "false", Integer: "0", Float: "0", String: `""`,
	},
}

// nullSpelling is the per-target spelling of "no value", used as the
// fallback placeholder return.
var nullSpelling = map[lang.Language]string{
	lang.Python: "None", lang.JavaScript: "null", lang.TypeScript: "null",
	lang.Ruby: "nil", lang.PHP: "null", lang.Lua: "nil", lang.R: "NULL",
	lang.Java: "null", lang.Go: "nil", lang.Rust: "todo!()",
	lang.CSharp: "null", lang.Kotlin: "Unit", lang.Swift: `"" as Any`,
	lang.Scala: "()", lang.C: "NULL", lang.SQL: "NULL", lang.Bash: `""`,
}

// DefaultReturn returns the placeholder return expression for sig in the
// target language, falling back to the target's null/nil spelling.
func DefaultReturn(sig TypeSignature, target lang.Language) string {
	if row, ok := defaultReturns[target]; ok {
		if v, ok := row[sig.Base]; ok {
			return v
		}
	}
	if v, ok := nullSpelling[target]; ok {
		return v
	}
	return "null"
}

var (
	intLit   = regexp.MustCompile(`^-?\d+$`)
	floatLit = regexp.MustCompile(`^-?\d+\.\d+(?:[eE][+-]?\d+)?$`)
)

// booleanWords covers the true/false keyword family across the supported
// languages (Python capitalizes, R shouts, everyone else lowercases).
var booleanWords = map[string]bool{
	"true": true, "false": true,
	"True": true, "False": true,
	"TRUE": true, "FALSE": true,
}

// nullWords covers the no-value keyword family.
var nullWords = map[string]bool{
	"nil": true, "null": true, "None": true, "NULL": true, "undefined": true,
}

// Infer guesses a TypeSignature from a literal's surface form. It is a
// best-effort heuristic: quote characters mean string, boolean keywords mean
// boolean, bracket and brace delimiters mean array and object, numeric shape
// with a decimal point means float, bare digits mean integer. Anything else
// defaults to Any.
func Infer(literal string, _ lang.Language) TypeSignature {
	v := strings.TrimSpace(literal)
	if v == "" {
		return Sig(Any)
	}
	switch {
	case strings.HasPrefix(v, `"`) || strings.HasPrefix(v, "'") || strings.HasPrefix(v, "`"):
		return Sig(String)
	case booleanWords[v]:
		return Sig(Boolean)
	case nullWords[v]:
		return TypeSignature{Base: Any, Nullable: true}
	case strings.HasPrefix(v, "[") || strings.HasPrefix(v, "Array(") || strings.HasPrefix(v, "c("):
		return Sig(Array)
	case strings.HasPrefix(v, "{") || strings.HasPrefix(v, "list("):
		return Sig(Object)
	case floatLit.MatchString(v):
		return Sig(Float)
	case intLit.MatchString(v):
		return Sig(Integer)
	default:
		return Sig(Any)
	}
}
