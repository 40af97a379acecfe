package parser

import (
	"testing"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

func TestNewCoversEveryLanguage(t *testing.T) {
	for _, l := range lang.All {
		p := New(l)
		if p == nil {
			t.Fatalf("New(%s) = nil", l)
		}
		if p.Language() != l {
			t.Errorf("New(%s).Language() = %s", l, p.Language())
		}
	}
	if New(lang.Language("cobol")) != nil {
		t.Error("New(cobol) should be nil")
	}
}

func TestParseEmptySource(t *testing.T) {
	for _, l := range lang.All {
		p := New(l)
		m := p.Parse("", "sample"+l.DefaultExtension())
		if m == nil {
			t.Fatalf("%s: Parse(\"\") returned nil", l)
		}
		if m.Name != "sample" {
			t.Errorf("%s: module name = %q, want sample", l, m.Name)
		}
		if m.SourceLang != l {
			t.Errorf("%s: source lang = %s", l, m.SourceLang)
		}
		if len(m.Functions) != 0 || len(m.Classes) != 0 || len(m.Variables) != 0 {
			t.Errorf("%s: empty source produced non-empty module", l)
		}
	}
}

func TestModuleNameStripsPathAndExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"calc.py", "calc"},
		{"src/nested/service.ts", "service"},
		{"noext", "noext"},
		{"archive.tar.gz", "archive.tar"},
	}
	for _, tt := range tests {
		if got := moduleName(tt.filename); got != tt.want {
			t.Errorf("moduleName(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

// One canonical free function per language, to pin down that every scanner
// recovers at least name and parameter count. Java and C# group everything
// under classes, so those two assert on a method instead.
func TestFunctionExtractionPerLanguage(t *testing.T) {
	tests := []struct {
		language   lang.Language
		source     string
		paramCount int
	}{
		{lang.Python, "def greet(name):\n    return name\n", 1},
		{lang.JavaScript, "function greet(name) {\n  return name;\n}\n", 1},
		{lang.TypeScript, "function greet(name: string): string {\n  return name;\n}\n", 1},
		{lang.Ruby, "def greet(name)\n  name\nend\n", 1},
		{lang.PHP, "<?php\nfunction greet($name) {\n  return $name;\n}\n", 1},
		{lang.Lua, "function greet(name)\n  return name\nend\n", 1},
		{lang.R, "greet <- function(name) {\n  name\n}\n", 1},
		{lang.Go, "package main\n\nfunc greet(name string) string {\n\treturn name\n}\n", 1},
		{lang.Rust, "fn greet(name: &str) -> String {\n    name.to_string()\n}\n", 1},
		{lang.Kotlin, "fun greet(name: String): String {\n    return name\n}\n", 1},
		{lang.Swift, "func greet(name: String) -> String {\n    return name\n}\n", 1},
		{lang.Scala, "def greet(name: String): String = {\n  name\n}\n", 1},
		{lang.C, "char* greet(char* name) {\n    return name;\n}\n", 1},
		{lang.SQL, "CREATE FUNCTION greet(name TEXT) RETURNS TEXT AS $$\nBEGIN\n  RETURN name;\nEND\n$$;\n", 1},
		// Shell has no parameter syntax; $1 in the body reconstructs arg1.
		{lang.Bash, "function greet {\n  echo \"$1\"\n}\n", 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.language), func(t *testing.T) {
			m := New(tt.language).Parse(tt.source, "sample"+tt.language.DefaultExtension())
			fn := findFunction(m, "greet")
			if fn == nil {
				t.Fatalf("greet not extracted; functions = %v", functionNames(m))
			}
			if len(fn.Parameters) != tt.paramCount {
				t.Errorf("param count = %d, want %d", len(fn.Parameters), tt.paramCount)
			}
		})
	}
}

func TestClassExtraction(t *testing.T) {
	tests := []struct {
		language lang.Language
		source   string
		class    string
		method   string
	}{
		{lang.Python, "class Calculator:\n    def add(self, a, b):\n        return a + b\n", "Calculator", "add"},
		{lang.JavaScript, "class Calculator {\n  add(a, b) {\n    return a + b;\n  }\n}\n", "Calculator", "add"},
		{lang.Java, "public class Calculator {\n    public int add(int a, int b) {\n        return a + b;\n    }\n}\n", "Calculator", "add"},
		{lang.CSharp, "public class Calculator {\n    public int add(int a, int b) {\n        return a + b;\n    }\n}\n", "Calculator", "add"},
		{lang.Ruby, "class Calculator\n  def add(a, b)\n    a + b\n  end\nend\n", "Calculator", "add"},
	}
	for _, tt := range tests {
		t.Run(string(tt.language), func(t *testing.T) {
			m := New(tt.language).Parse(tt.source, "sample"+tt.language.DefaultExtension())
			var cls *uir.Class
			for i := range m.Classes {
				if m.Classes[i].Name == tt.class {
					cls = &m.Classes[i]
				}
			}
			if cls == nil {
				t.Fatalf("%s not extracted", tt.class)
			}
			found := false
			for _, fn := range cls.Methods {
				if fn.Name == tt.method {
					found = true
				}
			}
			if !found {
				t.Errorf("method %s not extracted", tt.method)
			}
		})
	}
}

// Keyword-delimited blocks whose closing `end` is the last byte of the file
// have no trailing newline to consume; the block scanner must not read past
// the source.
func TestBlockClosingAtEOF(t *testing.T) {
	tests := []struct {
		language lang.Language
		source   string
		fn       string
	}{
		{lang.Lua, "function greet(name)\n  return name\nend", "greet"},
		{lang.Ruby, "def greet(name)\n  name\nend", "greet"},
	}
	for _, tt := range tests {
		t.Run(string(tt.language), func(t *testing.T) {
			m := New(tt.language).Parse(tt.source, "sample"+tt.language.DefaultExtension())
			if findFunction(m, tt.fn) == nil {
				t.Fatalf("%s not extracted; functions = %v", tt.fn, functionNames(m))
			}
		})
	}

	src := "class Calculator\n  def add(a, b)\n    a + b\n  end\nend"
	m := New(lang.Ruby).Parse(src, "calc.rb")
	if len(m.Classes) != 1 || m.Classes[0].Name != "Calculator" {
		t.Fatalf("Calculator not extracted: %+v", m.Classes)
	}
	if len(m.Classes[0].Methods) != 1 || m.Classes[0].Methods[0].Name != "add" {
		t.Fatalf("add not extracted: %+v", m.Classes[0].Methods)
	}
}

func TestImportCaptureIsVerbatim(t *testing.T) {
	tests := []struct {
		language lang.Language
		source   string
		want     string
	}{
		{lang.Python, "import os\n\ndef main():\n    pass\n", "import os"},
		{lang.C, "#include <stdio.h>\n\nint main(void) {\n    return 0;\n}\n", "#include <stdio.h>"},
		{lang.Rust, "use std::fmt;\n\nfn main() {}\n", "use std::fmt;"},
		{lang.Java, "import java.util.List;\n\npublic class A {\n}\n", "import java.util.List;"},
	}
	for _, tt := range tests {
		t.Run(string(tt.language), func(t *testing.T) {
			m := New(tt.language).Parse(tt.source, "sample"+tt.language.DefaultExtension())
			found := false
			for _, imp := range m.Imports {
				if imp == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("import %q not captured; imports = %v", tt.want, m.Imports)
			}
		})
	}
}

func findFunction(m *uir.Module, name string) *uir.Function {
	for i := range m.Functions {
		if m.Functions[i].Name == name {
			return &m.Functions[i]
		}
	}
	return nil
}

func functionNames(m *uir.Module) []string {
	names := make([]string, 0, len(m.Functions))
	for _, fn := range m.Functions {
		names = append(names, fn.Name)
	}
	return names
}
