package generator

import (
	"strings"
	"testing"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// sampleModule is the canonical round-trip shape: a greet function plus a
// Calculator class with a constructor and an add method.
func sampleModule() *uir.Module {
	m := uir.NewModule("greeter", lang.Python, "greeter.py")
	m.Functions = append(m.Functions, uir.Function{
		ID:   uir.NewID(),
		Name: "greet",
		Parameters: []uir.Parameter{
			{Name: "name", Type: uir.Sig(uir.String), Required: true},
		},
		ReturnType: uir.Sig(uir.String),
		SourceLang: lang.Python,
		Attrs:      uir.Attributes{Visibility: uir.Public},
	})
	m.Classes = append(m.Classes, uir.Class{
		ID:   uir.NewID(),
		Name: "Calculator",
		Properties: []uir.Parameter{
			{Name: "value", Type: uir.Sig(uir.Integer)},
		},
		Methods: []uir.Function{
			{
				ID:   uir.NewID(),
				Name: "__init__",
				Parameters: []uir.Parameter{
					{Name: "value", Type: uir.Sig(uir.Integer), Required: true},
				},
				ReturnType: uir.Sig(uir.Void),
				SourceLang: lang.Python,
			},
			{
				ID:   uir.NewID(),
				Name: "add",
				Parameters: []uir.Parameter{
					{Name: "a", Type: uir.Sig(uir.Integer), Required: true},
					{Name: "b", Type: uir.Sig(uir.Integer), Required: true},
				},
				ReturnType: uir.Sig(uir.Integer),
				SourceLang: lang.Python,
			},
		},
		SourceLang: lang.Python,
		Attrs:      uir.Attributes{Kind: uir.KindClass},
	})
	return m
}

func TestNewCoversEveryLanguage(t *testing.T) {
	for _, l := range lang.All {
		g := New(l)
		if g == nil {
			t.Fatalf("New(%s) = nil", l)
		}
		if g.Language() != l {
			t.Errorf("New(%s).Language() = %s", l, g.Language())
		}
	}
	if New("cobol") != nil {
		t.Error("expected nil generator for unknown language")
	}
}

func TestGenerateNeverFails(t *testing.T) {
	empty := uir.NewModule("empty", lang.Python, "empty.py")
	for _, l := range lang.All {
		t.Run(string(l), func(t *testing.T) {
			g := New(l)
			if out := g.Generate(sampleModule()); strings.TrimSpace(out) == "" {
				t.Error("empty output for populated module")
			}
			// An empty module still renders; nothing panics or errors.
			_ = g.Generate(empty)
		})
	}
}

func TestIdentifiersSurviveEveryTarget(t *testing.T) {
	m := sampleModule()
	for _, l := range lang.All {
		t.Run(string(l), func(t *testing.T) {
			out := New(l).Generate(m)
			for _, ident := range []string{"greet", "Calculator", "add"} {
				if !strings.Contains(out, ident) {
					t.Errorf("output lost identifier %q:\n%s", ident, out)
				}
			}
		})
	}
}

func TestStubBodiesCarryTodoMarker(t *testing.T) {
	m := sampleModule()
	for _, l := range lang.All {
		t.Run(string(l), func(t *testing.T) {
			out := New(l).Generate(m)
			if !strings.Contains(out, "TODO: Implement greet") {
				t.Errorf("missing placeholder marker:\n%s", out)
			}
		})
	}
}

func TestPythonCopyThroughKeepsBody(t *testing.T) {
	m := uir.NewModule("hello", lang.Python, "hello.py")
	m.Functions = append(m.Functions, uir.Function{
		ID:         uir.NewID(),
		Name:       "greet",
		Parameters: []uir.Parameter{{Name: "name", Type: uir.Sig(uir.String), Required: true}},
		ReturnType: uir.Sig(uir.String),
		SourceLang: lang.Python,
		SourceCode: "def greet(name):\n    return f\"Hello, {name}!\"",
	})

	out := New(lang.Python).Generate(m)
	if !strings.Contains(out, `return f"Hello, {name}!"`) {
		t.Errorf("native body not spliced through:\n%s", out)
	}
	if strings.Contains(out, "TODO") {
		t.Errorf("copy-through path emitted a placeholder:\n%s", out)
	}
}

func TestGoOmitsVoidReturnType(t *testing.T) {
	m := uir.NewModule("tasks", lang.Python, "tasks.py")
	m.Functions = append(m.Functions, uir.Function{
		ID:         uir.NewID(),
		Name:       "run",
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.Python,
	})

	out := New(lang.Go).Generate(m)
	if !strings.Contains(out, "func run()") {
		t.Errorf("expected plain func head:\n%s", out)
	}
	if strings.Contains(out, "struct{}") {
		t.Errorf("void return leaked a type spelling:\n%s", out)
	}
}

func TestImportsDedupedInOutput(t *testing.T) {
	m := uir.NewModule("app", lang.Python, "app.py")
	m.Imports = []string{"import os", "import os", "import sys"}

	out := New(lang.Python).Generate(m)
	if got := strings.Count(out, "import os"); got != 1 {
		t.Errorf("import os appears %d times, want 1:\n%s", got, out)
	}
	if !strings.Contains(out, "import sys") {
		t.Errorf("import sys dropped:\n%s", out)
	}
}

func TestNativeIncludePassesThroughUnchanged(t *testing.T) {
	m := uir.NewModule("core", lang.C, "core.c")
	m.Imports = []string{"#include <stdio.h>"}

	for _, l := range []lang.Language{lang.C, lang.Rust} {
		out := New(l).Generate(m)
		if l == lang.C && !strings.Contains(out, "#include <stdio.h>") {
			t.Errorf("%s output lost the native include:\n%s", l, out)
		}
		if l == lang.Rust && !strings.Contains(out, "#include <stdio.h>") {
			t.Errorf("%s output should carry the statement (pass-through):\n%s", l, out)
		}
	}
}

func TestForeignImportBecomesMarkedComment(t *testing.T) {
	m := uir.NewModule("app", lang.Python, "app.py")
	m.Imports = []string{"import os"}

	out := New(lang.C).Generate(m)
	if !strings.Contains(out, "// foreign import: import os") {
		t.Errorf("foreign import not preserved as marked comment:\n%s", out)
	}
}

func TestGenerateProjectEmitsOneManifest(t *testing.T) {
	p := uir.NewProject("demo app")
	p.Modules = append(p.Modules, sampleModule())

	manifests := map[lang.Language]string{
		lang.Python:     "requirements.txt",
		lang.JavaScript: "package.json",
		lang.TypeScript: "tsconfig.json",
		lang.Ruby:       "Gemfile",
		lang.PHP:        "composer.json",
		lang.Lua:        "demo-app-0.1-1.rockspec",
		lang.R:          "DESCRIPTION",
		lang.Java:       "pom.xml",
		lang.Go:         "go.mod",
		lang.Rust:       "Cargo.toml",
		lang.CSharp:     "demo-app.csproj",
		lang.Kotlin:     "build.gradle.kts",
		lang.Swift:      "Package.swift",
		lang.Scala:      "build.sbt",
		lang.C:          "Makefile",
		lang.SQL:        "schema.sql",
		lang.Bash:       "run.sh",
	}

	for _, l := range lang.All {
		t.Run(string(l), func(t *testing.T) {
			files := GenerateProject(New(l), p)
			want, ok := manifests[l]
			if !ok {
				t.Fatalf("no expected manifest for %s", l)
			}
			if _, ok := files[want]; !ok {
				t.Errorf("missing manifest %q, got files %v", want, keys(files))
			}
			count := 0
			for name := range manifests {
				if _, ok := files[manifests[name]]; ok {
					count++
				}
			}
			if count != 1 {
				t.Errorf("expected exactly one manifest, found %d in %v", count, keys(files))
			}
		})
	}
}

func TestCGenerateProjectEmitsHeaders(t *testing.T) {
	p := uir.NewProject("demo")
	p.Modules = append(p.Modules, sampleModule())

	files := GenerateProject(New(lang.C), p)
	for _, want := range []string{"greeter.c", "greeter.h", "Makefile"} {
		if _, ok := files[want]; !ok {
			t.Errorf("missing %q, got %v", want, keys(files))
		}
	}
	if !strings.Contains(files["greeter.h"], "#ifndef GREETER_H") {
		t.Errorf("header missing include guard:\n%s", files["greeter.h"])
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
