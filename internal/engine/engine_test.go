package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/polyglot/internal/lang"
)

const pythonSample = `import os

def greet(name):
    return "Hello, " + name

class Calculator:
    def __init__(self, value):
        self.value = value

    def add(self, a, b):
        return a + b
`

func TestSupportedLanguagesCoversAll(t *testing.T) {
	e := New(nil)
	got := e.SupportedLanguages()
	require.Len(t, got, len(lang.All))
	assert.Equal(t, lang.All, got)
}

func TestParseToIRUnsupportedLanguage(t *testing.T) {
	e := New(nil)
	_, err := e.ParseToIR("x = 1", "cobol", "")
	require.Error(t, err)
	assert.True(t, IsUnsupportedLanguage(err))

	var typed *UnsupportedLanguageError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "cobol", typed.Name)
	assert.Len(t, typed.Supported, len(lang.All))
	assert.Contains(t, err.Error(), "cobol")
}

func TestTranslateReturnsModuleAndOutput(t *testing.T) {
	e := New(nil)
	out, m, err := e.Translate(pythonSample, lang.Python, lang.Go, "calc.py")
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Len(t, m.Functions, 1)
	require.Len(t, m.Classes, 1)
	assert.Equal(t, "Calculator", m.Classes[0].Name)

	nonCtor := 0
	for _, fn := range m.Classes[0].Methods {
		if fn.Name != "__init__" {
			nonCtor++
		}
	}
	assert.Equal(t, 1, nonCtor)

	for _, ident := range []string{"greet", "Calculator", "add"} {
		assert.Contains(t, out, ident)
	}
}

func TestTranslateToEveryTarget(t *testing.T) {
	e := New(nil)
	for _, target := range lang.All {
		t.Run(string(target), func(t *testing.T) {
			out, _, err := e.Translate(pythonSample, lang.Python, target, "calc.py")
			require.NoError(t, err)
			assert.NotEmpty(t, strings.TrimSpace(out))
			assert.Contains(t, out, "greet")
			assert.Contains(t, out, "Calculator")
			assert.Contains(t, out, "add")
		})
	}
}

func TestDetectLanguageFromFilename(t *testing.T) {
	e := New(nil)
	tests := []struct {
		filename string
		want     lang.Language
		wantOK   bool
	}{
		{"main.py", lang.Python, true},
		{"app.tsx", lang.TypeScript, true},
		{"lib.rs", lang.Rust, true},
		{"deploy.sh", lang.Bash, true},
		{"notes.txt", "", false},
		{"Makefile", "", false},
	}
	for _, tt := range tests {
		got, ok := e.DetectLanguageFromFilename(tt.filename)
		assert.Equal(t, tt.wantOK, ok, tt.filename)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, tt.filename)
		}
	}
}

func TestBuildProjectSkipsBadItems(t *testing.T) {
	e := New(nil)
	files := []ProjectFile{
		{Content: pythonSample, Language: lang.Python, Filename: "calc.py"},
		{Content: "x = 1", Language: "fortran", Filename: "legacy.f90"},
		{Content: "function t() { return 1; }", Filename: "t.js"}, // detected
		{Content: "data", Filename: "readme.txt"},                 // undetectable
	}

	p := e.BuildProject(context.Background(), "mixed", files)
	require.Len(t, p.Modules, 2)
	assert.Equal(t, "calc", p.Modules[0].Name)
	assert.Equal(t, "t", p.Modules[1].Name)
}

func TestExportProjectHasManifest(t *testing.T) {
	e := New(nil)
	p := e.BuildProject(context.Background(), "demo", []ProjectFile{
		{Content: pythonSample, Language: lang.Python, Filename: "calc.py"},
	})

	files, err := e.ExportProject(p, lang.Rust)
	require.NoError(t, err)
	assert.Contains(t, files, "calc.rs")
	assert.Contains(t, files, "Cargo.toml")

	_, err = e.ExportProject(p, "brainfuck")
	assert.True(t, IsUnsupportedLanguage(err))
}

func TestValidateRoundTripClean(t *testing.T) {
	e := New(nil)
	out, _, err := e.Translate(pythonSample, lang.Python, lang.JavaScript, "calc.py")
	require.NoError(t, err)

	report, err := e.ValidateRoundTrip(pythonSample, out, lang.Python, lang.JavaScript)
	require.NoError(t, err)
	assert.Empty(t, report.MissingFunctions)
	assert.Empty(t, report.ParameterMismatches)
	assert.True(t, report.Clean())
}

func TestValidateRoundTripReportsLossAsData(t *testing.T) {
	e := New(nil)
	translated := "def greet(name, extra):\n    pass\n"

	report, err := e.ValidateRoundTrip(pythonSample, translated, lang.Python, lang.Python)
	require.NoError(t, err)

	assert.Equal(t, []string{"add"}, report.MissingFunctions)
	require.Len(t, report.ParameterMismatches, 1)
	assert.Equal(t, "greet", report.ParameterMismatches[0].Function)
	assert.Equal(t, 1, report.ParameterMismatches[0].SourceCount)
	assert.Equal(t, 2, report.ParameterMismatches[0].TargetCount)
	assert.False(t, report.Clean())
}
