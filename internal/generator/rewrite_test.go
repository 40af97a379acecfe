package generator

import (
	"strings"
	"testing"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

func TestRewritePythonToJavaScript(t *testing.T) {
	fn := &uir.Function{
		Name:       "announce",
		ReturnType: uir.Sig(uir.Void),
		SourceLang: lang.Python,
		SourceCode: "def announce(msg):\n    if msg and True:\n        print(msg)",
	}

	body, ok := rewriteBody(fn, lang.JavaScript)
	if !ok {
		t.Fatal("expected a rewrite between python and javascript")
	}
	joined := strings.Join(body, "\n")

	if !strings.Contains(body[0], "converted from python") {
		t.Errorf("rewrite not labeled as best-effort: %q", body[0])
	}
	if !strings.Contains(joined, "console.log(msg)") {
		t.Errorf("print not rewritten:\n%s", joined)
	}
	if !strings.Contains(joined, "&&") || !strings.Contains(joined, "true") {
		t.Errorf("operators not rewritten:\n%s", joined)
	}
}

func TestRewriteJavaScriptToPython(t *testing.T) {
	fn := &uir.Function{
		Name:       "check",
		ReturnType: uir.Sig(uir.Boolean),
		SourceLang: lang.JavaScript,
		SourceCode: "function check(x) {\n  if (x !== null && x === true) {\n    console.log(x);\n  }\n  return true;\n}",
	}

	body, ok := rewriteBody(fn, lang.Python)
	if !ok {
		t.Fatal("expected a rewrite between javascript and python")
	}
	joined := strings.Join(body, "\n")

	if !strings.Contains(body[0], "converted from javascript") {
		t.Errorf("rewrite not labeled as best-effort: %q", body[0])
	}
	if !strings.Contains(joined, "print(x)") {
		t.Errorf("console.log not rewritten:\n%s", joined)
	}
	if !strings.Contains(joined, "None") || !strings.Contains(joined, " and ") {
		t.Errorf("operators not rewritten:\n%s", joined)
	}
	if strings.Contains(joined, "===") {
		t.Errorf("strict equality survived the rewrite:\n%s", joined)
	}
}

func TestRewriteJavaScriptToTypeScriptIsVerbatim(t *testing.T) {
	src := "function id(x) {\n  return x;\n}"
	fn := &uir.Function{
		Name:       "id",
		ReturnType: uir.Sig(uir.Any),
		SourceLang: lang.JavaScript,
		SourceCode: src,
	}

	body, ok := rewriteBody(fn, lang.TypeScript)
	if !ok {
		t.Fatal("expected javascript to splice into typescript")
	}
	if strings.Join(body, "\n") != "return x;" {
		t.Errorf("body not spliced verbatim: %v", body)
	}
}

func TestRewriteRefusesUnrelatedPairs(t *testing.T) {
	fn := &uir.Function{
		Name:       "work",
		SourceLang: lang.Ruby,
		SourceCode: "def work\n  puts 'hi'\nend",
	}
	if _, ok := rewriteBody(fn, lang.Python); ok {
		t.Error("ruby source should not take the lexical-rewrite path")
	}
	if _, ok := rewriteBody(fn, lang.Go); ok {
		t.Error("rewrite must stay within the python/javascript families")
	}
}
