package lang

import "testing"

func TestNormalizeAliases(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"python", Python},
		{"py", Python},
		{"Py", Python},
		{"js", JavaScript},
		{"ts", TypeScript},
		{"rb", Ruby},
		{"golang", Go},
		{"GO", Go},
		{"rs", Rust},
		{"c#", CSharp},
		{"cs", CSharp},
		{"kt", Kotlin},
		{"sh", Bash},
		{"shell", Bash},
		{"  rust  ", Rust},
		{"cobol", Language("cobol")},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     Language
		ok       bool
	}{
		{"main.py", Python, true},
		{"app.mjs", JavaScript, true},
		{"app.tsx", TypeScript, true},
		{"lib.rs", Rust, true},
		{"stats.R", R, true},
		{"stats.r", R, true},
		{"header.h", C, true},
		{"deploy.sh", Bash, true},
		{"deploy.bash", Bash, true},
		{"Program.cs", CSharp, true},
		{"build.gradle.kts", Kotlin, true},
		{"query.sql", SQL, true},
		{"notes.txt", "", false},
		{"Makefile", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := FromFilename(tt.filename)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FromFilename(%q) = (%q, %v), want (%q, %v)",
				tt.filename, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEveryLanguageHasExtensionsAndCommentPrefix(t *testing.T) {
	if len(All) != 17 {
		t.Fatalf("len(All) = %d, want 17", len(All))
	}
	for _, l := range All {
		if len(l.Extensions()) == 0 {
			t.Errorf("%s has no extensions", l)
		}
		if l.DefaultExtension() == ".txt" {
			t.Errorf("%s has no default extension", l)
		}
		if l.CommentPrefix() == "" {
			t.Errorf("%s has no comment prefix", l)
		}
		if !l.Known() {
			t.Errorf("%s not Known", l)
		}
	}
}

func TestUnknownLanguageFallbacks(t *testing.T) {
	l := Language("fortran")
	if l.Known() {
		t.Error("fortran should not be Known")
	}
	if got := l.DefaultExtension(); got != ".txt" {
		t.Errorf("DefaultExtension = %q, want .txt", got)
	}
	if got := l.CommentPrefix(); got != "//" {
		t.Errorf("CommentPrefix = %q, want //", got)
	}
}
