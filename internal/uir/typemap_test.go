package uir

import (
	"testing"

	"github.com/dusk-indust/polyglot/internal/lang"
)

func TestMapTypeIsTotal(t *testing.T) {
	for _, target := range lang.All {
		for _, dt := range AllDataTypes {
			if got := MapType(Sig(dt), target); got == "" {
				t.Errorf("MapType(%s, %s) is empty", dt, target)
			}
		}
	}
}

func TestMapTypeSpellings(t *testing.T) {
	tests := []struct {
		dt     DataType
		target lang.Language
		want   string
	}{
		{String, lang.Python, "str"},
		{Integer, lang.JavaScript, "number"},
		{Func, lang.Python, "Callable"},
		{Func, lang.JavaScript, "Function"},
		{Unknown, lang.TypeScript, "unknown"},
		{Void, lang.Rust, "()"},
		{Float, lang.Go, "float64"},
		{String, lang.C, "char*"},
		{Boolean, lang.SQL, "BOOLEAN"},
		{Object, lang.Swift, "[String: Any]"},
	}
	for _, tt := range tests {
		if got := MapType(Sig(tt.dt), tt.target); got != tt.want {
			t.Errorf("MapType(%s, %s) = %q, want %q", tt.dt, tt.target, got, tt.want)
		}
	}
}

func TestMapTypeUnknownTargetFallsBack(t *testing.T) {
	if got := MapType(Sig(String), lang.Language("cobol")); got != "any" {
		t.Errorf("got %q, want any", got)
	}
}

func TestDefaultReturnCoversNonVoidTypes(t *testing.T) {
	// Void functions never emit a return statement; every other DataType
	// must yield some printable placeholder in every target.
	for _, target := range lang.All {
		for _, dt := range AllDataTypes {
			if dt == Void {
				continue
			}
			if got := DefaultReturn(Sig(dt), target); got == "" {
				t.Errorf("DefaultReturn(%s, %s) is empty", dt, target)
			}
		}
	}
}

func TestDefaultReturnSpellings(t *testing.T) {
	tests := []struct {
		dt     DataType
		target lang.Language
		want   string
	}{
		{String, lang.Python, `""`},
		{Boolean, lang.R, "FALSE"},
		{Array, lang.Kotlin, "emptyList()"},
		{String, lang.Rust, "String::new()"},
		{Any, lang.Go, "nil"},
		{Any, lang.Ruby, "nil"},
		{Integer, lang.Bash, "0"},
	}
	for _, tt := range tests {
		if got := DefaultReturn(Sig(tt.dt), tt.target); got != tt.want {
			t.Errorf("DefaultReturn(%s, %s) = %q, want %q", tt.dt, tt.target, got, tt.want)
		}
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		literal string
		want    DataType
	}{
		{`"hello"`, String},
		{"'x'", String},
		{"true", Boolean},
		{"False", Boolean},
		{"TRUE", Boolean},
		{"42", Integer},
		{"-7", Integer},
		{"3.14", Float},
		{"-1.5e10", Float},
		{"[1, 2]", Array},
		{"c(1, 2)", Array},
		{"{}", Object},
		{"list(a = 1)", Object},
		{"someCall()", Any},
		{"", Any},
	}
	for _, tt := range tests {
		if got := Infer(tt.literal, lang.Python); got.Base != tt.want {
			t.Errorf("Infer(%q).Base = %s, want %s", tt.literal, got.Base, tt.want)
		}
	}
}

func TestInferNullIsNullableAny(t *testing.T) {
	for _, literal := range []string{"None", "nil", "null", "undefined"} {
		sig := Infer(literal, lang.Python)
		if sig.Base != Any || !sig.Nullable {
			t.Errorf("Infer(%q) = %+v, want nullable Any", literal, sig)
		}
	}
}
