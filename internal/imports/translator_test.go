package imports

import (
	"reflect"
	"testing"

	"github.com/dusk-indust/polyglot/internal/lang"
)

func TestTranslateForeignShapes(t *testing.T) {
	tests := []struct {
		name   string
		stmt   string
		target lang.Language
		want   string
	}{
		{"plain to python", "import os", lang.Python, "import os"},
		{"alias to python", "import numpy as np", lang.Python, "import numpy as np"},
		{"plain to javascript", "import os", lang.JavaScript, "const os = require('os');"},
		{"alias to javascript", "import numpy as np", lang.JavaScript, "const np = require('numpy');"},
		{"names to javascript", "from math import sqrt, pi", lang.JavaScript, "const { sqrt, pi } = require('math');"},
		{"wildcard to javascript", "from os.path import *", lang.JavaScript, "const path = require('os.path');"},
		{"names to typescript", "from math import sqrt", lang.TypeScript, "import { sqrt } from 'math';"},
		{"plain to typescript", "import utils.helpers", lang.TypeScript, "import * as helpers from 'utils.helpers';"},
		{"names to java", "from java.util import List, Map", lang.Java, "import java.util.List;\nimport java.util.Map;"},
		{"plain to java", "import utils", lang.Java, "import utils.*;"},
		{"single name to rust", "from collections import OrderedDict", lang.Rust, "use collections::OrderedDict;"},
		{"names to rust", "from std.fmt import Display, Debug", lang.Rust, "use std::fmt::{Display, Debug};"},
		{"wildcard to rust", "from prelude import *", lang.Rust, "use prelude::*;"},
		{"plain to csharp", "import System.IO", lang.CSharp, "using System.IO;"},
		{"names to kotlin", "from kotlinx.coroutines import launch", lang.Kotlin, "import kotlinx.coroutines.launch"},
		{"dotted to swift", "import Foundation.NSData", lang.Swift, "import Foundation"},
		{"names to scala", "from scala.collection import mutable, immutable", lang.Scala, "import scala.collection.{mutable, immutable}"},
		{"wildcard to scala", "from scala.math import *", lang.Scala, "import scala.math._"},
		{"plain to ruby", "import json", lang.Ruby, "require 'json'"},
		{"names to php", "from App.Models import User", lang.PHP, `use App\Models\User;`},
		{"alias to lua", "import socket.http as http", lang.Lua, `local http = require("socket.http")`},
		{"plain to r", "import ggplot2", lang.R, "library(ggplot2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Translate(tt.stmt, tt.target); got != tt.want {
				t.Errorf("Translate(%q, %s) = %q, want %q", tt.stmt, tt.target, got, tt.want)
			}
		})
	}
}

func TestTranslateCommentsOutWhenNoAnalog(t *testing.T) {
	tests := []struct {
		stmt   string
		target lang.Language
		want   string
	}{
		{"import os", lang.C, "// foreign import: import os"},
		{"import os", lang.Go, "// foreign import: import os"},
		{"from math import sqrt", lang.Bash, "# foreign import: from math import sqrt"},
		{"import json", lang.SQL, "-- foreign import: import json"},
	}
	for _, tt := range tests {
		if got := Translate(tt.stmt, tt.target); got != tt.want {
			t.Errorf("Translate(%q, %s) = %q, want %q", tt.stmt, tt.target, got, tt.want)
		}
	}
}

func TestNativeSyntaxWinsOverForeignResemblance(t *testing.T) {
	tests := []struct {
		stmt   string
		target lang.Language
	}{
		{`#include <stdio.h>`, lang.C},
		{`import "fmt"`, lang.Go},
		{"use std::fmt;", lang.Rust},
		{"using System;", lang.CSharp},
		{"require 'json'", lang.Ruby},
		{`const fs = require('fs');`, lang.JavaScript},
		{"import { useState } from 'react';", lang.TypeScript},
		{"library(dplyr)", lang.R},
		{"source ./env.sh", lang.Bash},
	}
	for _, tt := range tests {
		if got := Translate(tt.stmt, tt.target); got != tt.stmt {
			t.Errorf("Translate(%q, %s) = %q, want unchanged", tt.stmt, tt.target, got)
		}
	}
}

// Python's `import x.y` and java/kotlin/scala's dotted import look alike;
// the foreign shape must still be re-rendered, not passed through.
func TestForeignShapeIsNeverNativeOutsidePython(t *testing.T) {
	if got := Translate("import os.path", lang.Java); got != "import os.path.*;" {
		t.Errorf("java: got %q", got)
	}
	if got := Translate("import os.path", lang.Kotlin); got != "import os.path.*" {
		t.Errorf("kotlin: got %q", got)
	}
	// Bare single-segment `import X` is swift's own syntax.
	if got := Translate("import Foundation", lang.Swift); got != "import Foundation" {
		t.Errorf("swift: got %q", got)
	}
	// The aliased form is python only; swift has no `as`, so the alias is
	// dropped rather than passed through.
	if got := Translate("import os as o", lang.Swift); got != "import os" {
		t.Errorf("swift aliased: got %q", got)
	}
}

func TestTranslatePassesThroughUnrecognized(t *testing.T) {
	stmt := "load 'something.rake'"
	if got := Translate(stmt, lang.Go); got != stmt {
		t.Errorf("got %q, want pass-through", got)
	}
	// Not rust syntax, but not a recognized foreign shape either.
	inc := `#include <stdio.h>`
	if got := Translate(inc, lang.Rust); got != inc {
		t.Errorf("got %q, want pass-through", got)
	}
}

func TestTranslateAllDedupsAndExpands(t *testing.T) {
	stmts := []string{
		"import os",
		"  ",
		"from java.util import List, Map",
		"import os", // duplicate
		"from java.util import Map", // collapses into an already-emitted line
	}
	got := TranslateAll(stmts, lang.Java)
	want := []string{
		"import os.*;",
		"import java.util.List;",
		"import java.util.Map;",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TranslateAll = %v, want %v", got, want)
	}
}

func TestTranslateAllPreservesFirstSeenOrder(t *testing.T) {
	got := TranslateAll([]string{"import b", "import a", "import b"}, lang.Ruby)
	want := []string{"require 'b'", "require 'a'"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TranslateAll = %v, want %v", got, want)
	}
}
