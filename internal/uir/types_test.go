package uir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/polyglot/internal/lang"
)

func TestTypeSignatureString(t *testing.T) {
	assert.Equal(t, "string", Sig(String).String())

	nested := TypeSignature{
		Base: Array,
		Generics: []TypeSignature{
			{Base: Object, Generics: []TypeSignature{Sig(String)}},
		},
	}
	assert.Equal(t, "array<object<string>>", nested.String())

	pair := TypeSignature{Base: Object, Generics: []TypeSignature{Sig(String), Sig(Integer)}}
	assert.Equal(t, "object<string, integer>", pair.String())
}

func TestNewParameterDerivesRequired(t *testing.T) {
	p := NewParameter("name", Sig(String), "")
	assert.True(t, p.Required)

	p = NewParameter("limit", Sig(Integer), "10")
	assert.False(t, p.Required)
	assert.Equal(t, "10", p.Default)
}

func TestNewModuleAssignsID(t *testing.T) {
	m := NewModule("calc", lang.Python, "calc.py")
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "calc", m.Name)
	assert.Equal(t, lang.Python, m.SourceLang)
	assert.Empty(t, m.Functions)
}

func TestProjectFunctionHelpers(t *testing.T) {
	p := NewProject("demo")
	m := NewModule("calc", lang.Python, "calc.py")
	m.Functions = append(m.Functions, Function{
		ID: "fn-a", Name: "a", Dependencies: []string{"fn-b"},
	})
	m.Classes = append(m.Classes, Class{
		ID: "cls", Name: "C",
		Methods: []Function{{ID: "fn-b", Name: "b"}},
	})
	p.Modules = append(p.Modules, m)

	all := p.AllFunctions()
	require.Len(t, all, 2)

	fn := p.FunctionByID("fn-b")
	require.NotNil(t, fn)
	assert.Equal(t, "b", fn.Name)
	assert.Nil(t, p.FunctionByID("fn-missing"))

	graph := p.DependencyGraph()
	assert.Equal(t, []string{"fn-b"}, graph["fn-a"])
	assert.Empty(t, graph["fn-b"])
}
