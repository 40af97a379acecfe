package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

func sampleProject() *uir.Project {
	m := uir.NewModule("calc", lang.Python, "calc.py")
	m.Functions = append(m.Functions, uir.Function{
		ID:   "fn-greet",
		Name: "greet",
		Parameters: []uir.Parameter{
			{Name: "name", Type: uir.Sig(uir.String), Required: true},
		},
		ReturnType:   uir.Sig(uir.String),
		SourceLang:   lang.Python,
		Dependencies: []string{"fn-add"},
		Attrs: uir.Attributes{
			ControlFlow:   []uir.ControlFlow{{Kind: uir.FlowIf}},
			ExternalCalls: []string{"os.getenv"},
		},
	})
	m.Classes = append(m.Classes, uir.Class{
		ID:   "cls-calc",
		Name: "Calculator",
		Methods: []uir.Function{
			{
				ID:   "fn-add",
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
	})

	p := uir.NewProject("demo")
	p.Modules = append(p.Modules, m)
	return p
}

func TestFunctionSignaturesQualifiedAndSorted(t *testing.T) {
	sigs := FunctionSignatures(sampleProject())
	require.Len(t, sigs, 2)

	assert.Equal(t, "calc.Calculator.add", sigs[0].QualifiedName)
	assert.Equal(t, "calc.greet", sigs[1].QualifiedName)

	greet := sigs[1]
	assert.Equal(t, "fn-greet", greet.ID)
	assert.Equal(t, "string", greet.ReturnType)
	assert.Equal(t, []string{"fn-add"}, greet.Dependencies)
	assert.Equal(t, []string{"os.getenv"}, greet.ExternalCalls)
	require.Len(t, greet.Parameters, 1)
	assert.Equal(t, "name", greet.Parameters[0].Name)
	assert.True(t, greet.Parameters[0].Required)
}

func TestMarshalSignaturesStableWireNames(t *testing.T) {
	data, err := MarshalSignatures(sampleProject())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	for _, key := range []string{"id", "name", "qualifiedName", "parameters", "returnType"} {
		assert.Contains(t, decoded[0], key)
	}
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(sampleProject())

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `subgraph`)
	assert.Contains(t, out, `greet(1 params)`)
	assert.Contains(t, out, `add(2 params)`)
	assert.Contains(t, out, "if_condition")
	assert.Contains(t, out, "-->")
	assert.Contains(t, out, "-.->")
}
