// Package export renders stable, serializable projections of parsed
// projects for downstream consumers: JSON function signatures for the
// visual node-graph renderer and mermaid diagrams for documentation.
package export

import (
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/dusk-indust/polyglot/internal/uir"
)

// FunctionSignature is the stable projection of one function or method.
// Field names are part of the wire contract; renames break consumers.
type FunctionSignature struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	QualifiedName string           `json:"qualifiedName"`
	Language      string           `json:"language"`
	Parameters    []ParameterField `json:"parameters"`
	ReturnType    string           `json:"returnType"`
	Dependencies  []string         `json:"dependencies,omitempty"`
	ExternalCalls []string         `json:"externalCalls,omitempty"`
}

// ParameterField is one parameter of a signature projection.
type ParameterField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Default  string `json:"default,omitempty"`
	Required bool   `json:"required"`
}

// FunctionSignatures projects every function and method of p, sorted by
// qualified name for deterministic output.
func FunctionSignatures(p *uir.Project) []FunctionSignature {
	var out []FunctionSignature
	for _, m := range p.Modules {
		for i := range m.Functions {
			out = append(out, signature(&m.Functions[i], m.Name, ""))
		}
		for _, cls := range m.Classes {
			for i := range cls.Methods {
				out = append(out, signature(&cls.Methods[i], m.Name, cls.Name))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QualifiedName < out[j].QualifiedName
	})
	return out
}

// MarshalSignatures renders the signature projections as indented JSON.
func MarshalSignatures(p *uir.Project) ([]byte, error) {
	data, err := json.MarshalIndent(FunctionSignatures(p), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "export: marshal signatures")
	}
	return data, nil
}

func signature(fn *uir.Function, module, owner string) FunctionSignature {
	qualified := module + "." + fn.Name
	if owner != "" {
		qualified = module + "." + owner + "." + fn.Name
	}
	params := make([]ParameterField, 0, len(fn.Parameters))
	for _, p := range fn.Parameters {
		params = append(params, ParameterField{
			Name:     p.Name,
			Type:     string(p.Type.Base),
			Default:  p.Default,
			Required: p.Required,
		})
	}
	return FunctionSignature{
		ID:            fn.ID,
		Name:          fn.Name,
		QualifiedName: qualified,
		Language:      string(fn.SourceLang),
		Parameters:    params,
		ReturnType:    string(fn.ReturnType.Base),
		Dependencies:  fn.Dependencies,
		ExternalCalls: fn.Attrs.ExternalCalls,
	}
}
