// Package uir defines the Universal Intermediate Representation: the
// language-neutral data model every parser emits and every generator
// consumes. Modules are fully populated by a single parse call and are
// treated as read-only afterwards.
package uir

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dusk-indust/polyglot/internal/lang"
)

// DataType is the closed set of universal type categories. All integer
// widths collapse to Integer and all non-integer numerics to Float; this is
// a declared fidelity boundary.
type DataType string

const (
	Void    DataType = "void"
	Boolean DataType = "boolean"
	Integer DataType = "integer"
	Float   DataType = "float"
	String  DataType = "string"
	Array   DataType = "array"
	Object  DataType = "object"
	Func    DataType = "function"
	Any     DataType = "any"
	Unknown DataType = "unknown"
)

// AllDataTypes lists every DataType value, for totality checks.
var AllDataTypes = []DataType{
	Void, Boolean, Integer, Float, String, Array, Object, Func, Any, Unknown,
}

// TypeSignature is a DataType plus optional nested generic parameters and a
// nullability flag. Generics nest: array<object<string>> is representable.
type TypeSignature struct {
	Base     DataType        `json:"base_type"`
	Generics []TypeSignature `json:"generic_params,omitempty"`
	Nullable bool            `json:"nullable,omitempty"`
}

// Sig is shorthand for a TypeSignature with no generics.
func Sig(base DataType) TypeSignature {
	return TypeSignature{Base: base}
}

// String renders the signature as base<params...>.
func (t TypeSignature) String() string {
	if len(t.Generics) == 0 {
		return string(t.Base)
	}
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = g.String()
	}
	return string(t.Base) + "<" + strings.Join(parts, ", ") + ">"
}

// Parameter is a universal function parameter. Required is false exactly
// when a default value is present; NewParameter enforces this at
// construction and it is not re-checked later.
type Parameter struct {
	Name     string        `json:"name"`
	Type     TypeSignature `json:"type_sig"`
	Default  string        `json:"default_value,omitempty"`
	Required bool          `json:"required"`
}

// NewParameter builds a Parameter, deriving Required from the presence of a
// default value.
func NewParameter(name string, sig TypeSignature, defaultValue string) Parameter {
	return Parameter{
		Name:     name,
		Type:     sig,
		Default:  defaultValue,
		Required: defaultValue == "",
	}
}

// StructuralKind tags a type-with-members with the taxonomy it came from.
// Languages do not share one taxonomy, so the kind is an open marker used by
// generator decision tables rather than a forced common shape.
type StructuralKind string

const (
	KindClass     StructuralKind = "class"
	KindInterface StructuralKind = "interface"
	KindStruct    StructuralKind = "struct"
	KindEnum      StructuralKind = "enum"
	KindTrait     StructuralKind = "trait"
	KindDataClass StructuralKind = "data_class"
	KindTable     StructuralKind = "table"
	KindModule    StructuralKind = "module"
)

// Visibility is the coarse cross-language visibility of a declaration.
type Visibility string

const (
	Public    Visibility = "public"
	Private   Visibility = "private"
	Protected Visibility = "protected"
)

// ControlFlowKind classifies an entry in a function's control-flow inventory.
type ControlFlowKind string

const (
	FlowIf     ControlFlowKind = "if_condition"
	FlowFor    ControlFlowKind = "for_loop"
	FlowWhile  ControlFlowKind = "while_loop"
	FlowSwitch ControlFlowKind = "switch"
	FlowTry    ControlFlowKind = "try_except"
	FlowWith   ControlFlowKind = "with"
)

// ControlFlow is one entry in the ordered control-flow inventory of a
// function body. It exists for downstream visualization only and carries no
// weight in any correctness decision inside the core.
type ControlFlow struct {
	Kind    ControlFlowKind `json:"kind"`
	Snippet string          `json:"source_snippet"`
	Line    int             `json:"line_number"`
}

// Attributes is the closed set of typed per-declaration attributes shared by
// all languages. Anything a language cannot express stays zero-valued rather
// than going through an untyped hints bag.
type Attributes struct {
	Kind          StructuralKind `json:"kind,omitempty"`
	Visibility    Visibility     `json:"visibility,omitempty"`
	Async         bool           `json:"async,omitempty"`
	Static        bool           `json:"static,omitempty"`
	Exported      bool           `json:"exported,omitempty"`
	Receiver      string         `json:"receiver,omitempty"`
	ReceiverType  string         `json:"receiver_type,omitempty"`
	ControlFlow   []ControlFlow  `json:"control_flow,omitempty"`
	ExternalCalls []string       `json:"external_calls,omitempty"`
}

// Variable is a universal top-level variable or constant.
type Variable struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Type       TypeSignature `json:"type_sig"`
	Value      string        `json:"value,omitempty"`
	IsConstant bool          `json:"is_constant"`
	IsGlobal   bool          `json:"is_global"`
	SourceLang lang.Language `json:"source_language"`
	Attrs      Attributes    `json:"attrs,omitempty"`
}

// Function is a universal function or method. Dependencies lists same-module
// callee ids only; unresolved external callees go to Attrs.ExternalCalls,
// never as dangling ids.
type Function struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Parameters   []Parameter   `json:"parameters"`
	ReturnType   TypeSignature `json:"return_type"`
	Purpose      string        `json:"purpose,omitempty"`
	SourceLang   lang.Language `json:"source_language"`
	SourceCode   string        `json:"source_code,omitempty"`
	Dependencies []string      `json:"dependencies,omitempty"`
	ExternalLibs []string      `json:"external_libraries,omitempty"`
	Attrs        Attributes    `json:"attrs,omitempty"`
}

// Class is a universal type-with-members: class, struct, interface, trait,
// enum or table, tagged via Attrs.Kind. BaseClasses is ordered; order
// matters for multi-inheritance and mixin-style targets.
type Class struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Methods     []Function    `json:"methods"`
	Properties  []Parameter   `json:"properties"`
	BaseClasses []string      `json:"base_classes,omitempty"`
	SourceLang  lang.Language `json:"source_language"`
	SourceCode  string        `json:"source_code,omitempty"`
	Attrs       Attributes    `json:"attrs,omitempty"`
}

// Module is the universal representation of one source file. Imports are
// stored verbatim in the language they were parsed from, in source order;
// they are translated lazily, per target, at generation time.
type Module struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Functions  []Function    `json:"functions"`
	Classes    []Class       `json:"classes"`
	Variables  []Variable    `json:"variables"`
	Imports    []string      `json:"imports"`
	Exports    []string      `json:"exports,omitempty"`
	SourceLang lang.Language `json:"source_language"`
	SourceFile string        `json:"source_file"`
}

// NewModule creates an empty module for the given source file.
func NewModule(name string, source lang.Language, file string) *Module {
	return &Module{
		ID:         NewID(),
		Name:       name,
		SourceLang: source,
		SourceFile: file,
	}
}

// Project aggregates modules parsed from multiple files, possibly in
// multiple languages. It has no lifecycle beyond its modules'.
type Project struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Modules            []*Module         `json:"modules"`
	DataFlows          []DataFlow        `json:"data_flows,omitempty"`
	LanguageMappings   map[string]string `json:"language_mappings,omitempty"`
	BridgeRequirements []string          `json:"bridge_requirements,omitempty"`
}

// DataFlow records a typed edge between two IR elements, used by the visual
// canvas collaborator.
type DataFlow struct {
	ID           string        `json:"id"`
	SourceID     string        `json:"source_id"`
	SourceOutput string        `json:"source_output,omitempty"`
	TargetID     string        `json:"target_id"`
	TargetInput  string        `json:"target_input,omitempty"`
	DataType     TypeSignature `json:"data_type"`
}

// NewProject creates an empty project.
func NewProject(name string) *Project {
	return &Project{ID: NewID(), Name: name}
}

// AllFunctions returns every free function and method across all modules.
func (p *Project) AllFunctions() []Function {
	var out []Function
	for _, m := range p.Modules {
		out = append(out, m.Functions...)
		for _, c := range m.Classes {
			out = append(out, c.Methods...)
		}
	}
	return out
}

// FunctionByID finds a function by id across all modules, or nil.
func (p *Project) FunctionByID(id string) *Function {
	for _, f := range p.AllFunctions() {
		if f.ID == id {
			fn := f
			return &fn
		}
	}
	return nil
}

// DependencyGraph returns the call-graph adjacency list keyed by function id.
func (p *Project) DependencyGraph() map[string][]string {
	graph := make(map[string][]string)
	for _, f := range p.AllFunctions() {
		deps := make([]string, len(f.Dependencies))
		copy(deps, f.Dependencies)
		graph[f.ID] = deps
	}
	return graph
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}
