// Package store persists parsed projects as a property graph: module and
// function nodes joined by CONTAINS and CALLS edges.
//
// Two backends implement the same interface: MemStore for tests and
// ephemeral runs, KuzuStore for a real graph database. All graph access
// goes through the interface.
package store

import (
	"context"
	"io"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// Store is the graph backend for parsed projects.
type Store interface {
	io.Closer

	// InitSchema creates node and edge tables. Called once before writes.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddModule(ctx context.Context, node ModuleNode) error
	AddFunction(ctx context.Context, node FunctionNode) error
	AddContains(ctx context.Context, moduleID, functionID string) error
	AddCall(ctx context.Context, callerID, calleeID string) error

	// Read operations.
	GetFunction(ctx context.Context, id string) (*FunctionNode, error)
	QueryFunctions(ctx context.Context, name string, limit int) ([]FunctionNode, error)

	// Callees walks CALLS edges from id up to maxDepth hops and returns
	// the reachable function ids, nearest first.
	Callees(ctx context.Context, id string, maxDepth int) ([]string, error)

	// Stats.
	Stats(ctx context.Context) (*Stats, error)
}

// ModuleNode is the stored projection of a Universal IR module.
type ModuleNode struct {
	ID       string
	Name     string
	Language lang.Language
	File     string
}

// FunctionNode is the stored projection of a function or method.
type FunctionNode struct {
	ID         string
	Name       string
	ModuleID   string
	Language   lang.Language
	ParamCount int
	ReturnType string
}

// Stats counts the graph's nodes and edges.
type Stats struct {
	ModuleCount   int
	FunctionCount int
	ContainsCount int
	CallCount     int
}

// SaveProject writes every module, function and call edge of p into s.
// Methods are stored alongside free functions; call edges come from the
// parser's same-module dependency resolution.
func SaveProject(ctx context.Context, s Store, p *uir.Project) error {
	for _, m := range p.Modules {
		if err := s.AddModule(ctx, ModuleNode{
			ID:       m.ID,
			Name:     m.Name,
			Language: m.SourceLang,
			File:     m.SourceFile,
		}); err != nil {
			return err
		}
		for _, fn := range moduleFunctions(m) {
			if err := s.AddFunction(ctx, FunctionNode{
				ID:         fn.ID,
				Name:       fn.Name,
				ModuleID:   m.ID,
				Language:   fn.SourceLang,
				ParamCount: len(fn.Parameters),
				ReturnType: string(fn.ReturnType.Base),
			}); err != nil {
				return err
			}
			if err := s.AddContains(ctx, m.ID, fn.ID); err != nil {
				return err
			}
		}
	}
	// Second pass so every endpoint exists before its edges.
	for _, m := range p.Modules {
		for _, fn := range moduleFunctions(m) {
			for _, dep := range fn.Dependencies {
				if err := s.AddCall(ctx, fn.ID, dep); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// moduleFunctions flattens a module's free functions and class methods.
func moduleFunctions(m *uir.Module) []uir.Function {
	out := make([]uir.Function, 0, len(m.Functions))
	out = append(out, m.Functions...)
	for _, cls := range m.Classes {
		out = append(out, cls.Methods...)
	}
	return out
}
