package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// chainProject builds main -> helper -> leaf inside one module.
func chainProject() *uir.Project {
	m := uir.NewModule("app", lang.Python, "app.py")
	leaf := uir.Function{ID: "fn-leaf", Name: "leaf", SourceLang: lang.Python}
	helper := uir.Function{
		ID: "fn-helper", Name: "helper", SourceLang: lang.Python,
		Dependencies: []string{"fn-leaf"},
	}
	main := uir.Function{
		ID: "fn-main", Name: "main", SourceLang: lang.Python,
		Parameters:   []uir.Parameter{{Name: "argv", Type: uir.Sig(uir.Array)}},
		Dependencies: []string{"fn-helper"},
	}
	m.Functions = append(m.Functions, main, helper, leaf)

	p := uir.NewProject("chain")
	p.Modules = append(p.Modules, m)
	return p
}

func TestSaveProjectPopulatesGraph(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, SaveProject(ctx, s, chainProject()))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ModuleCount)
	assert.Equal(t, 3, stats.FunctionCount)
	assert.Equal(t, 3, stats.ContainsCount)
	assert.Equal(t, 2, stats.CallCount)
}

func TestGetFunction(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, SaveProject(ctx, s, chainProject()))

	fn, err := s.GetFunction(ctx, "fn-main")
	require.NoError(t, err)
	require.NotNil(t, fn)
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, 1, fn.ParamCount)

	missing, err := s.GetFunction(ctx, "fn-nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQueryFunctionsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, SaveProject(ctx, s, chainProject()))

	hits, err := s.QueryFunctions(ctx, "HELP", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "helper", hits[0].Name)
}

func TestCalleesWalksTransitively(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, SaveProject(ctx, s, chainProject()))

	direct, err := s.Callees(ctx, "fn-main", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"fn-helper"}, direct)

	all, err := s.Callees(ctx, "fn-main", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"fn-helper", "fn-leaf"}, all)

	none, err := s.Callees(ctx, "fn-main", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
