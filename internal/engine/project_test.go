package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/polyglot/internal/lang"
)

// loadFixtureProject reads every file under testdata/fixtures/polyglot_project
// with detection left to BuildProject, the way the CLI feeds it.
func loadFixtureProject(t *testing.T) []ProjectFile {
	t.Helper()
	dir := filepath.Join("..", "..", "testdata", "fixtures", "polyglot_project")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var files []ProjectFile
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)
		files = append(files, ProjectFile{
			Content:  string(data),
			Filename: entry.Name(),
		})
	}
	return files
}

func TestBuildProjectFromFixtures(t *testing.T) {
	e := New(nil)
	p := e.BuildProject(context.Background(), "sample", loadFixtureProject(t))

	// README.txt has no recognized extension and is skipped.
	require.Len(t, p.Modules, 3)

	byName := make(map[string]lang.Language)
	for _, m := range p.Modules {
		byName[m.Name] = m.SourceLang
	}
	assert.Equal(t, lang.Python, byName["calc"])
	assert.Equal(t, lang.JavaScript, byName["shapes"])
	assert.Equal(t, lang.SQL, byName["inventory"])

	names := make(map[string]bool)
	for _, fn := range p.AllFunctions() {
		names[fn.Name] = true
	}
	assert.True(t, names["net_price"])
	assert.True(t, names["circleArea"])
	assert.True(t, names["total_value"])
	assert.True(t, names["area"])
}

func TestExportFixtureProjectToTypeScript(t *testing.T) {
	e := New(nil)
	p := e.BuildProject(context.Background(), "sample", loadFixtureProject(t))

	files, err := e.ExportProject(p, lang.TypeScript)
	require.NoError(t, err)

	require.Contains(t, files, "calc.ts")
	require.Contains(t, files, "shapes.ts")
	require.Contains(t, files, "inventory.ts")
	require.Contains(t, files, "tsconfig.json")

	assert.Contains(t, files["calc.ts"], "Calculator")
	assert.Contains(t, files["shapes.ts"], "circleArea")
	assert.Contains(t, files["shapes.ts"], "Rectangle")
}
