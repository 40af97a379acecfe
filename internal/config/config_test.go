package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/polyglot/internal/lang"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DefaultTarget)
	assert.Equal(t, lang.Python, cfg.Target())
	assert.False(t, cfg.Verbose)
}

func TestLoadReadsYml(t *testing.T) {
	dir := t.TempDir()
	data := "defaultTarget: rust\nexportDir: out\ngraphDB: .polyglot/graph\nverbose: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polyglot.yml"), []byte(data), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, lang.Rust, cfg.Target())
	assert.Equal(t, "out", cfg.ExportDir)
	assert.Equal(t, ".polyglot/graph", cfg.GraphDB)
	assert.True(t, cfg.Verbose)
}

func TestLoadPrefersYmlOverYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polyglot.yml"), []byte("defaultTarget: go\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polyglot.yaml"), []byte("defaultTarget: ruby\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, lang.Go, cfg.Target())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polyglot.yaml"), []byte(":\n\t- bad"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestTargetFallsBackOnUnknownLanguage(t *testing.T) {
	cfg := &ProjectConfig{DefaultTarget: "cobol"}
	assert.Equal(t, lang.Python, cfg.Target())

	cfg = &ProjectConfig{DefaultTarget: "ts"}
	assert.Equal(t, lang.TypeScript, cfg.Target())
}
