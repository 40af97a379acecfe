// Package config loads project-level settings from polyglot.yml.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/polyglot/internal/lang"
)

// ProjectConfig holds project-level settings loaded from polyglot.yml.
type ProjectConfig struct {
	// DefaultTarget is the language used when -target is not given.
	DefaultTarget string `yaml:"defaultTarget,omitempty"`

	// ExportDir is where export writes generated project files.
	ExportDir string `yaml:"exportDir,omitempty"`

	// GraphDB selects the store backend: "memory" (default) or a KuzuDB
	// directory path.
	GraphDB string `yaml:"graphDB,omitempty"`

	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read polyglot.yml or polyglot.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"polyglot.yml", "polyglot.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "config: parse %s", name)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// Target resolves the configured default target, falling back to python
// when unset or unknown.
func (c *ProjectConfig) Target() lang.Language {
	if c.DefaultTarget == "" {
		return lang.Python
	}
	l := lang.Normalize(c.DefaultTarget)
	if !l.Known() {
		return lang.Python
	}
	return l
}
