// Package engine wires the per-language parsers and generators into the
// orchestration operations: translate, project building, export and
// round-trip validation.
//
// Every higher-level operation reduces to ParseToIR and GenerateFromIR. The
// single fail-fast condition is an unregistered language name; batch
// operations degrade per-item failures to logged skips and never abort.
package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/polyglot/internal/generator"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/parser"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// parseLimit bounds the parallel parse fan-out in BuildProject.
const parseLimit = 8

// Engine holds the language registry and a logger for batch diagnostics.
// The zero value is not usable; construct with New.
type Engine struct {
	parsers    map[lang.Language]parser.Parser
	generators map[lang.Language]generator.Generator
	log        *zap.Logger
}

// New builds an engine with every supported language registered. A nil
// logger disables diagnostics.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		parsers:    make(map[lang.Language]parser.Parser, len(lang.All)),
		generators: make(map[lang.Language]generator.Generator, len(lang.All)),
		log:        log,
	}
	for _, l := range lang.All {
		e.parsers[l] = parser.New(l)
		e.generators[l] = generator.New(l)
	}
	return e
}

// SupportedLanguages returns the registered languages in canonical order.
func (e *Engine) SupportedLanguages() []lang.Language {
	out := make([]lang.Language, 0, len(e.parsers))
	for _, l := range lang.All {
		if _, ok := e.parsers[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// DetectLanguageFromFilename resolves a language from the filename's
// extension. ok is false when no registered language claims the extension.
func (e *Engine) DetectLanguageFromFilename(filename string) (lang.Language, bool) {
	l, ok := lang.FromFilename(filename)
	if !ok {
		return "", false
	}
	_, registered := e.parsers[l]
	return l, registered
}

// ParseToIR parses source code into a Universal IR module. The filename is
// optional and only feeds the module name.
func (e *Engine) ParseToIR(code string, source lang.Language, filename string) (*uir.Module, error) {
	p, ok := e.parsers[source]
	if !ok {
		return nil, e.unsupported(string(source))
	}
	if filename == "" {
		filename = "module" + source.DefaultExtension()
	}
	return p.Parse(code, filename), nil
}

// GenerateFromIR renders a module as source text in the target language.
func (e *Engine) GenerateFromIR(m *uir.Module, target lang.Language) (string, error) {
	g, ok := e.generators[target]
	if !ok {
		return "", e.unsupported(string(target))
	}
	return g.Generate(m), nil
}

// Translate parses code and regenerates it in the target language. The
// intermediate module is returned too so callers can inspect it without
// re-parsing.
func (e *Engine) Translate(code string, source, target lang.Language, filename string) (string, *uir.Module, error) {
	m, err := e.ParseToIR(code, source, filename)
	if err != nil {
		return "", nil, err
	}
	out, err := e.GenerateFromIR(m, target)
	if err != nil {
		return "", nil, err
	}
	return out, m, nil
}

// ProjectFile is one input to BuildProject.
type ProjectFile struct {
	Content  string
	Language lang.Language
	Filename string
}

// BuildProject parses every file into one project, fanning out across a
// bounded worker group. A file with an unregistered language is skipped and
// logged; it never aborts the batch. Module order follows input order.
func (e *Engine) BuildProject(ctx context.Context, name string, files []ProjectFile) *uir.Project {
	p := uir.NewProject(name)
	modules := make([]*uir.Module, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(parseLimit)
	for i, f := range files {
		g.Go(func() error {
			lng := f.Language
			if lng == "" {
				detected, ok := e.DetectLanguageFromFilename(f.Filename)
				if !ok {
					e.log.Warn("skipping file with undetectable language",
						zap.String("filename", f.Filename))
					return nil
				}
				lng = detected
			}
			m, err := e.ParseToIR(f.Content, lng, f.Filename)
			if err != nil {
				e.log.Warn("skipping unparseable file",
					zap.String("filename", f.Filename),
					zap.String("language", string(lng)),
					zap.Error(err))
				return nil
			}
			modules[i] = m
			return nil
		})
	}
	// Workers only ever return nil; Wait is for completion, not failure.
	_ = g.Wait()

	for _, m := range modules {
		if m != nil {
			p.Modules = append(p.Modules, m)
		}
	}
	return p
}

// ExportProject renders every module of p in the target language plus the
// target's build manifest, keyed by filename.
func (e *Engine) ExportProject(p *uir.Project, target lang.Language) (map[string]string, error) {
	g, ok := e.generators[target]
	if !ok {
		return nil, e.unsupported(string(target))
	}
	return generator.GenerateProject(g, p), nil
}
