package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/dusk-indust/polyglot/internal/config"
	"github.com/dusk-indust/polyglot/internal/engine"
	"github.com/dusk-indust/polyglot/internal/export"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/mcptools"
	"github.com/dusk-indust/polyglot/internal/store"
)

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: polyglot <command> [flags]

Commands:
  translate   translate a source file into another language
  languages   list supported languages and their extensions
  export      parse a project directory and export it as code, signatures or a diagram
  serve-mcp   run as an MCP server on stdio
  version     print version and exit

Run "polyglot <command> -h" for command flags.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	switch args[0] {
	case "translate":
		return runTranslate(args[1:], cfg)
	case "languages":
		return runLanguages()
	case "export":
		return runExport(args[1:], cfg)
	case "serve-mcp":
		return runServeMCP(args[1:], cfg)
	case "version", "-version", "--version":
		fmt.Println(version)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runTranslate(args []string, cfg *config.ProjectConfig) error {
	var (
		from    string
		to      string
		out     string
		verbose bool
	)
	fs := flag.NewFlagSet("polyglot translate", flag.ContinueOnError)
	fs.StringVar(&from, "from", "", "source language (default: detected from the filename)")
	fs.StringVar(&to, "to", "", "target language (default: from polyglot.yml, else python)")
	fs.StringVar(&out, "out", "", "output file (default: stdout)")
	fs.BoolVar(&verbose, "verbose", cfg.Verbose, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("translate: expected exactly one input file, got %d", fs.NArg())
	}
	in := fs.Arg(0)

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	eng := engine.New(log)

	source := lang.Normalize(from)
	if from == "" {
		detected, ok := eng.DetectLanguageFromFilename(in)
		if !ok {
			return fmt.Errorf("translate: cannot detect language of %q; pass -from", in)
		}
		source = detected
	}
	target := cfg.Target()
	if to != "" {
		target = lang.Normalize(to)
	}

	output, m, err := eng.Translate(string(data), source, target, filepath.Base(in))
	if err != nil {
		return err
	}
	log.Info("translated",
		zap.String("module", m.Name),
		zap.String("source", string(source)),
		zap.String("target", string(target)),
		zap.Int("functions", len(m.Functions)),
		zap.Int("classes", len(m.Classes)))

	if out == "" {
		fmt.Print(output)
		return nil
	}
	return os.WriteFile(out, []byte(output), 0o644)
}

func runLanguages() error {
	eng := engine.New(zap.NewNop())
	for _, l := range eng.SupportedLanguages() {
		fmt.Printf("%-12s %s\n", l, strings.Join(l.Extensions(), " "))
	}
	return nil
}

func runExport(args []string, cfg *config.ProjectConfig) error {
	var (
		to      string
		out     string
		format  string
		graphDB string
		name    string
		verbose bool
	)
	fs := flag.NewFlagSet("polyglot export", flag.ContinueOnError)
	fs.StringVar(&to, "to", "", "target language for code export")
	fs.StringVar(&out, "out", cfg.ExportDir, "output directory (code) or file (signatures, mermaid); default stdout for single-file formats")
	fs.StringVar(&format, "format", "code", "export format: code, signatures or mermaid")
	fs.StringVar(&graphDB, "graph-db", cfg.GraphDB, "KuzuDB directory for persisting the project graph (empty: in-memory only)")
	fs.StringVar(&name, "name", "", "project name (default: source directory name)")
	fs.BoolVar(&verbose, "verbose", cfg.Verbose, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("export: expected exactly one source directory, got %d", fs.NArg())
	}
	root := fs.Arg(0)

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	eng := engine.New(log)

	files, err := collectSources(eng, root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("export: no recognized source files under %q", root)
	}
	if name == "" {
		name = filepath.Base(absOrSelf(root))
	}

	ctx := context.Background()
	p := eng.BuildProject(ctx, name, files)
	log.Info("project built",
		zap.String("project", p.Name),
		zap.Int("modules", len(p.Modules)),
		zap.Int("functions", len(p.AllFunctions())))

	if graphDB != "" {
		s, err := store.Open(graphDB)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck
		if err := s.InitSchema(ctx); err != nil {
			return err
		}
		if err := store.SaveProject(ctx, s, p); err != nil {
			return err
		}
		stats, err := s.Stats(ctx)
		if err != nil {
			return err
		}
		log.Info("graph persisted",
			zap.String("path", graphDB),
			zap.Int("modules", stats.ModuleCount),
			zap.Int("functions", stats.FunctionCount),
			zap.Int("calls", stats.CallCount))
	}

	switch format {
	case "code":
		if to == "" {
			return fmt.Errorf("export: -to is required for code export")
		}
		if out == "" {
			return fmt.Errorf("export: -out is required for code export")
		}
		generated, err := eng.ExportProject(p, lang.Normalize(to))
		if err != nil {
			return err
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		for fname, content := range generated {
			if err := os.WriteFile(filepath.Join(out, fname), []byte(content), 0o644); err != nil {
				return err
			}
		}
		log.Info("code exported", zap.String("dir", out), zap.Int("files", len(generated)))
		return nil
	case "signatures":
		data, err := export.MarshalSignatures(p)
		if err != nil {
			return err
		}
		return writeOrPrint(out, append(data, '\n'))
	case "mermaid":
		return writeOrPrint(out, []byte(export.GenerateMermaid(p)))
	default:
		return fmt.Errorf("export: unknown format %q (want code, signatures or mermaid)", format)
	}
}

func runServeMCP(args []string, cfg *config.ProjectConfig) error {
	var verbose bool
	fs := flag.NewFlagSet("polyglot serve-mcp", flag.ContinueOnError)
	fs.BoolVar(&verbose, "verbose", cfg.Verbose, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := mcptools.NewTranslateService(engine.New(log))
	log.Info("serving MCP on stdio", zap.String("version", version))
	return mcptools.RunStdio(ctx, mcptools.NewServer(svc))
}

// collectSources walks root and gathers every file whose extension maps to a
// supported language. Hidden directories are skipped.
func collectSources(eng *engine.Engine, root string) ([]engine.ProjectFile, error) {
	var files []engine.ProjectFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		l, ok := eng.DetectLanguageFromFilename(path)
		if !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, engine.ProjectFile{
			Content:  string(data),
			Language: l,
			Filename: filepath.Base(path),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func writeOrPrint(out string, data []byte) error {
	if out == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
