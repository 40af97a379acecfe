package mcptools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/polyglot/internal/engine"
	"github.com/dusk-indust/polyglot/internal/export"
	"github.com/dusk-indust/polyglot/internal/lang"
	"github.com/dusk-indust/polyglot/internal/uir"
)

// TranslateService adapts the engine's operations to MCP tool handlers.
type TranslateService struct {
	engine *engine.Engine
}

// NewTranslateService wraps eng for MCP exposure.
func NewTranslateService(eng *engine.Engine) *TranslateService {
	return &TranslateService{engine: eng}
}

// TranslateCode parses code in the source language and regenerates it in
// the target language.
func (s *TranslateService) TranslateCode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input TranslateCodeInput,
) (*mcp.CallToolResult, TranslateCodeOutput, error) {
	if input.Code == "" {
		return nil, TranslateCodeOutput{}, errors.New("code is required")
	}
	source := lang.Normalize(input.SourceLanguage)
	target := lang.Normalize(input.TargetLanguage)

	out, m, err := s.engine.Translate(input.Code, source, target, input.Filename)
	if err != nil {
		return nil, TranslateCodeOutput{}, err
	}
	return nil, TranslateCodeOutput{
		Output:        out,
		ModuleName:    m.Name,
		FunctionCount: len(m.Functions),
		ClassCount:    len(m.Classes),
	}, nil
}

// ParseCode parses code and returns the signature projections of its
// functions and methods.
func (s *TranslateService) ParseCode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ParseCodeInput,
) (*mcp.CallToolResult, ParseCodeOutput, error) {
	if input.Code == "" {
		return nil, ParseCodeOutput{}, errors.New("code is required")
	}
	m, err := s.engine.ParseToIR(input.Code, lang.Normalize(input.SourceLanguage), input.Filename)
	if err != nil {
		return nil, ParseCodeOutput{}, err
	}

	p := uir.NewProject(m.Name)
	p.Modules = append(p.Modules, m)
	return nil, ParseCodeOutput{
		ModuleName: m.Name,
		Imports:    m.Imports,
		Signatures: export.FunctionSignatures(p),
	}, nil
}

// ListLanguages returns every registered language with its extensions.
func (s *TranslateService) ListLanguages(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListLanguagesInput,
) (*mcp.CallToolResult, ListLanguagesOutput, error) {
	langs := s.engine.SupportedLanguages()
	out := ListLanguagesOutput{Languages: make([]LanguageInfo, 0, len(langs))}
	for _, l := range langs {
		out.Languages = append(out.Languages, LanguageInfo{
			Name:       string(l),
			Extensions: l.Extensions(),
		})
	}
	return nil, out, nil
}

// ValidateRoundTrip diffs a translation against its original structurally.
func (s *TranslateService) ValidateRoundTrip(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ValidateRoundTripInput,
) (*mcp.CallToolResult, ValidateRoundTripOutput, error) {
	report, err := s.engine.ValidateRoundTrip(
		input.OriginalCode,
		input.TranslatedCode,
		lang.Normalize(input.SourceLanguage),
		lang.Normalize(input.TargetLanguage),
	)
	if err != nil {
		return nil, ValidateRoundTripOutput{}, err
	}
	return nil, ValidateRoundTripOutput{
		Clean:  report.Clean(),
		Report: report,
	}, nil
}
