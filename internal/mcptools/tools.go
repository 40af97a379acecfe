package mcptools

import (
	"github.com/dusk-indust/polyglot/internal/engine"
	"github.com/dusk-indust/polyglot/internal/export"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// TranslateCodeInput is the input for the translate_code MCP tool.
type TranslateCodeInput struct {
	Code           string `json:"code" jsonschema:"the source code to translate"`
	SourceLanguage string `json:"sourceLanguage" jsonschema:"language of the input code (e.g. python, go, rust)"`
	TargetLanguage string `json:"targetLanguage" jsonschema:"language to generate (e.g. javascript, java, sql)"`
	Filename       string `json:"filename,omitempty" jsonschema:"optional filename; its stem becomes the module name"`
}

// TranslateCodeOutput is the result of the translate_code MCP tool.
type TranslateCodeOutput struct {
	Output        string `json:"output"`
	ModuleName    string `json:"moduleName"`
	FunctionCount int    `json:"functionCount"`
	ClassCount    int    `json:"classCount"`
}

// ParseCodeInput is the input for the parse_code MCP tool.
type ParseCodeInput struct {
	Code           string `json:"code" jsonschema:"the source code to parse"`
	SourceLanguage string `json:"sourceLanguage" jsonschema:"language of the input code"`
	Filename       string `json:"filename,omitempty" jsonschema:"optional filename; its stem becomes the module name"`
}

// ParseCodeOutput is the result of the parse_code MCP tool: the stable
// signature projection of every function and method in the module.
type ParseCodeOutput struct {
	ModuleName string                     `json:"moduleName"`
	Imports    []string                   `json:"imports,omitempty"`
	Signatures []export.FunctionSignature `json:"signatures"`
}

// ListLanguagesInput is the input for the list_languages MCP tool.
type ListLanguagesInput struct{}

// ListLanguagesOutput is the result of the list_languages MCP tool.
type ListLanguagesOutput struct {
	Languages []LanguageInfo `json:"languages"`
}

// LanguageInfo describes one registered language.
type LanguageInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// ValidateRoundTripInput is the input for the validate_round_trip MCP tool.
type ValidateRoundTripInput struct {
	OriginalCode   string `json:"originalCode" jsonschema:"the original source code"`
	TranslatedCode string `json:"translatedCode" jsonschema:"the generated translation to check"`
	SourceLanguage string `json:"sourceLanguage" jsonschema:"language of the original code"`
	TargetLanguage string `json:"targetLanguage" jsonschema:"language of the translated code"`
}

// ValidateRoundTripOutput is the result of the validate_round_trip MCP tool.
// The report is structural only; it says nothing about runtime equivalence.
type ValidateRoundTripOutput struct {
	Clean  bool                    `json:"clean"`
	Report *engine.RoundTripReport `json:"report"`
}
