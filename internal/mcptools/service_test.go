package mcptools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/polyglot/internal/engine"
	"github.com/dusk-indust/polyglot/internal/lang"
)

const pythonSample = `def greet(name):
    return "Hello, " + name

class Calculator:
    def __init__(self, value):
        self.value = value

    def add(self, a, b):
        return a + b
`

func newTestService() *TranslateService {
	return NewTranslateService(engine.New(nil))
}

func TestTranslateCode(t *testing.T) {
	svc := newTestService()
	_, out, err := svc.TranslateCode(context.Background(), nil, TranslateCodeInput{
		Code:           pythonSample,
		SourceLanguage: "python",
		TargetLanguage: "go",
		Filename:       "calc.py",
	})
	require.NoError(t, err)

	assert.Equal(t, "calc", out.ModuleName)
	assert.Equal(t, 1, out.FunctionCount)
	assert.Equal(t, 1, out.ClassCount)
	assert.Contains(t, out.Output, "func greet(")
	assert.Contains(t, out.Output, "Calculator")
}

func TestTranslateCodeRejectsEmptyAndUnknown(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.TranslateCode(context.Background(), nil, TranslateCodeInput{
		SourceLanguage: "python",
		TargetLanguage: "go",
	})
	require.Error(t, err)

	_, _, err = svc.TranslateCode(context.Background(), nil, TranslateCodeInput{
		Code:           "x = 1",
		SourceLanguage: "cobol",
		TargetLanguage: "go",
	})
	require.Error(t, err)
	assert.True(t, engine.IsUnsupportedLanguage(err))
}

func TestParseCodeReturnsSignatures(t *testing.T) {
	svc := newTestService()
	_, out, err := svc.ParseCode(context.Background(), nil, ParseCodeInput{
		Code:           pythonSample,
		SourceLanguage: "py", // alias form
		Filename:       "calc.py",
	})
	require.NoError(t, err)

	assert.Equal(t, "calc", out.ModuleName)
	names := make([]string, 0, len(out.Signatures))
	for _, sig := range out.Signatures {
		names = append(names, sig.Name)
	}
	assert.Contains(t, names, "greet")
	assert.Contains(t, names, "add")
}

func TestListLanguages(t *testing.T) {
	svc := newTestService()
	_, out, err := svc.ListLanguages(context.Background(), nil, ListLanguagesInput{})
	require.NoError(t, err)

	require.Len(t, out.Languages, len(lang.All))
	byName := make(map[string][]string)
	for _, l := range out.Languages {
		byName[l.Name] = l.Extensions
	}
	assert.Contains(t, byName["python"], ".py")
	assert.Contains(t, byName["typescript"], ".tsx")
}

func TestValidateRoundTrip(t *testing.T) {
	svc := newTestService()
	_, translated, err := svc.TranslateCode(context.Background(), nil, TranslateCodeInput{
		Code:           pythonSample,
		SourceLanguage: "python",
		TargetLanguage: "javascript",
	})
	require.NoError(t, err)

	_, out, err := svc.ValidateRoundTrip(context.Background(), nil, ValidateRoundTripInput{
		OriginalCode:   pythonSample,
		TranslatedCode: translated.Output,
		SourceLanguage: "python",
		TargetLanguage: "javascript",
	})
	require.NoError(t, err)
	assert.True(t, out.Clean)
	require.NotNil(t, out.Report)
	assert.Empty(t, out.Report.MissingFunctions)
}
