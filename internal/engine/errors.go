package engine

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dusk-indust/polyglot/internal/lang"
)

// UnsupportedLanguageError is the engine's one fail-fast error: a language
// name with no registry entry. It carries the bad name and the registered
// set so callers can render a useful message.
type UnsupportedLanguageError struct {
	Name      string
	Supported []lang.Language
}

func (e *UnsupportedLanguageError) Error() string {
	names := make([]string, len(e.Supported))
	for i, l := range e.Supported {
		names[i] = string(l)
	}
	return "unsupported language " + strconv.Quote(e.Name) +
		" (supported: " + strings.Join(names, ", ") + ")"
}

// unsupported builds the typed error with a hint attached.
func (e *Engine) unsupported(name string) error {
	err := &UnsupportedLanguageError{Name: name, Supported: e.SupportedLanguages()}
	return errors.WithHint(err, "run `polyglot languages` for the full list")
}

// IsUnsupportedLanguage reports whether err is (or wraps) an
// UnsupportedLanguageError.
func IsUnsupportedLanguage(err error) bool {
	var target *UnsupportedLanguageError
	return errors.As(err, &target)
}
