package prefs

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FallbackLanguage is used when neither the store nor the environment names a language.
const FallbackLanguage = "de"

var validate = validator.New()

func normalizeLanguage(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if err := validate.Var(code, "required,len=2,alpha,lowercase"); err != nil {
		return "", fmt.Errorf("invalid language code %q: expected an ISO-639-1 code", code)
	}
	return code, nil
}

// DefaultLanguage derives the language from the locale environment, e.g. de_DE.UTF-8 gives "de".
func DefaultLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		locale := os.Getenv(env)
		if locale == "" || locale == "C" || locale == "POSIX" {
			continue
		}
		lang, _, _ := strings.Cut(locale, "_")
		lang, _, _ = strings.Cut(lang, ".")
		if code, err := normalizeLanguage(lang); err == nil {
			return code
		}
	}
	return FallbackLanguage
}

func (s *Store) Language() string {
	def := s.defaultLanguage
	if def == "" {
		def = DefaultLanguage()
	}
	if code, err := normalizeLanguage(s.Get(Language, "")); err == nil {
		return code
	}
	return def
}

func (s *Store) SetLanguage(code string) error {
	normalized, err := normalizeLanguage(code)
	if err != nil {
		return err
	}
	return s.Set(Language, normalized)
}
