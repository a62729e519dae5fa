package prefs

import (
	"fmt"
	"strings"
)

type ThemeMode string

const (
	Dark  ThemeMode = "dark"
	Light ThemeMode = "light"
)

// parseTheme also accepts the legacy boolean "dark mode" values.
func parseTheme(v string) (ThemeMode, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "dark", "true":
		return Dark, true
	case "light", "false":
		return Light, true
	default:
		return "", false
	}
}

func (s *Store) Theme() ThemeMode {
	if t, ok := parseTheme(s.Get(Theme, "")); ok {
		return t
	}
	return s.defaultTheme
}

func (s *Store) SetTheme(mode string) error {
	t, ok := parseTheme(mode)
	if !ok {
		return fmt.Errorf("unknown theme %q (want dark or light)", mode)
	}
	return s.Set(Theme, string(t))
}

// ToggleTheme switches between dark and light and returns the new theme.
func (s *Store) ToggleTheme() (ThemeMode, error) {
	next := Dark
	if s.Theme() == Dark {
		next = Light
	}
	if err := s.Set(Theme, string(next)); err != nil {
		return "", err
	}
	return next, nil
}
