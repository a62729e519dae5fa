// Package prefs persists user preferences and the session token. Every value lives twice:
// in a cookie jar, which wins on read, and in the local persistent store.
package prefs

import (
	"errors"

	"grafanapdf/internal/events"
	"grafanapdf/internal/logging"
)

// Key names a preference in both backing stores.
type Key struct {
	Local  string
	Cookie string
}

var (
	Theme    = Key{Local: "theme", Cookie: "grafana_pdf_theme"}
	Language = Key{Local: "language", Cookie: "grafana_pdf_language"}
	TokenKey = Key{Local: "token", Cookie: "grafana_pdf_token"}
)

// LocalStore is the persistent key/value store, implemented by storage.GormStore.
type LocalStore interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

type Publisher interface {
	Publish(topic string, payload any)
}

type Store struct {
	jar   *Jar
	local LocalStore
	bus   Publisher

	defaultTheme    ThemeMode
	defaultLanguage string
}

type Option func(*Store)

// WithDefaults sets the configured theme and language used when nothing is stored.
// Empty or invalid values are ignored.
func WithDefaults(theme, language string) Option {
	return func(s *Store) {
		if t, ok := parseTheme(theme); ok {
			s.defaultTheme = t
		}
		if code, err := normalizeLanguage(language); err == nil {
			s.defaultLanguage = code
		}
	}
}

func NewStore(jar *Jar, local LocalStore, bus Publisher, opts ...Option) *Store {
	s := &Store{
		jar:          jar,
		local:        local,
		bus:          bus,
		defaultTheme: Dark,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the cookie value if present, otherwise the local store value.
func (s *Store) Lookup(key Key) (string, bool) {
	if v, ok := s.jar.GetCookie(key.Cookie); ok {
		return v, true
	}

	v, ok, err := s.local.GetItem(key.Local)
	if err != nil {
		logging.Warn().Err(err).Str("key", key.Local).Msg("failed to read local preference")
		return "", false
	}
	return v, ok
}

// Get is Lookup with a fallback value.
func (s *Store) Get(key Key, def string) string {
	if v, ok := s.Lookup(key); ok {
		return v
	}
	return def
}

// Set writes the value to both stores and announces the change on the bus.
func (s *Store) Set(key Key, value string) error {
	if err := s.write(key, value); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(events.TopicPreferenceChanged, events.PreferenceChanged{Key: key.Local, Value: value})
	}
	return nil
}

func (s *Store) write(key Key, value string) error {
	cookieErr := s.jar.SetCookie(key.Cookie, value, DefaultCookieDays)
	localErr := s.local.SetItem(key.Local, value)
	return errors.Join(cookieErr, localErr)
}

// Remove deletes the value from both stores.
func (s *Store) Remove(key Key) error {
	cookieErr := s.jar.DeleteCookie(key.Cookie)
	localErr := s.local.RemoveItem(key.Local)
	return errors.Join(cookieErr, localErr)
}
