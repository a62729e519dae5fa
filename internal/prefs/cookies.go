package prefs

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// DefaultCookieDays is the lifetime of a cookie written without an explicit expiry.
const DefaultCookieDays = 365

// expiredDate is written to delete a cookie.
const expiredDate = "Thu, 01 Jan 1970 00:00:00 GMT"

type cookieRecord struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires"`
}

// Jar is a file-backed cookie jar. Every write goes through the same
// "name=value;expires=...;path=/" serialisation a browser document cookie uses.
type Jar struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	cookies map[string]cookieRecord
}

type JarOption func(*Jar)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) JarOption {
	return func(j *Jar) { j.now = now }
}

// NewJar loads the jar persisted at path. An empty path keeps the jar in memory.
func NewJar(path string, opts ...JarOption) (*Jar, error) {
	j := &Jar{
		path:    path,
		now:     time.Now,
		cookies: make(map[string]cookieRecord),
	}
	for _, opt := range opts {
		opt(j)
	}

	if path == "" {
		return j, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading cookie jar: %w", err)
	}

	var records []cookieRecord
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("error parsing cookie jar %s: %w", path, err)
		}
	}
	for _, r := range records {
		j.cookies[r.Name] = r
	}
	return j, nil
}

// SetCookie stores name=value for the given number of days (365 when days <= 0).
func (j *Jar) SetCookie(name, value string, days int) error {
	if days <= 0 {
		days = DefaultCookieDays
	}
	expires := j.now().Add(time.Duration(days) * 24 * time.Hour).UTC().Format(http.TimeFormat)
	return j.write(fmt.Sprintf("%s=%s;expires=%s;path=/", name, url.PathEscape(value), expires))
}

// DeleteCookie overwrites the cookie with an expiry in the past.
func (j *Jar) DeleteCookie(name string) error {
	return j.write(fmt.Sprintf("%s=;expires=%s;path=/", name, expiredDate))
}

func (j *Jar) write(line string) error {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return fmt.Errorf("invalid cookie %q: %w", line, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if !c.Expires.IsZero() && !c.Expires.After(j.now()) {
		delete(j.cookies, c.Name)
	} else {
		j.cookies[c.Name] = cookieRecord{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		}
	}
	return j.persist()
}

// Document returns the unexpired cookies as "a=1; b=2", ordered by name.
func (j *Jar) Document() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	names := make([]string, 0, len(j.cookies))
	for name, c := range j.cookies {
		if c.Expires.IsZero() || c.Expires.After(now) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+j.cookies[name].Value)
	}
	return strings.Join(parts, "; ")
}

// GetCookie decodes the whole document, then looks for an entry starting with exactly "name=".
func (j *Jar) GetCookie(name string) (string, bool) {
	doc := j.Document()
	if decoded, err := url.PathUnescape(doc); err == nil {
		doc = decoded
	}

	prefix := name + "="
	for _, part := range strings.Split(doc, ";") {
		part = strings.TrimLeft(part, " ")
		if strings.HasPrefix(part, prefix) {
			return part[len(prefix):], true
		}
	}
	return "", false
}

// persist must be called with j.mu held.
func (j *Jar) persist() error {
	if j.path == "" {
		return nil
	}

	records := make([]cookieRecord, 0, len(j.cookies))
	for _, c := range j.cookies {
		records = append(records, c)
	}
	sort.Slice(records, func(a, b int) bool { return records[a].Name < records[b].Name })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0600)
}
