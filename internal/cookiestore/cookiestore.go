// Package cookiestore is an http.CookieJar that survives process restarts. It
// gives portfolioctl the same cookie continuity a browser has across reloads.
package cookiestore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/go-portfolio-client/session/filestore"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// FileName is the cookie file written in the state directory.
const FileName = "cookies.json"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var _ http.CookieJar = (*Jar)(nil)

// entry is one stored cookie together with the URL it was set from, which the
// inner jar needs to re-derive domain and path rules on load.
type entry struct {
	URL      string        `json:"url"`
	Name     string        `json:"name"`
	Value    string        `json:"value"`
	Path     string        `json:"path,omitempty"`
	Domain   string        `json:"domain,omitempty"`
	Expires  time.Time     `json:"expires,omitempty"`
	Secure   bool          `json:"secure,omitempty"`
	HttpOnly bool          `json:"httpOnly,omitempty"`
	SameSite http.SameSite `json:"sameSite,omitempty"`
}

func (e entry) key() string {
	return e.Domain + "|" + e.Path + "|" + e.Name + "|" + e.host()
}

func (e entry) host() string {
	if u, err := url.Parse(e.URL); err == nil {
		return u.Hostname()
	}
	return ""
}

func (e entry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && !e.Expires.After(now)
}

func (e entry) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     e.Name,
		Value:    e.Value,
		Path:     e.Path,
		Domain:   e.Domain,
		Expires:  e.Expires,
		Secure:   e.Secure,
		HttpOnly: e.HttpOnly,
		SameSite: e.SameSite,
	}
}

// Jar delegates cookie matching to net/http/cookiejar and writes every change
// to disk.
type Jar struct {
	path    string
	inner   *cookiejar.Jar
	log     zerolog.Logger
	mu      sync.Mutex
	entries map[string]entry
}

type Option func(*Jar)

func WithLogger(log zerolog.Logger) Option {
	return func(j *Jar) {
		j.log = log
	}
}

// Open loads <dir>/cookies.json, dropping expired cookies. A missing file is
// an empty jar.
func Open(dir string, options ...Option) (*Jar, error) {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("[cookiestore.Open] %w", err)
	}
	j := &Jar{
		path:    filepath.Join(dir, FileName),
		inner:   inner,
		log:     zerolog.Nop(),
		entries: make(map[string]entry),
	}
	for _, opt := range options {
		opt(j)
	}

	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[cookiestore.Open] read %s: %w", j.path, err)
	}

	var stored []entry
	if err := json.Unmarshal(data, &stored); err != nil {
		j.log.Warn().Err(err).Str("path", j.path).Msg("discarding unreadable cookie file")
		return j, nil
	}

	now := NowTimeFunc()
	for _, e := range stored {
		if e.expired(now) {
			continue
		}
		u, err := url.Parse(e.URL)
		if err != nil {
			continue
		}
		j.entries[e.key()] = e
		j.inner.SetCookies(u, []*http.Cookie{e.cookie()})
	}
	return j, nil
}

func (j *Jar) Path() string {
	return j.path
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// SetCookies stores cookies in memory and on disk. A cookie with a negative
// MaxAge or a past expiry removes the stored one.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)

	now := NowTimeFunc()
	for _, c := range cookies {
		e := entry{
			URL:      (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String(),
			Name:     c.Name,
			Value:    c.Value,
			Path:     cookiePath(u, c),
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
			SameSite: c.SameSite,
		}
		switch {
		case c.MaxAge < 0:
			e.Expires = now
		case c.MaxAge > 0:
			e.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if e.expired(now) {
			delete(j.entries, e.key())
			continue
		}
		j.entries[e.key()] = e
	}

	if err := j.saveLocked(); err != nil {
		j.log.Error().Err(err).Str("path", j.path).Msg("failed to persist cookies")
	}
}

// Clear forgets every cookie and removes the file.
func (j *Jar) Clear() error {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("[Jar.Clear] %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner = inner
	j.entries = make(map[string]entry)
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[Jar.Clear] %w", err)
	}
	return nil
}

// Len returns the number of stored, unexpired cookies.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

func (j *Jar) saveLocked() error {
	stored := make([]entry, 0, len(j.entries))
	for _, e := range j.entries {
		stored = append(stored, e)
	}
	sort.Slice(stored, func(a, b int) bool { return stored[a].key() < stored[b].key() })

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	return filestore.WriteFileAtomic(j.path, data)
}

// cookiePath applies the default-path rule of RFC 6265 section 5.1.4.
func cookiePath(u *url.URL, c *http.Cookie) string {
	if c.Path != "" && c.Path[0] == '/' {
		return c.Path
	}
	p := u.Path
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := len(p) - 1
	for i > 0 && p[i] != '/' {
		i--
	}
	if i == 0 {
		return "/"
	}
	return p[:i]
}
