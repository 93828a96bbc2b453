package cookiestore_test

import (
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-client/internal/cookiestore"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func names(cookies []*http.Cookie) []string {
	out := make([]string, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, c.Name)
	}
	return out
}

func TestJar_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	login := mustURL(t, "http://localhost:8080/api/auth/login")

	jar, err := cookiestore.Open(dir)
	require.NoError(t, err)
	jar.SetCookies(login, []*http.Cookie{
		{Name: "accessToken", Value: "a1", Path: "/", MaxAge: 3600, HttpOnly: true},
		{Name: "refreshToken", Value: "r1", Path: "/api/auth/refresh", MaxAge: 7200, HttpOnly: true},
	})
	require.Equal(t, 2, jar.Len())
	require.FileExists(t, jar.Path())

	reopened, err := cookiestore.Open(dir)
	require.NoError(t, err)
	require.Equal(t, 2, reopened.Len())

	require.ElementsMatch(t, []string{"accessToken"}, names(reopened.Cookies(mustURL(t, "http://localhost:8080/api/projects"))))
	require.ElementsMatch(t, []string{"accessToken", "refreshToken"}, names(reopened.Cookies(mustURL(t, "http://localhost:8080/api/auth/refresh"))))
}

func TestJar_NegativeMaxAgeRemoves(t *testing.T) {
	dir := t.TempDir()
	u := mustURL(t, "http://localhost:8080/api/auth/login")

	jar, err := cookiestore.Open(dir)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "a1", Path: "/", MaxAge: 60}})
	jar.SetCookies(mustURL(t, "http://localhost:8080/api/auth/logout"), []*http.Cookie{{Name: "accessToken", Path: "/", MaxAge: -1}})

	require.Zero(t, jar.Len())
	require.Empty(t, jar.Cookies(mustURL(t, "http://localhost:8080/api/projects")))

	reopened, err := cookiestore.Open(dir)
	require.NoError(t, err)
	require.Zero(t, reopened.Len())
}

func TestJar_DropsExpiredOnOpen(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cookiestore.NowTimeFunc = func() time.Time { return start }
	t.Cleanup(func() { cookiestore.NowTimeFunc = time.Now })

	jar, err := cookiestore.Open(dir)
	require.NoError(t, err)
	jar.SetCookies(mustURL(t, "http://localhost:8080/api/auth/login"), []*http.Cookie{
		{Name: "short", Value: "s", Path: "/", MaxAge: 60},
		{Name: "long", Value: "l", Path: "/", Expires: time.Now().Add(48 * time.Hour)},
	})

	cookiestore.NowTimeFunc = func() time.Time { return start.Add(time.Hour) }
	reopened, err := cookiestore.Open(dir)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())
}

func TestJar_UnreadableFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	jar, err := cookiestore.Open(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jar.Path(), []byte("{not json"), 0o600))

	reopened, err := cookiestore.Open(dir)
	require.NoError(t, err)
	require.Zero(t, reopened.Len())
}

func TestJar_Clear(t *testing.T) {
	dir := t.TempDir()
	u := mustURL(t, "http://localhost:8080/api/auth/login")

	jar, err := cookiestore.Open(dir)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "a1", Path: "/", MaxAge: 60}})

	require.NoError(t, jar.Clear())
	require.Zero(t, jar.Len())
	require.Empty(t, jar.Cookies(u))
	require.NoFileExists(t, jar.Path())
	require.NoError(t, jar.Clear(), "clearing twice is fine")
}
