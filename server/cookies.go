package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-portfolio-client/model"
)

func (s *Server) setAccessCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     model.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge(s.config.GetAccessTokenExpiry()),
	})
}

// setRefreshCookie scopes the refresh token to the refresh endpoint so it is
// never sent with any other request.
func (s *Server) setRefreshCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     model.RefreshTokenCookie,
		Value:    token,
		Path:     model.RefreshCookiePath,
		HttpOnly: true,
		Secure:   s.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge(s.config.GetRefreshTokenExpiry()),
	})
}

func (s *Server) clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	for _, c := range []struct{ name, path string }{
		{model.AccessTokenCookie, "/"},
		{model.RefreshTokenCookie, model.RefreshCookiePath},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     c.path,
			HttpOnly: true,
			Secure:   s.secureCookies(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) secureCookies(r *http.Request) bool {
	return s.config.GetSecureCookies() || getScheme(r) == "https"
}

func maxAge(d time.Duration) int {
	if secs := int(d / time.Second); secs > 0 {
		return secs
	}
	return 1
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
