package coordinator

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewCookieJar returns an in-memory jar using the public suffix list for
// domain matching.
func NewCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// NewHTTPClient returns an http.Client that sends and stores cookies through
// jar, the equivalent of a browser's credentials: "include". Redirects are not
// followed so a session redirect is visible to the caller.
func NewHTTPClient(jar http.CookieJar, timeout time.Duration) *http.Client {
	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
