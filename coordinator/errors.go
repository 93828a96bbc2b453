package coordinator

import (
	"fmt"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
)

// NetworkError means no response was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{perrors.ErrNetwork, e.Err}
}

// UpstreamError is a response whose status is not a success and which the
// coordinator did not recover from. Status and body are the server's.
type UpstreamError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return perrors.ErrUpstream
}

// SessionExpiredError is returned to every caller waiting on a refresh that
// failed. By the time a caller sees it the session store is logged out.
type SessionExpiredError struct {
	Cause error // Why the refresh failed
}

func (e *SessionExpiredError) Error() string {
	if e.Cause == nil {
		return perrors.ErrSessionExpired.Error()
	}
	return fmt.Sprintf("%s: refresh failed: %v", perrors.ErrSessionExpired, e.Cause)
}

func (e *SessionExpiredError) Unwrap() []error {
	if e.Cause == nil {
		return []error{perrors.ErrSessionExpired}
	}
	return []error{perrors.ErrSessionExpired, e.Cause}
}
