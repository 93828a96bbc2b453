package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-portfolio-client/coordinator"
	"github.com/jrsteele09/go-portfolio-client/model"
)

// APIError is a failure the server explained with an ERROR envelope.
type APIError struct {
	Status  int
	Message string
	Err     *coordinator.UpstreamError // nil when the server answered 2xx with an ERROR envelope
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	if isSessionExpired(err) {
		return false
	}
	var upstream *coordinator.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status == http.StatusNotFound
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// asAPIError leaves a SessionExpiredError as it is, even when the failed
// refresh carried an ERROR envelope.
func asAPIError(err error) error {
	if isSessionExpired(err) {
		return err
	}
	var upstream *coordinator.UpstreamError
	if !errors.As(err, &upstream) {
		return err
	}
	var env model.Envelope
	if json.Unmarshal(upstream.Body, &env) != nil || env.Message == "" {
		return err
	}
	return &APIError{Status: upstream.Status, Message: env.Message, Err: upstream}
}

func isSessionExpired(err error) bool {
	var expired *coordinator.SessionExpiredError
	return errors.As(err, &expired)
}
