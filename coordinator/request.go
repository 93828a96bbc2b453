package coordinator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request is an API call the coordinator can issue more than once. The body is
// held in memory so a replay sends exactly the same bytes.
type Request struct {
	Method string
	Path   string // Relative to the coordinator's base URL, e.g. "/projects"
	Query  url.Values
	Header http.Header
	Body   []byte

	// SkipRefresh keeps the request out of the refresh protocol. Session
	// bootstrap and teardown calls (login, logout) set it.
	SkipRefresh bool
}

// NewRequest returns a body-less request.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path, Header: http.Header{}}
}

// NewJSONRequest returns a request whose body is payload encoded as JSON.
func NewJSONRequest(method, path string, payload any) (*Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("[coordinator.NewJSONRequest] encode %s %s: %w", method, path, err)
	}
	req := NewRequest(method, path)
	req.Body = body
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// SetQuery sets a query parameter, ignoring empty values.
func (r *Request) SetQuery(key, value string) *Request {
	if value == "" {
		return r
	}
	if r.Query == nil {
		r.Query = url.Values{}
	}
	r.Query.Set(key, value)
	return r
}

// clone copies r with its own header. The body is shared and never written.
func (r *Request) clone() *Request {
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = http.Header{}
	}
	return &c
}

func (r *Request) String() string {
	return r.Method + " " + r.Path
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("[Response.DecodeJSON] status %d: %w", r.StatusCode, err)
	}
	return nil
}
