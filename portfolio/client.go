// Package portfolio is a typed client for the portfolio API. Every call goes
// through a coordinator.Coordinator, so an expired session is refreshed once
// and the call replayed without the caller noticing.
package portfolio

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-portfolio-client/coordinator"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/jrsteele09/go-portfolio-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Client calls the portfolio API on behalf of one session.
type Client struct {
	coord   *coordinator.Coordinator
	session *session.Store
	log     zerolog.Logger
}

type Option func(*Client)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New returns a client sending through coord. store must be the session store
// coord logs out when a refresh fails.
func New(coord *coordinator.Coordinator, store *session.Store, options ...Option) (*Client, error) {
	if coord == nil {
		return nil, errors.New("[portfolio.New] coordinator is required")
	}
	if store == nil {
		return nil, errors.New("[portfolio.New] session store is required")
	}
	c := &Client{coord: coord, session: store, log: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Session returns the store the client reports login state to.
func (c *Client) Session() *session.Store {
	return c.session
}

// URL returns the absolute URL of an API path, for links handed to a browser.
func (c *Client) URL(path string) string {
	u := c.coord.BaseURL()
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return u.String()
}

// send issues req and converts ERROR envelopes into *APIError.
func (c *Client) send(ctx context.Context, req *coordinator.Request) (*coordinator.Response, error) {
	resp, err := c.coord.Send(ctx, req)
	if err != nil {
		return nil, asAPIError(err)
	}
	return resp, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any) (*coordinator.Response, error) {
	req, err := coordinator.NewJSONRequest(method, path, payload)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req)
}

// getData sends req and decodes the data field of the envelope into T.
func getData[T any](ctx context.Context, c *Client, req *coordinator.Request) (T, error) {
	var out T
	resp, err := c.send(ctx, req)
	if err != nil {
		return out, err
	}
	return decodeData[T](req, resp)
}

func sendData[T any](ctx context.Context, c *Client, method, path string, payload any) (T, error) {
	var out T
	req, err := coordinator.NewJSONRequest(method, path, payload)
	if err != nil {
		return out, err
	}
	return getData[T](ctx, c, req)
}

func decodeData[T any](req *coordinator.Request, resp *coordinator.Response) (T, error) {
	var out T
	var env model.Envelope
	if err := resp.DecodeJSON(&env); err != nil {
		return out, errors.Wrapf(err, "[portfolio] %s", req)
	}
	if env.Status != "" && !env.IsSuccess() {
		return out, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if !env.HasData() {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, errors.Wrapf(err, "[portfolio] decoding data of %s", req)
	}
	return out, nil
}

// expectSuccess sends req and discards any data.
func (c *Client) expectSuccess(ctx context.Context, req *coordinator.Request) error {
	_, err := getData[json.RawMessage](ctx, c, req)
	return err
}

func get(path string) *coordinator.Request {
	return coordinator.NewRequest(http.MethodGet, path)
}

func del(path string) *coordinator.Request {
	return coordinator.NewRequest(http.MethodDelete, path)
}
