// Package coordinator sends API requests and recovers from an expired session.
//
// When a request fails with the session-expired status the coordinator issues
// a single refresh call, holds every other request that fails the same way
// while the refresh is in flight, and then either replays them all, in the
// order they failed, or rejects them all with a SessionExpiredError after
// logging the session out.
package coordinator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// DefaultSessionExpiredStatus is the status the portfolio backend answers
	// with when the access cookie is missing or expired. It is 403 rather than
	// 401 for compatibility with that backend.
	DefaultSessionExpiredStatus = http.StatusForbidden
	DefaultRefreshPath          = "/auth/refresh"
	DefaultRefreshTimeout       = 10 * time.Second

	// RequestIDHeader carries one ID per Send across the original attempt and its replay.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 32 << 20
)

// State is the refresh protocol state.
type State int

const (
	StateIdle State = iota
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRefreshing:
		return "REFRESHING"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// SessionTerminator is notified when the session cannot be recovered.
// *session.Store satisfies it.
type SessionTerminator interface {
	Logout()
}

// pendingRequest is a caller waiting for the outcome of the refresh that was
// in flight when its request failed.
type pendingRequest struct {
	ctx  context.Context
	req  *Request
	done chan result // Buffered so settling never waits for the caller
}

type result struct {
	resp *Response
	err  error
}

// Coordinator wraps every API call. Create one per client and share it.
type Coordinator struct {
	baseURL        *url.URL
	client         Doer
	session        SessionTerminator
	expiredStatus  int
	refreshPath    string
	refreshTimeout time.Duration
	log            zerolog.Logger
	metrics        *Metrics

	mu    sync.Mutex
	state State
	queue []*pendingRequest
	// refreshDone is closed when the current refresh has settled its queue.
	refreshDone chan struct{}
}

// Option defines a function type to modify the Coordinator instance.
type Option func(*Coordinator)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.log = log
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithSessionExpiredStatus changes the status that triggers a refresh.
func WithSessionExpiredStatus(status int) Option {
	return func(c *Coordinator) {
		c.expiredStatus = status
	}
}

// WithRefreshPath sets the path of the session refresh endpoint, relative to the base URL.
func WithRefreshPath(path string) Option {
	return func(c *Coordinator) {
		c.refreshPath = path
	}
}

// WithRefreshTimeout bounds the refresh call. The refresh ignores the
// cancellation of the request that triggered it.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.refreshTimeout = d
	}
}

// New returns a Coordinator issuing requests against baseURL through client.
// session may be nil when nothing needs to observe an unrecoverable session.
func New(baseURL string, client Doer, session SessionTerminator, options ...Option) (*Coordinator, error) {
	if client == nil {
		return nil, errors.New("[coordinator.New] client is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "[coordinator.New] invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("[coordinator.New] base URL %q must be absolute", baseURL)
	}

	c := &Coordinator{
		baseURL:        u,
		client:         client,
		session:        session,
		expiredStatus:  DefaultSessionExpiredStatus,
		refreshPath:    DefaultRefreshPath,
		refreshTimeout: DefaultRefreshTimeout,
		log:            zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	return c, nil
}

// BaseURL returns the URL every request path is resolved against.
func (c *Coordinator) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// State reports whether a refresh is in flight.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the number of requests waiting on the in-flight refresh.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Send issues req and returns its response.
//
// A first failure with the session-expired status is not returned: the
// request waits for a refresh and is replayed once, and the caller receives
// the replay's outcome. Transport failures are returned as *NetworkError,
// other failed statuses (including a replay that fails again) as
// *UpstreamError, and a failed refresh as *SessionExpiredError.
//
// req itself is not modified, so it can be sent again; each Send gets a new
// request ID unless the caller set one.
//
// If ctx ends while the request is queued Send returns ctx.Err(); the refresh
// itself carries on.
func (c *Coordinator) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("[Coordinator.Send] request is required")
	}
	req = req.clone()
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.New().String())
	}

	resp, err := c.attempt(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != c.expiredStatus || req.SkipRefresh || c.isRefreshPath(req.Path) {
		return c.settle(req, resp)
	}

	p := &pendingRequest{ctx: ctx, req: req, done: make(chan result, 1)}
	c.enqueue(p)

	select {
	case r := <-p.done:
		return r.resp, r.err
	case <-ctx.Done():
		c.log.Debug().Str("request", req.String()).Msg("caller stopped waiting for session refresh")
		return nil, ctx.Err()
	}
}

// enqueue appends p to the queue and, if no refresh is in flight, starts one.
// The check and the transition happen under one lock so exactly one refresh
// starts however many requests fail at once.
func (c *Coordinator) enqueue(p *pendingRequest) {
	c.mu.Lock()
	c.queue = append(c.queue, p)
	c.metrics.Queued.Inc()
	c.metrics.Waiting.Set(float64(len(c.queue)))
	if c.state == StateRefreshing {
		position := len(c.queue)
		c.mu.Unlock()
		c.log.Debug().Str("request", p.req.String()).Int("position", position).Msg("queued behind session refresh")
		return
	}
	c.state = StateRefreshing
	c.refreshDone = make(chan struct{})
	done := c.refreshDone
	c.mu.Unlock()

	c.log.Info().Str("trigger", p.req.String()).Msg("session expired, refreshing")
	go c.refresh(p.ctx, done)
}

// refresh runs one refresh and settles every request queued during it.
func (c *Coordinator) refresh(triggerCtx context.Context, done chan struct{}) {
	defer close(done)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(triggerCtx), c.refreshTimeout)
	started := time.Now()
	err := c.callRefresh(ctx)
	cancel()
	c.metrics.RefreshDuration.Observe(time.Since(started).Seconds())

	// Back to IDLE before Logout runs session subscribers: a request they
	// send belongs to a later refresh, not to this queue.
	queue := c.takeQueue()

	if err != nil {
		c.metrics.Refreshes.WithLabelValues("failure").Inc()
		c.log.Warn().Err(err).Msg("session refresh failed, logging out")
		// Logged out before any waiter can observe its rejection.
		if c.session != nil {
			c.session.Logout()
		}
		rejection := &SessionExpiredError{Cause: err}
		for _, p := range queue {
			c.metrics.Replays.WithLabelValues("rejected").Inc()
			p.done <- result{err: rejection}
		}
		return
	}

	c.metrics.Refreshes.WithLabelValues("success").Inc()
	c.log.Debug().Int("requests", len(queue)).Msg("session refreshed, replaying requests")
	for _, p := range queue {
		if ctxErr := p.ctx.Err(); ctxErr != nil {
			c.metrics.Replays.WithLabelValues("abandoned").Inc()
			p.done <- result{err: ctxErr}
			continue
		}
		resp, err := c.attempt(p.ctx, p.req)
		if err == nil {
			resp, err = c.settle(p.req, resp)
		}
		if err != nil {
			c.metrics.Replays.WithLabelValues("failed").Inc()
		} else {
			c.metrics.Replays.WithLabelValues("succeeded").Inc()
		}
		p.done <- result{resp: resp, err: err}
	}
}

// takeQueue hands the queue to the settling refresh and returns to IDLE. A
// request failing after this point belongs to a later refresh.
func (c *Coordinator) takeQueue() []*pendingRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	queue := c.queue
	c.queue = nil
	c.state = StateIdle
	c.metrics.Waiting.Set(0)
	return queue
}

// WaitIdle blocks until no refresh is in flight or ctx ends.
func (c *Coordinator) WaitIdle(ctx context.Context) error {
	c.mu.Lock()
	done := c.refreshDone
	refreshing := c.state == StateRefreshing
	c.mu.Unlock()
	if !refreshing || done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) callRefresh(ctx context.Context) error {
	req := NewRequest(http.MethodPost, c.refreshPath)
	req.Header.Set(RequestIDHeader, uuid.New().String())
	resp, err := c.attempt(ctx, req)
	if err != nil {
		return err
	}
	if _, err := c.settle(req, resp); err != nil {
		return err
	}
	return nil
}

func (c *Coordinator) isRefreshPath(path string) bool {
	return path == c.refreshPath
}

// settle turns a failed status into an *UpstreamError.
func (c *Coordinator) settle(req *Request, resp *Response) (*Response, error) {
	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}
	return nil, &UpstreamError{
		Method: req.Method,
		Path:   req.Path,
		Status: resp.StatusCode,
		Body:   resp.Body,
	}
}

// attempt sends req once and reads the whole response.
func (c *Coordinator) attempt(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Method: req.Method, Path: req.Path, Err: errors.Wrap(err, "reading response body")}
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", httpResp.StatusCode).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Msg("api request")

	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}, nil
}

func (c *Coordinator) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := c.BaseURL()
	target.Path = target.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Coordinator] building %s", req)
	}
	for k, v := range req.Header {
		httpReq.Header[k] = append([]string(nil), v...)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	return httpReq, nil
}
