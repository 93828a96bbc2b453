// Package server is a development backend for the portfolio API. It serves
// the same routes, envelopes and cookie session as the production service
// from in-memory state so the client can be exercised end to end.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-portfolio-client/auth"
	"github.com/jrsteele09/go-portfolio-client/content"
	"github.com/jrsteele09/go-portfolio-client/internal/config"
	"github.com/jrsteele09/go-portfolio-client/token"
	"github.com/jrsteele09/go-portfolio-client/token/jwt"
	"github.com/jrsteele09/go-portfolio-client/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-portfolio-client/token/refresh/repofake"
	"github.com/jrsteele09/go-portfolio-client/users"
	fakeuserrepo "github.com/jrsteele09/go-portfolio-client/users/repofake"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const revokedPruneInterval = 5 * time.Minute

type Server struct {
	env          string // Environment (e.g., "DEV", "PROD")
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	log          zerolog.Logger
	auth         *auth.Service
	users        users.UserRepo
	content      *content.Store
	profile      *profileState
	resume       *resumeState
	images       *imageStore
	stats        *counters
	loginLimiter *RateLimiter
	stopPruning  func()
	registry     *prometheus.Registry
	metrics      *serverMetrics
}

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithContentStore replaces the empty in-memory collections.
func WithContentStore(store *content.Store) Option {
	return func(s *Server) {
		s.content = store
	}
}

func WithUserRepo(repo users.UserRepo) Option {
	return func(s *Server) {
		s.users = repo
	}
}

// WithRegistry registers the server's metrics on reg and serves it on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

func New(cfg config.Config, options ...Option) (*Server, error) {
	s := &Server{
		env:     cfg.GetEnv(),
		mux:     http.NewServeMux(),
		config:  cfg,
		log:     zerolog.Nop(),
		users:   fakeuserrepo.NewFakeUserRepo(),
		content: content.NewInMemoryStore(),
		profile: &profileState{},
		resume:  &resumeState{},
		images:  newImageStore(),
		stats:   &counters{},
	}
	for _, opt := range options {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newServerMetrics(s.registry)

	var signer token.Signer
	if secret := cfg.GetTokenSecret(); secret != "" {
		signer = token.NewHMACSigner(secret)
	} else {
		random, err := token.NewRandomHMACSigner()
		if err != nil {
			return nil, errors.Wrap(err, "[server.New] failed to create token signer")
		}
		// Sessions won't survive a restart
		signer = random
	}
	revoked := token.NewInMemoryRevokedTokenCache()
	accessTokens := jwt.NewCreator(cfg, signer, revoked)
	refreshTokens := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg)

	authService, err := auth.NewService(auth.Repos{Users: s.users}, accessTokens, refreshTokens,
		auth.WithRegistration(cfg.GetAllowRegistration()))
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] failed to create auth service")
	}
	s.auth = authService

	if cfg.GetEnableRateLimiting() {
		s.loginLimiter = NewRateLimiter(cfg.GetLoginRatePerMinute(), cfg.GetLoginBurst())
	}

	if err := s.bootstrap(); err != nil {
		return nil, errors.Wrap(err, "[server.New] failed to bootstrap")
	}

	s.initRoutes()
	s.logRoutes()

	s.stopPruning = token.PruneEvery(revoked, revokedPruneInterval, func(removed int) {
		if removed > 0 {
			s.log.Debug().Int("removed", removed).Msg("pruned revoked access tokens")
		}
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close stops background work.
func (s *Server) Close() {
	if s.stopPruning != nil {
		s.stopPruning()
	}
	if s.loginLimiter != nil {
		s.loginLimiter.Stop()
	}
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		s.log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
	}
}

// publicURL builds an absolute URL for path on this server.
func (s *Server) publicURL(path string) string {
	return strings.TrimSuffix(s.config.GetBaseURL(), "/") + path
}
