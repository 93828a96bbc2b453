package session

import (
	"sync"

	"github.com/rs/zerolog"
)

// User is the descriptor of the logged in user. The client treats it as opaque.
type User struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// Snapshot is the authentication state visible to the rest of the application.
type Snapshot struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	User            *User  `json:"user"`
	Token           string `json:"token,omitempty"` // Informational only, never sent with requests
}

func (s Snapshot) equal(o Snapshot) bool {
	if s.IsAuthenticated != o.IsAuthenticated || s.Token != o.Token {
		return false
	}
	if s.User == nil || o.User == nil {
		return s.User == o.User
	}
	return *s.User == *o.User
}

// clone returns a copy that shares nothing with the store's state.
func (s Snapshot) clone() Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Store is the single source of truth for whether the client is authenticated.
// State only changes through Login, LoginWithToken and Logout.
type Store struct {
	mu          sync.RWMutex
	state       Snapshot
	persister   Persister
	log         zerolog.Logger
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithLogger sets the logger used to report persistence failures.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// New creates a Store, restoring any state the persister holds. A nil
// persister keeps the state in memory only.
func New(persister Persister, options ...StoreOption) *Store {
	if persister == nil {
		persister = NoopPersister
	}
	s := &Store{
		persister:   persister,
		log:         zerolog.Nop(),
		subscribers: make(map[int]func(Snapshot)),
	}
	for _, opt := range options {
		opt(s)
	}

	snapshot, found, err := persister.Load()
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("[session.New] failed to restore session, starting logged out")
	case found:
		s.state = normalise(snapshot)
	}
	return s
}

// normalise enforces that a restored snapshot never claims a user without
// being authenticated.
func normalise(s Snapshot) Snapshot {
	if !s.IsAuthenticated {
		return Snapshot{}
	}
	return s.clone()
}

// Login marks the client as authenticated as user.
func (s *Store) Login(user User) {
	s.LoginWithToken(user, "")
}

// LoginWithToken is Login that also records the token returned by the login
// call. The token is kept for display only.
func (s *Store) LoginWithToken(user User, token string) {
	s.transition(Snapshot{IsAuthenticated: true, User: &user, Token: token})
}

// Logout clears the user and token. Calling it when already logged out leaves
// the state unchanged.
func (s *Store) Logout() {
	s.transition(Snapshot{})
}

func (s *Store) transition(next Snapshot) {
	s.mu.Lock()
	changed := !s.state.equal(next)
	s.state = next
	if err := s.persister.Save(next.clone()); err != nil {
		s.log.Error().Err(err).Msg("[session.Store] failed to persist session")
	}
	var subs []func(Snapshot)
	if changed {
		subs = make([]func(Snapshot), 0, len(s.subscribers))
		for _, fn := range s.subscribers {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.clone())
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// User returns the current user, or nil when logged out.
func (s *Store) User() *User {
	return s.Snapshot().User
}

// Subscribe registers fn to be called with the new state after every change.
// fn runs on the goroutine that made the change, after the store's lock is
// released. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}
