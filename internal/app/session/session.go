// Package session tracks whether the user of the terminal front-end is
// signed in. The state is driven by the backend: the initial lookup and
// every auth state change overwrite it.
package session

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/pkg/client"
)

type Status int

const (
	// Unresolved means the initial lookup has not finished.
	Unresolved Status = iota
	Absent
	Present
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Present:
		return "present"
	default:
		return "unresolved"
	}
}

// User is the signed-in account.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
}

// State is the tri-state session value. User is set only when Present.
type State struct {
	Status Status
	User   *User
}

func (s State) Resolved() bool { return s.Status != Unresolved }

// UserID returns the signed-in user's id or "".
func (s State) UserID() string {
	if s.Status != Present || s.User == nil {
		return ""
	}
	return s.User.ID
}

func present(u client.User) State {
	return State{Status: Present, User: &User{ID: u.ID, Email: u.Email}}
}

// AuthService is the slice of the backend client the store needs.
type AuthService interface {
	GetSession(ctx context.Context) (*client.Session, error)
	OnAuthStateChange(listener client.AuthListener) func()
	SignUp(ctx context.Context, email, password string) (*client.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*client.Session, error)
	SignOut(ctx context.Context) error
}

// AuthError carries the backend's message for display on the login and
// register screens.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// Listener is notified after every state change.
type Listener func(State)

type Store struct {
	auth   AuthService
	logger *zap.Logger

	mu          sync.Mutex
	state       State
	listeners   map[int]Listener
	nextID      int
	unsubscribe func()
}

func New(auth AuthService, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		auth:      auth,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// Start subscribes to auth state changes and performs the initial lookup.
// A failed lookup resolves to Absent. The lookup result is dropped when a
// change notification already resolved the state.
func (s *Store) Start(ctx context.Context) {
	unsubscribe := s.auth.OnAuthStateChange(s.handleAuthEvent)
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	next := State{Status: Absent}
	current, err := s.auth.GetSession(ctx)
	switch {
	case err != nil:
		s.logger.Warn("initial session lookup failed", zap.Error(err))
	case current != nil:
		next = present(current.User)
	}

	s.apply(next, true)
}

// Close unregisters the auth state subscription.
func (s *Store) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers listener; call the returned func on teardown.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignUp registers an account. The state is not changed.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	if _, err := s.auth.SignUp(ctx, normalizeEmail(email), password); err != nil {
		return authError("sign up", err)
	}
	return nil
}

// SignIn signs in; the state turns Present through the change notification.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	if _, err := s.auth.SignInWithPassword(ctx, normalizeEmail(email), password); err != nil {
		return authError("sign in", err)
	}
	return nil
}

// SignOut signs out; the state turns Absent through the change notification.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		return authError("sign out", err)
	}
	return nil
}

func (s *Store) handleAuthEvent(event client.AuthEvent, current *client.Session) {
	s.logger.Debug("auth state changed", zap.String("event", string(event)))
	if current == nil {
		s.set(State{Status: Absent})
		return
	}
	s.set(present(current.User))
}

func (s *Store) set(next State) {
	s.apply(next, false)
}

func (s *Store) apply(next State, onlyUnresolved bool) {
	s.mu.Lock()
	if onlyUnresolved && s.state.Resolved() {
		s.mu.Unlock()
		return
	}
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func authError(op string, err error) error {
	return &AuthError{Op: op, Message: err.Error(), Err: err}
}
