package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
)

// AuthEvent names an auth state change.
type AuthEvent string

const (
	EventSignedIn  AuthEvent = "SIGNED_IN"
	EventSignedOut AuthEvent = "SIGNED_OUT"
)

// User is the signed-in account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the client's view of an authenticated session.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        User
}

// AuthListener receives auth state changes. session is nil after sign-out.
type AuthListener func(event AuthEvent, session *Session)

// Token returns the access token in use, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnAuthStateChange registers listener and returns its unsubscribe func.
func (c *Client) OnAuthStateChange(listener AuthListener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(event AuthEvent, session *Session) {
	c.mu.RLock()
	listeners := make([]AuthListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.RUnlock()

	for _, l := range listeners {
		l(event, session)
	}
}

type sessionPayload struct {
	Session *domain.Session `json:"session"`
	User    *domain.User    `json:"user"`
}

// GetSession asks the service for the current session. It returns nil
// without error when there is no token or the service rejects it; a
// rejected token is dropped.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	token := c.Token()
	if token == "" {
		return nil, nil
	}

	var payload sessionPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, &payload); err != nil {
		if IsUnauthorized(err) {
			c.setToken("")
			return nil, nil
		}
		return nil, err
	}
	if payload.User == nil || payload.Session == nil {
		return nil, nil
	}
	return &Session{
		AccessToken: token,
		ExpiresAt:   payload.Session.ExpiresAt,
		User:        User{ID: payload.User.ID, Email: payload.User.Email},
	}, nil
}

// SignUp registers an account. It does not sign in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	var user domain.User
	req := transport.CredentialsRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", req, &user); err != nil {
		return nil, err
	}
	return &User{ID: user.ID, Email: user.Email}, nil
}

// SignInWithPassword exchanges credentials for a session and emits
// EventSignedIn.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var auth domain.AuthSession
	req := transport.CredentialsRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/token", req, &auth); err != nil {
		return nil, err
	}
	if auth.User == nil {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "sign-in response without user"}
	}

	session := &Session{
		AccessToken: auth.AccessToken,
		ExpiresAt:   auth.ExpiresAt,
		User:        User{ID: auth.User.ID, Email: auth.User.Email},
	}
	c.setToken(auth.AccessToken)
	c.emit(EventSignedIn, session)
	return session, nil
}

// SignOut revokes the session on the service, forgets the token and emits
// EventSignedOut. The local session is dropped even when revocation fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	if IsUnauthorized(err) {
		err = nil
	}
	c.setToken("")
	c.emit(EventSignedOut, nil)
	return err
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}
