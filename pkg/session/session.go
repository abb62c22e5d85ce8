// Package session holds the client's view of who is signed in.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/transport"
	"github.com/apnabazaar/bazaar/pkg/authclient"
	"github.com/apnabazaar/bazaar/pkg/logging"
	"github.com/apnabazaar/bazaar/pkg/storage"
)

type State int

const (
	Unknown State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "unknown"
}

const (
	RouteHome            = "/"
	RouteVendorDashboard = "/vendor/dashboard"
)

type persisted struct {
	Token string              `json:"token"`
	User  transport.Principal `json:"user"`
}

// Session is safe for concurrent use. Writes from other processes sharing
// the same storage are last-writer-wins.
type Session struct {
	store storage.Store
	auth  authclient.Authenticator

	mu        sync.Mutex
	state     State
	token     string
	principal *transport.Principal
	err       error
}

func New(store storage.Store, auth authclient.Authenticator) *Session {
	return &Session{store: store, auth: auth}
}

// Restore reads the persisted session. A stored session is trusted as is:
// the token is not revalidated, so a stale one only shows up on the next
// failed API call. An unreadable blob is dropped.
func (s *Session) Restore(ctx context.Context) error {
	l := logging.FromContext(ctx).With("component", "session")

	data, err := s.store.Load(ctx, storage.KeySession)
	if err != nil {
		s.setAnonymous()
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("session: load: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil || p.Token == "" || !p.User.Role.Valid() {
		l.Warn("session_blob_dropped", "reason", "unreadable")
		s.setAnonymous()
		return s.store.Remove(ctx, storage.KeySession)
	}

	s.mu.Lock()
	s.state = Authenticated
	s.token = p.Token
	s.principal = &p.User
	s.err = nil
	s.mu.Unlock()
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string, role domain.Role) (transport.Principal, error) {
	res, err := s.auth.Login(ctx, email, password, role)
	if err != nil {
		s.fail(err)
		return transport.Principal{}, err
	}
	return s.establish(ctx, res)
}

func (s *Session) Signup(ctx context.Context, req transport.SignupRequest, role domain.Role) (transport.Principal, error) {
	res, err := s.auth.Signup(ctx, req, role)
	if err != nil {
		s.fail(err)
		return transport.Principal{}, err
	}
	return s.establish(ctx, res)
}

// Logout is local only. The token stays valid until it expires for anyone
// holding a copy.
func (s *Session) Logout(ctx context.Context) error {
	s.setAnonymous()
	if err := s.store.Remove(ctx, storage.KeySession); err != nil {
		return fmt.Errorf("session: remove: %w", err)
	}
	return nil
}

func (s *Session) establish(ctx context.Context, res *transport.AuthResponse) (transport.Principal, error) {
	data, err := json.Marshal(persisted{Token: res.Token, User: res.User})
	if err != nil {
		return transport.Principal{}, fmt.Errorf("session: encode: %w", err)
	}

	user := res.User
	s.mu.Lock()
	s.state = Authenticated
	s.token = res.Token
	s.principal = &user
	s.err = nil
	s.mu.Unlock()

	if err := s.store.Save(ctx, storage.KeySession, data); err != nil {
		logging.FromContext(ctx).Error("session_persist_failed", "error", err)
		return user, fmt.Errorf("session: save: %w", err)
	}
	return user, nil
}

// fail records err. A signed-in session stays signed in.
func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	if s.state != Authenticated {
		s.state = Anonymous
	}
}

func (s *Session) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Anonymous
	s.token = ""
	s.principal = nil
	s.err = nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the error of the last failed Login or Signup.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal != nil
}

func (s *Session) IsVendor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal != nil && s.principal.Role == domain.RoleVendor
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Principal() (transport.Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return transport.Principal{}, false
	}
	return *s.principal, true
}

// LandingRoute is where a principal goes after signing in.
func (s *Session) LandingRoute() string {
	p, ok := s.Principal()
	if !ok {
		return RouteHome
	}
	switch p.Role {
	case domain.RoleVendor:
		return RouteVendorDashboard
	case domain.RoleUser:
		return RouteHome
	}
	return RouteHome
}
