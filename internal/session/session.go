// Package session holds the authenticated-user slot of a board client.
//
// A Session is an explicit value owned by the caller and passed into every
// board operation; there is no process-wide current user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/password"
)

// ErrInvalidCredentials is returned when no user matches the username and password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserLoader supplies the current user collection.
type UserLoader interface {
	Load(ctx context.Context) ([]models.User, error)
}

// Session is the login state of one client. The zero value is a logged-out
// session and is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	user *models.User
}

// New returns a logged-out session.
func New() *Session {
	return &Session{}
}

// Login authenticates against the users returned by loader. Both the
// username and the password hash must match exactly. On failure the
// session keeps its previous state.
func (s *Session) Login(ctx context.Context, loader UserLoader, username, plaintext string) error {
	users, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		if u.Username != username {
			continue
		}
		ok, err := password.Matches(plaintext, u.HashedPassword)
		if err != nil {
			return err
		}
		if ok {
			s.set(&u)
			return nil
		}
	}
	return ErrInvalidCredentials
}

// Logout clears the session. It is safe to call when logged out.
func (s *Session) Logout() {
	s.set(nil)
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *Session) CurrentUser() *models.User {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a user is logged in.
func (s *Session) LoggedIn() bool {
	return s.CurrentUser() != nil
}

// IsAdmin reports whether the logged-in user has the Admin role.
func (s *Session) IsAdmin() bool {
	u := s.CurrentUser()
	return u != nil && u.IsAdmin()
}

// Refresh replaces the cached user record when it belongs to the logged-in
// user, so role changes made elsewhere become visible. A nil record logs
// the session out.
func (s *Session) Refresh(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	if u == nil {
		s.user = nil
		return
	}
	if u.Username == s.user.Username {
		cp := *u
		s.user = &cp
	}
}

func (s *Session) set(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}
