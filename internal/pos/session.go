package pos

import (
	"context"
	"fmt"

	"zenith-pos/internal/domain"
)

// SessionState is the login state of an operator terminal.
type SessionState int

const (
	Anonymous SessionState = iota
	Authenticated
)

func (s SessionState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Authenticator verifies operator credentials.
type Authenticator interface {
	Login(ctx context.Context, name, password string) (domain.User, error)
}

// Session tracks which operator is signed in at a terminal.
type Session struct {
	auth Authenticator
	user *domain.User
}

// NewSession creates an anonymous session.
func NewSession(auth Authenticator) *Session {
	return &Session{auth: auth}
}

// Login authenticates the operator. On failure the session keeps its previous
// state.
func (s *Session) Login(ctx context.Context, name, password string) (domain.User, error) {
	if name == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	user, err := s.auth.Login(ctx, name, password)
	if err != nil {
		return domain.User{}, err
	}
	user = user.Public()
	s.user = &user
	return user, nil
}

// Logout returns the session to Anonymous.
func (s *Session) Logout() {
	s.user = nil
}

func (s *Session) State() SessionState {
	if s.user == nil {
		return Anonymous
	}
	return Authenticated
}

// User returns the signed-in operator, if any.
func (s *Session) User() (domain.User, bool) {
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}
