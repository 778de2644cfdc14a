package client

import (
	"sync"
	"time"

	"blogsphere/internal/models"
)

// Session holds the signed-in user and their bearer token. The zero value
// is a signed-out session. A Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	token     string
	user      models.User
	expiresAt time.Time

	now func() time.Time
}

// NewSession returns a signed-out session.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Login stores token for user. A zero expiresAt never expires.
func (s *Session) Login(token string, user models.User, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.expiresAt = expiresAt
}

// Logout clears the session.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *Session) clear() {
	s.token = ""
	s.user = models.User{}
	s.expiresAt = time.Time{}
}

// expired must be called with mu held. An expired session is cleared.
func (s *Session) expired() bool {
	if s.token == "" {
		return true
	}
	if !s.expiresAt.IsZero() && !s.clock().Before(s.expiresAt) {
		s.clear()
		return true
	}
	return false
}

// Token returns the bearer token, or "" when signed out or expired.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired() {
		return ""
	}
	return s.token
}

// User returns the signed-in user.
func (s *Session) User() (models.User, bool) {
	if s == nil {
		return models.User{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired() {
		return models.User{}, false
	}
	return s.user, true
}
