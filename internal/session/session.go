package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/pkg/errorcode"
)

// Session is the server-side counterpart of the tokens a browser would keep in local storage. It implements
// apiclient.TokenStore: refreshed tokens are written through to the store.
type Session struct {
	mu      sync.RWMutex
	data    Data
	store   Store
	ttl     time.Duration
	cleared bool
}

func newSession(data Data, store Store, ttl time.Duration) *Session {
	return &Session{
		data:  data,
		store: store,
		ttl:   ttl,
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ID
}

// User returns a copy of the cached user, or nil if the session has been cleared.
func (s *Session) User() *common.Usuario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data.User == nil {
		return nil
	}

	user := *s.data.User
	return &user
}

// Role returns the role of the cached user, or "" if there is no user.
func (s *Session) Role() common.Role {
	if user := s.User(); user != nil {
		return user.Rol
	}

	return ""
}

// ExpiresAt returns the time the session expires.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ExpiresAt
}

// Tokens implements apiclient.TokenStore.
func (s *Session) Tokens() common.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return common.TokenPair{
		AccessToken:  s.data.AccessToken,
		RefreshToken: s.data.RefreshToken,
	}
}

// SetTokens implements apiclient.TokenStore. The session expiry slides forward.
func (s *Session) SetTokens(pair common.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleared {
		return errors.New("la sesión ya fue cerrada")
	}

	s.data.AccessToken = pair.AccessToken
	s.data.RefreshToken = pair.RefreshToken
	s.data.ExpiresAt = time.Now().Add(s.ttl)

	data := s.data
	return errors.Wrap(s.store.Save(&data), "no se pudo guardar la sesión")
}

// ReloadTokens implements apiclient.TokenReloader. Every request holds its own copy of the session, so a pair
// rotated by a concurrent request (or by a long-lived websocket) is only visible in the store.
func (s *Session) ReloadTokens() (common.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleared {
		return common.TokenPair{}, errors.Wrap(errorcode.ErrorNotFound, "la sesión ya fue cerrada")
	}

	data, err := s.store.Get(s.data.ID)
	if err != nil {
		return common.TokenPair{}, errors.Wrap(err, "no se pudo recargar la sesión")
	}

	s.data.AccessToken = data.AccessToken
	s.data.RefreshToken = data.RefreshToken
	s.data.ExpiresAt = data.ExpiresAt

	return common.TokenPair{AccessToken: s.data.AccessToken, RefreshToken: s.data.RefreshToken}, nil
}

// SetUser replaces the cached user.
func (s *Session) SetUser(user *common.Usuario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleared {
		return errors.New("la sesión ya fue cerrada")
	}

	s.data.User = user

	data := s.data
	return errors.Wrap(s.store.Save(&data), "no se pudo guardar la sesión")
}

// Clear implements apiclient.TokenStore. The session is removed from the store.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleared = true
	s.data.AccessToken = ""
	s.data.RefreshToken = ""
	s.data.User = nil

	return errors.Wrap(s.store.Delete(s.data.ID), "no se pudo eliminar la sesión")
}

// IsCleared reports whether Clear has been called, e.g. by the API client after a failed refresh.
func (s *Session) IsCleared() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cleared
}
