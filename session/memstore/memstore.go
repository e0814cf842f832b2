// Package memstore provides an in-memory session store. Nothing survives the
// process; it exists for tests and for short-lived programs that log in on
// every run.
package memstore

import (
	"sync"

	"github.com/Paulndambo/nismart-go/api"
	"github.com/Paulndambo/nismart-go/session"
)

var _ session.Store = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	access  string
	refresh string
	profile *api.User
}

func New() *Store {
	return &Store{}
}

func (s *Store) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

func (s *Store) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, s.refresh != ""
}

func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func (s *Store) Profile() (*api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, false
	}
	u := *s.profile
	return &u, true
}

func (s *Store) SetProfile(u *api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.profile = nil
		return nil
	}
	copied := *u
	s.profile = &copied
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.profile = nil
	return nil
}
