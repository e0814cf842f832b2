// Package filestore persists the session as a JSON file on disk, so tokens
// survive between program runs. The file is rewritten atomically (temp file
// then rename) and created with 0600 permissions since it holds credentials.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/Paulndambo/nismart-go/api"
	"github.com/Paulndambo/nismart-go/session"
)

var _ session.Store = (*Store)(nil)

// fileSession is the on-disk shape. The profile stays raw so a corrupt
// profile value degrades to "absent" without poisoning the tokens.
type fileSession struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         json.RawMessage `json:"user,omitempty"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a file-backed store at path. The parent directory is created
// if missing. The file itself is created lazily on first write.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("filestore.New path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "filestore.New MkdirAll")
	}
	return &Store{path: path}, nil
}

func (s *Store) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs := s.load()
	return fs.AccessToken, fs.AccessToken != ""
}

func (s *Store) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs := s.load()
	return fs.RefreshToken, fs.RefreshToken != ""
}

func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs := s.load()
	fs.AccessToken = access
	fs.RefreshToken = refresh
	return s.save(fs)
}

func (s *Store) Profile() (*api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs := s.load()
	if len(fs.User) == 0 {
		return nil, false
	}
	var u api.User
	if err := json.Unmarshal(fs.User, &u); err != nil {
		// Corrupt stored profile reads as absent.
		return nil, false
	}
	return &u, true
}

func (s *Store) SetProfile(u *api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs := s.load()
	if u == nil {
		fs.User = nil
	} else {
		raw, err := json.Marshal(u)
		if err != nil {
			return errors.Wrap(err, "filestore.SetProfile Marshal")
		}
		fs.User = raw
	}
	return s.save(fs)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "filestore.Clear Remove")
	}
	return nil
}

// load reads the session file, treating a missing or unreadable file as an
// empty session.
func (s *Store) load() fileSession {
	var fs fileSession
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fs
	}
	if err := json.Unmarshal(data, &fs); err != nil {
		return fileSession{}
	}
	return fs
}

func (s *Store) save(fs fileSession) error {
	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "filestore.save Marshal")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "filestore.save WriteFile")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "filestore.save Rename")
	}
	return nil
}
