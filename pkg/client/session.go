package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session holds the bearer token of a logged-in dashboard user. A Session
// with a path persists the token between CLI runs.
type Session struct {
	mu      sync.RWMutex
	access  string
	refresh string
	path    string
}

type sessionFile struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func NewSession() *Session { return &Session{} }

// LoadSession reads a saved session from path. A missing file yields an
// empty session bound to path.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var f sessionFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.access, s.refresh = f.Access, f.Refresh
	return s, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Session) LoggedIn() bool { return s.Token() != "" }

func (s *Session) Set(access, refresh string) error {
	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()
	return s.save()
}

// Clear forgets the stored tokens, as after a 401.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.access, s.refresh = "", ""
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	b, err := json.Marshal(sessionFile{Access: s.access, Refresh: s.refresh})
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}
