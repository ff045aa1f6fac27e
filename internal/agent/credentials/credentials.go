// Package credentials persists the agent's bearer token across restarts.
package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps the token in a mode-0600 file under the agent state dir.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the token, replacing any previous one.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token+"\n"), 0o600)
}

// Load returns the stored token, or "" when none has been saved.
func (s *Store) Load() string {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Clear removes the stored token.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
