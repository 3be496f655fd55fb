// Package state persists the agent's active-session pointer across
// restarts. The file is recovery input only; the API is the source of
// truth and wins on any disagreement.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

type fileState struct {
	ActiveSessionID string    `json:"active_session_id"`
	SavedAt         time.Time `json:"saved_at"`
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted session id, or "" when none was saved.
func (s *Store) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	var st fileState
	if err := json.Unmarshal(raw, &st); err != nil {
		// A corrupt state file is not worth failing startup over.
		return "", nil
	}
	return st.ActiveSessionID, nil
}

func (s *Store) Save(sessionID string) error {
	raw, err := json.Marshal(fileState{ActiveSessionID: sessionID, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
