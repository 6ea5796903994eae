// Package runstate persists the small singleton state that survives between
// runs: which source published last. The selection engine only reads it; the
// caller overwrites it after a successful publish.
package runstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vitalviral/newsbot/internal/logger"
)

type state struct {
	LastSource string `json:"lastSource"`
}

// Store is a file-backed singleton document.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// LastSource returns the source of the previously published article, or ""
// when the state file is missing or unreadable.
func (s *Store) LastSource() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("run state unreadable, using empty state", "path", s.path, "err", err)
		}
		return ""
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("run state corrupt, using empty state", "path", s.path, "err", err)
		return ""
	}
	return st.LastSource
}

// SaveLastSource atomically overwrites the state file.
func (s *Store) SaveLastSource(source string) error {
	data, err := json.MarshalIndent(state{LastSource: source}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write run state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace run state: %w", err)
	}
	return nil
}
