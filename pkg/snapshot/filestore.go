package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"taskstore/pkg/task"
)

// FileStore keeps the snapshot as a single JSON file on disk. It is the
// plain-file stand-in for a browser's local storage slot.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// EnsureSchema creates the parent directory if it doesn't exist.
func (s *FileStore) EnsureSchema(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	return nil
}

// Load reads and parses the snapshot file. A missing file means no
// snapshot has been saved yet.
func (s *FileStore) Load(_ context.Context) (*task.State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var st task.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", s.path, err)
	}
	if st.Tasks == nil {
		st.Tasks = []task.Task{}
	}
	return &st, nil
}

// Save writes the snapshot atomically: a temp file in the same directory
// is renamed over the target, so a crash mid-write never leaves a
// half-written snapshot behind.
func (s *FileStore) Save(_ context.Context, st task.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}
	return nil
}
