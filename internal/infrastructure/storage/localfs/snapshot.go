package localfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrSnapshotNotFound signals a cold cache: no index blob has been
// persisted yet.
var ErrSnapshotNotFound = errors.New("index snapshot not found")

// SnapshotStore persists the single serialized index blob at a fixed
// path. Writes go through a temp file and rename so concurrent readers
// never observe a half-written blob.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if path == "" {
		path = "./data/index.gob"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &SnapshotStore{path: path}, nil
}

func (s *SnapshotStore) Read(context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

func (s *SnapshotStore) Write(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Delete(context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
