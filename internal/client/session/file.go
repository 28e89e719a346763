package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend stores the session snapshot as a JSON file on disk. It is the
// default backend for the CLI.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Load(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var snapshot map[string]string
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return snapshot, nil
}

func (b *FileBackend) Save(_ context.Context, snapshot map[string]string) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}

	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}

	// The snapshot carries a bearer credential: owner-only permissions.
	if err := os.WriteFile(b.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (b *FileBackend) Clear(_ context.Context) error {
	err := os.Remove(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
