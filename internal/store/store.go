// Package store persists the last read response as a one-line text file.
package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("store: no saved snapshot")

// FileStore keeps a single snapshot in one file, overwritten on every save.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load returns the first line of the file with surrounding space removed.
func (s *FileStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoSnapshot
	}
	if err != nil {
		return "", fmt.Errorf("store: read %s: %w", s.path, err)
	}

	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("store: read %s: %w", s.path, err)
		}
		return "", ErrNoSnapshot
	}

	line := strings.TrimSpace(sc.Text())
	if line == "" {
		return "", ErrNoSnapshot
	}
	return line, nil
}

// Save replaces the file with frame, creating parent directories.
func (s *FileStore) Save(frame string) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, []byte(strings.TrimSpace(frame)+"\n"), 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}
