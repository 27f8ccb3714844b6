package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps analysis results on the local filesystem. The CLI
// uses it so file-based runs need no cloud credentials.
type LocalStorage struct {
	dir string
}

var _ StorageInterface = (*LocalStorage)(nil)

// NewLocalStorage creates a file-backed store rooted at dir.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Store(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, filename), data, 0o644)
}

func (s *LocalStorage) Retrieve(filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filename))
}

func (s *LocalStorage) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (s *LocalStorage) Delete(filename string) error {
	return os.Remove(filepath.Join(s.dir, filename))
}
