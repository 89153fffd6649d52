package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// FileStore keeps every key in one JSON object file.
type FileStore struct {
	path  string
	quota int
	mu    sync.Mutex
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string, quota int) *FileStore {
	return &FileStore{path: path, quota: quota}
}

// Get returns the value stored under key. A missing or unreadable file reads as empty.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set writes value under key, replacing the file atomically.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	if s.quota > 0 && len(value) > s.quota {
		return fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrQuotaExceeded, len(value), s.quota)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Close is a no-op; the file is rewritten on every Set.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".kv-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, domain.SecureFilePermissions); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}

var _ ports.KeyValueStore = (*FileStore)(nil)
