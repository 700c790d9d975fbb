package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	configDirName   = "rentalhub"
	storageFileName = "storage.json"
)

// FileStore keeps namespaces in a single JSON file. Every call re-reads the
// file so separate CLI invocations see each other's writes.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// DefaultFilePath returns ~/.config/rentalhub/storage.json
func DefaultFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName, storageFileName), nil
}

// NewFileStore stores data at path; the file is created on first write
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

type fileData map[string]map[string]string

func (s *FileStore) load() (fileData, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return fileData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	out := fileData{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse storage file: %w", err)
	}
	return out, nil
}

func (s *FileStore) save(d fileData) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, namespace, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := d[namespace][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *FileStore) Set(_ context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return err
	}
	if d[namespace] == nil {
		d[namespace] = map[string]string{}
	}
	d[namespace][key] = value
	return s.save(d)
}

func (s *FileStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := d[namespace][key]; !ok {
		return nil
	}
	delete(d[namespace], key)
	return s.save(d)
}

func (s *FileStore) DeleteNamespace(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := d[namespace]; !ok {
		return nil
	}
	delete(d, namespace)
	return s.save(d)
}

func (s *FileStore) Close() error { return nil }
