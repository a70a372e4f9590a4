// Package prefs is a small file-backed key/value namespace, the
// client-side equivalent of a private preferences file: a flat string
// map persisted as JSON and rewritten atomically on every mutation.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads the namespace at path, creating the parent directory if
// needed. A missing file starts empty; a corrupt file is treated as
// empty rather than fatal, matching "decode failure means no value".
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}

	s := &Store{path: path, values: map[string]string{}}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if len(raw) > 0 {
		if uerr := json.Unmarshal(raw, &s.values); uerr != nil {
			s.values = map[string]string{}
		}
	}
	return s, nil
}

// Get returns the value for key, reporting whether it was set.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores key=value and persists immediately.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// Delete removes key and persists immediately. Removing an absent key
// is a no-op.
func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return s.flushLocked()
}

// Clear removes every key in the namespace.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	return s.flushLocked()
}

// flushLocked writes the map to a temp file and renames it over the
// namespace so readers never observe a partial write.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}
