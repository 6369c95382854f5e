package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/lazyvibe/vidjob/internal/model"
)

// ErrInvalidTheme is returned when saving an unknown theme.
var ErrInvalidTheme = errors.New("invalid theme")

// JSONStore implements PreferenceStore using a JSON file.
// Writes are guarded by a file lock so concurrent vidjob processes
// never interleave partial files.
type JSONStore struct {
	mu       sync.RWMutex
	path     string
	lock     *flock.Flock
	data     *Preferences
	modified bool
}

// NewJSONStore opens (or creates) prefs.json in configDir.
func NewJSONStore(configDir string) (*JSONStore, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	path := filepath.Join(configDir, "prefs.json")
	s := &JSONStore{
		path: path,
		lock: flock.New(path + ".lock"),
		data: &Preferences{Theme: model.ThemeLight},
	}

	if _, err := os.Stat(path); err == nil {
		if err := s.load(); err != nil {
			return nil, err
		}
	} else if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the preferences file location.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) load() error {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}
	if err := json.Unmarshal(content, s.data); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	if !s.data.Theme.Valid() {
		s.data.Theme = model.ThemeLight
		s.modified = true
	}
	return nil
}

// save writes a temp file and renames it over prefs.json.
func (s *JSONStore) save() error {
	content, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock preferences: %w", err)
	}
	defer s.lock.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	s.modified = false
	return nil
}

// Theme returns the stored theme.
func (s *JSONStore) Theme() model.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Theme
}

// SaveTheme persists theme immediately.
func (s *JSONStore) SaveTheme(theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Theme == theme && !s.modified {
		return nil
	}
	s.data.Theme = theme
	s.modified = true
	return s.save()
}

// Close persists any pending changes.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modified {
		return s.save()
	}
	return nil
}
