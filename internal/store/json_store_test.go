package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lazyvibe/vidjob/internal/model"
)

func TestNewJSONStoreCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	defer s.Close()

	if s.Theme() != model.ThemeLight {
		t.Fatalf("theme = %q, want light", s.Theme())
	}
	if _, err := os.Stat(filepath.Join(dir, "prefs.json")); err != nil {
		t.Fatalf("prefs.json not written: %v", err)
	}
}

func TestThemeSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	if err := s.SaveTheme(model.ThemeDark); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	s.Close()

	reopened, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Theme() != model.ThemeDark {
		t.Fatalf("theme = %q after reopen, want dark", reopened.Theme())
	}
}

func TestSaveThemeRejectsUnknown(t *testing.T) {
	s, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	defer s.Close()

	if err := s.SaveTheme("sepia"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("err = %v, want ErrInvalidTheme", err)
	}
	if s.Theme() != model.ThemeLight {
		t.Fatalf("theme = %q", s.Theme())
	}
}

func TestInvalidStoredThemeFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prefs.json"), []byte(`{"theme":"neon"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	if s.Theme() != model.ThemeLight {
		t.Fatalf("theme = %q, want light", s.Theme())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	raw, _ := os.ReadFile(filepath.Join(dir, "prefs.json"))
	if string(raw) == `{"theme":"neon"}` {
		t.Fatal("normalised theme not written back on close")
	}
}

func TestCorruptPreferences(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prefs.json"), []byte(`{`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewJSONStore(dir); err == nil {
		t.Fatal("expected parse error")
	}
}
