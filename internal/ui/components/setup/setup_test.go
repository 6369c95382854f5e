package setup

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyvibe/vidjob/internal/app"
	"github.com/lazyvibe/vidjob/internal/model"
)

type savedTheme struct {
	theme model.Theme
	calls int
}

func (s *savedTheme) SaveTheme(t model.Theme) error {
	s.theme = t
	s.calls++
	return nil
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	var tm tea.Model = m
	for _, k := range keys {
		tm, _ = tm.Update(k)
	}
	return tm.(Model)
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	right = tea.KeyMsg{Type: tea.KeyRight}
)

func TestWizardSavesConfigAndTheme(t *testing.T) {
	t.Setenv(app.EnvServiceURL, "")
	dir := t.TempDir()
	prefs := &savedTheme{}
	m := New(dir, app.DefaultConfig(), prefs, model.ThemeLight)
	m.SetSize(100, 40)

	m = press(t, m, enter)
	if m.step != StepService {
		t.Fatalf("step = %d, want StepService", m.step)
	}
	m = press(t, m, enter)
	if m.step != StepTheme {
		t.Fatalf("step = %d, want StepTheme", m.step)
	}
	m = press(t, m, right, enter)
	if !m.IsComplete() {
		t.Fatalf("step = %d, want StepComplete (error %q)", m.step, m.error)
	}

	if prefs.calls != 1 || prefs.theme != model.ThemeDark {
		t.Fatalf("theme saved = %q (%d calls)", prefs.theme, prefs.calls)
	}
	loaded, err := app.LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !loaded.Initialized || loaded.ServiceURL != "http://localhost:5000" {
		t.Fatalf("config = %+v", loaded)
	}
}

func TestWizardRejectsBadServiceURL(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.ServiceURL = ""
	m := New(t.TempDir(), cfg, nil, model.ThemeLight)
	m.SetSize(100, 40)

	m = press(t, m, enter, enter)
	if m.step != StepService {
		t.Fatalf("step = %d, want to stay on StepService", m.step)
	}
}
