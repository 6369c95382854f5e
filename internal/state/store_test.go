package state

import (
	"errors"
	"sync"
	"testing"

	"github.com/lazyvibe/vidjob/internal/model"
)

type recordingSaver struct {
	mu     sync.Mutex
	themes []model.Theme
	err    error
}

func (r *recordingSaver) SaveTheme(theme model.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes = append(r.themes, theme)
	return r.err
}

func TestStorePersistsTheme(t *testing.T) {
	saver := &recordingSaver{}
	s := New(Initial(model.ThemeLight), saver, nil)

	s.Dispatch(SetTheme{Theme: model.ThemeDark})
	s.Dispatch(SetSidebarOpen{Open: false})
	s.Dispatch(SetTheme{Theme: "bogus"})

	if len(saver.themes) != 1 || saver.themes[0] != model.ThemeDark {
		t.Fatalf("saved themes = %v, want [dark]", saver.themes)
	}
	if s.State().Theme != model.ThemeDark {
		t.Fatalf("theme = %q", s.State().Theme)
	}
}

func TestStoreThemeSaveFailureKeepsState(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	s := New(Initial(model.ThemeLight), saver, nil)

	s.Dispatch(SetTheme{Theme: model.ThemeDark})
	if s.State().Theme != model.ThemeDark {
		t.Fatalf("theme = %q, want dark", s.State().Theme)
	}
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	s := New(Initial(model.ThemeLight), nil, nil)
	s.Dispatch(SetFiles{Files: []model.FileEntry{entry("a", "a.mp4")}})

	snap := s.State()
	snap.Files[0].Name = "mutated"
	if s.State().Files[0].Name != "a.mp4" {
		t.Fatalf("snapshot shares memory with store")
	}
}

func TestStoreSubscribeCoalesces(t *testing.T) {
	s := New(Initial(model.ThemeLight), nil, nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Dispatch(SetDescription{Description: "one"})
	s.Dispatch(SetDescription{Description: "two"})

	select {
	case <-ch:
	default:
		t.Fatal("expected change signal")
	}
	select {
	case <-ch:
		t.Fatal("signals should coalesce")
	default:
	}

	cancel()
	s.Dispatch(SetDescription{Description: "three"})
	select {
	case <-ch:
		t.Fatal("signal after cancel")
	default:
	}
}

func TestStoreConcurrentDispatch(t *testing.T) {
	s := New(Initial(model.ThemeLight), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(AppendFiles{Files: []model.FileEntry{entry(string(rune('a'+i%26))+"x", "f.mp4")}})
		}(i)
	}
	wg.Wait()

	if got := len(s.State().Files); got != 50 {
		t.Fatalf("files = %d, want 50", got)
	}
}
