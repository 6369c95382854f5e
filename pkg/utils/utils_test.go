package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitCommandLine(t *testing.T) {
	args, err := SplitCommandLine(`a.mp4 "my clip.mov" 'b c.mkv' d\ e.mp4`)
	if err != nil {
		t.Fatalf("SplitCommandLine: %v", err)
	}
	want := []string{"a.mp4", "my clip.mov", "b c.mkv", "d e.mp4"}
	if len(args) != len(want) {
		t.Fatalf("args = %q, want %q", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}

	if _, err := SplitCommandLine(`"open`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
	if _, err := SplitCommandLine(`trailing\`); err == nil {
		t.Fatal("expected error for unfinished escape")
	}
}

func TestParseArgsEmpty(t *testing.T) {
	args, err := ParseArgs("   ")
	if err != nil || args != nil {
		t.Fatalf("ParseArgs blank = %v, %v", args, err)
	}
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	paths, err := ExpandPaths(`~/a.mp4 /tmp/../tmp/b.mp4`)
	if err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	if paths[0] != filepath.Join(home, "a.mp4") {
		t.Fatalf("paths[0] = %q", paths[0])
	}
	if paths[1] != "/tmp/b.mp4" {
		t.Fatalf("paths[1] = %q", paths[1])
	}
}

func TestIsVideoFile(t *testing.T) {
	cases := map[string]bool{
		"clip.mp4":  true,
		"CLIP.MOV":  true,
		"a.b.webm":  true,
		"notes.txt": false,
		"noext":     false,
	}
	for name, want := range cases {
		if got := IsVideoFile(name); got != want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestPathCompleterOffersDirsAndVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp4", "a.txt", ".hidden.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := NewPathCompleter(nil).Complete(dir + "/")
	want := []string{filepath.Join(dir, "sub") + "/", filepath.Join(dir, "b.mp4")}
	if len(got) != len(want) {
		t.Fatalf("Complete = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Complete[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathCompleterPrefix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"intro.mp4", "outro.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got := NewPathCompleter(nil).Complete(filepath.Join(dir, "IN"))
	if len(got) != 1 || got[0] != filepath.Join(dir, "intro.mp4") {
		t.Fatalf("Complete = %q", got)
	}
}
