package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatETA(t *testing.T) {
	cases := map[float64]string{
		0:     "0:00",
		5:     "0:05",
		55:    "0:55",
		61:    "1:01",
		600:   "10:00",
		-4:    "0:00",
		119.6: "1:59",
		59.99: "0:59",
	}
	for in, want := range cases {
		if got := FormatETA(in); got != want {
			t.Errorf("FormatETA(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCodecNextWraps(t *testing.T) {
	if got := CodecMPEG4.Next(); got != CodecH264 {
		t.Fatalf("Next(mpeg4) = %q", got)
	}
	if got := Codec("vp9").Next(); got != CodecH264 {
		t.Fatalf("Next(vp9) = %q", got)
	}
}

func TestParsers(t *testing.T) {
	if _, err := ParsePosition("center"); err != nil {
		t.Fatalf("ParsePosition(center): %v", err)
	}
	if _, err := ParsePosition("middle"); err == nil {
		t.Fatal("ParsePosition(middle) should fail")
	}
	if _, err := ParseCodec("libx265"); err != nil {
		t.Fatalf("ParseCodec: %v", err)
	}
	if _, err := ParseTheme("sepia"); err == nil {
		t.Fatal("ParseTheme(sepia) should fail")
	}
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Fatal("Toggle")
	}
}

func TestClampOverlaySize(t *testing.T) {
	for in, want := range map[int]int{0: 10, 10: 10, 55: 55, 100: 100, 101: 100} {
		if got := ClampOverlaySize(in); got != want {
			t.Errorf("ClampOverlaySize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestNewFileEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("0123456789"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	a, err := NewFileEntry(path)
	if err != nil {
		t.Fatalf("NewFileEntry: %v", err)
	}
	b, err := NewFileEntry(path)
	if err != nil {
		t.Fatalf("NewFileEntry: %v", err)
	}
	if a.Name != "clip.mp4" || a.Size != 10 {
		t.Fatalf("entry = %+v", a)
	}
	if a.ID == b.ID {
		t.Fatal("entries for the same path must stay distinct")
	}

	if _, err := NewFileEntry(dir); err == nil {
		t.Fatal("directory accepted")
	}
	if _, err := NewFileEntry(filepath.Join(dir, "missing.mp4")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestMergeKeepsUntouchedFields(t *testing.T) {
	v := DefaultVideoParams().Merge(VideoParamsPatch{Width: Ptr(640)})
	if v.Width != 640 || v.Codec != CodecH264 || v.Bitrate != DefaultBitrate {
		t.Fatalf("merged = %+v", v)
	}
	if !(VideoParamsPatch{}).IsEmpty() {
		t.Fatal("empty patch not empty")
	}
}
