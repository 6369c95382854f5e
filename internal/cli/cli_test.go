package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lazyvibe/vidjob/internal/testsupport"
)

// run executes the root command against svc with an isolated config dir.
func run(t *testing.T, svc *testsupport.Service, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	full := []string{"--config-dir", t.TempDir()}
	if svc != nil {
		full = append(full, "--service-url", svc.URL)
	}
	cmd.SetArgs(append(full, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeClip(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("clip "+name), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestCommandsRegistered checks every subcommand is wired with help text.
func TestCommandsRegistered(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"probe", "combine", "overlay", "progress", "download", "theme"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Fatalf("command %q not registered", name)
		}
		if cmd.Short == "" {
			t.Errorf("%s: Short description is empty", name)
		}
		if cmd.RunE == nil {
			t.Errorf("%s: RunE function is nil", name)
		}
	}
}

func TestProbePrintsStreams(t *testing.T) {
	svc := testsupport.NewService(t)
	clip := writeClip(t, "intro.mp4")

	out, _, err := run(t, svc, "probe", clip)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	for _, want := range []string{"intro.mp4", "h264", "1920x1080", "30/1", "aac"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCombineSubmitsAndPrintsLink(t *testing.T) {
	svc := testsupport.NewService(t)
	a := writeClip(t, "a.mp4")
	b := writeClip(t, "b.mp4")

	out, _, err := run(t, svc, "combine", a, b, "-d", "demo cut", "--audio", "--codec", "libx265", "--bitrate", "2M")
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if !strings.Contains(out, "/download/out123.mp4") {
		t.Errorf("output missing download link:\n%s", out)
	}

	req, ok := svc.Last("/combine")
	if !ok {
		t.Fatal("no combine request")
	}
	names, _ := req.JSON["file_names"].([]any)
	if len(names) != 2 || names[0] != "a.mp4" || names[1] != "b.mp4" {
		t.Errorf("file_names = %v", req.JSON["file_names"])
	}
	if req.JSON["include_audio"] != true {
		t.Errorf("include_audio = %v", req.JSON["include_audio"])
	}
	params, _ := req.JSON["video_params"].(map[string]any)
	if params["codec"] != "libx265" || params["bitrate"] != "2M" {
		t.Errorf("video_params = %v", params)
	}
	// Probed values fill what the flags left alone.
	if params["frameRate"] != "30/1" || params["width"] != float64(1920) {
		t.Errorf("probe not applied: %v", params)
	}
}

func TestCombineBlankDescriptionSendsNothing(t *testing.T) {
	svc := testsupport.NewService(t)
	a := writeClip(t, "a.mp4")

	_, _, err := run(t, svc, "combine", a, "-d", "   ")
	if err == nil || !strings.Contains(err.Error(), "description is required") {
		t.Fatalf("err = %v, want description validation", err)
	}
	if n := svc.Count("/combine"); n != 0 {
		t.Errorf("combine requests = %d, want 0", n)
	}
}

func TestCombineRejectsUnknownCodec(t *testing.T) {
	svc := testsupport.NewService(t)
	a := writeClip(t, "a.mp4")

	if _, _, err := run(t, svc, "combine", a, "-d", "x", "--codec", "vp9"); err == nil {
		t.Fatal("expected codec error")
	}
	if n := svc.Count("/evaluate"); n != 0 {
		t.Errorf("probe requests = %d, want 0", n)
	}
}

func TestCombineServiceErrorIsShown(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.Fail("/combine", testsupport.Failure{Status: 500, Message: "ffmpeg exploded"})
	a := writeClip(t, "a.mp4")

	_, _, err := run(t, svc, "combine", a, "-d", "x")
	if err == nil || !strings.Contains(err.Error(), "ffmpeg exploded") {
		t.Fatalf("err = %v", err)
	}
}

func TestOverlaySendsSettings(t *testing.T) {
	svc := testsupport.NewService(t)
	mainClip := writeClip(t, "talk.mp4")
	over := writeClip(t, "cam.mp4")

	out, _, err := run(t, svc, "overlay", mainClip, over, "--position", "bottom-right", "--size", "130", "--mute")
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if !strings.Contains(out, "out123.mp4") {
		t.Errorf("output missing link:\n%s", out)
	}

	req, ok := svc.Last("/overlay")
	if !ok {
		t.Fatal("no overlay request")
	}
	want := map[string]string{
		"main_video_filename":    "talk.mp4",
		"overlay_video_filename": "cam.mp4",
		"position":               "bottom-right",
		"size":                   "100",
		"mute_overlay_audio":     "true",
		"scale_overlay_time":     "false",
	}
	for k, v := range want {
		if req.Form[k] != v {
			t.Errorf("%s = %q, want %q", k, req.Form[k], v)
		}
	}
	if len(req.Uploads) != 2 {
		t.Errorf("uploads = %d, want 2", len(req.Uploads))
	}
}

func TestOverlayRejectsUnknownPosition(t *testing.T) {
	svc := testsupport.NewService(t)
	mainClip := writeClip(t, "talk.mp4")
	over := writeClip(t, "cam.mp4")

	if _, _, err := run(t, svc, "overlay", mainClip, over, "--position", "middle"); err == nil {
		t.Fatal("expected position error")
	}
	if n := svc.Count("/overlay"); n != 0 {
		t.Errorf("overlay requests = %d, want 0", n)
	}
}

func TestDownloadSavesArtifact(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.AddArtifact("out123.mp4", []byte("rendered"))
	dir := t.TempDir()

	out, _, err := run(t, svc, "download", svc.URL+"/download/out123.mp4", "-o", dir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out123.mp4"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "rendered" {
		t.Errorf("content = %q", data)
	}
	if !strings.Contains(out, "Saved") {
		t.Errorf("output = %q", out)
	}
}

func TestDownloadMissingArtifactLeavesNoFile(t *testing.T) {
	svc := testsupport.NewService(t)
	dir := t.TempDir()

	if _, _, err := run(t, svc, "download", "missing.mp4", "-o", dir); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(filepath.Join(dir, "missing.mp4")); !os.IsNotExist(err) {
		t.Errorf("partial file left behind: %v", err)
	}
}

func TestProgressUntilDone(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.SetProgressFrames([]string{
		`{"progress": 40, "estimated_time_left": 75}`,
		`{"progress": 100, "estimated_time_left": 0}`,
	}, 10*time.Millisecond, true)

	out, _, err := run(t, svc, "progress", "--until-done")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if !strings.Contains(out, "100%") {
		t.Errorf("output = %q", out)
	}
}

func TestThemeGetAndSet(t *testing.T) {
	dir := t.TempDir()
	exec := func(args ...string) string {
		t.Helper()
		var stdout bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--config-dir", dir}, args...))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return strings.TrimSpace(stdout.String())
	}

	if got := exec("theme"); got != "light" {
		t.Fatalf("default theme = %q", got)
	}
	exec("theme", "dark")
	if got := exec("theme"); got != "dark" {
		t.Fatalf("theme after set = %q", got)
	}
}

func TestThemeRejectsUnknown(t *testing.T) {
	if _, _, err := run(t, nil, "theme", "sepia"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}
