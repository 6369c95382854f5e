package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/app"
	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/preview"
	"github.com/lazyvibe/vidjob/internal/state"
	"github.com/lazyvibe/vidjob/internal/testsupport"
	"github.com/lazyvibe/vidjob/internal/ui/styles"
)

func newTestApp(t *testing.T) (*App, *testsupport.Service) {
	t.Helper()
	svc := testsupport.NewService(t)
	client, err := api.New(api.Options{BaseURL: svc.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	server := preview.NewServer("127.0.0.1:0", nil)
	if err := server.Start(); err != nil {
		t.Fatalf("preview start: %v", err)
	}
	t.Cleanup(func() { server.Close() })

	store := state.New(state.Initial(model.ThemeLight), nil, nil)
	session := jobs.NewSession(store, client, preview.NewManager(server, nil), nil, nil)
	t.Cleanup(session.Close)

	cfg := app.DefaultConfig()
	cfg.Notification.Desktop = false
	cfg.DownloadDir = t.TempDir()

	a := New(Options{Session: session, Downloader: client, Config: cfg})
	t.Cleanup(a.Close)
	t.Cleanup(func() { styles.Use(model.ThemeLight) })

	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, svc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func writeClip(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("clip "+name), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestThemeToggleRestyles(t *testing.T) {
	a, _ := newTestApp(t)

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	if a.st.Theme != model.ThemeDark {
		t.Fatalf("theme = %q, want dark", a.st.Theme)
	}
	if styles.Current() != model.ThemeDark || styles.Background != styles.Mocha.Base {
		t.Fatalf("styles not switched to dark")
	}
}

func TestSidebarToggleMovesFocus(t *testing.T) {
	a, _ := newTestApp(t)
	a.focus = FocusSidebar
	a.updateFocusStyles()

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlB})

	if a.st.SidebarOpen {
		t.Fatal("sidebar still open")
	}
	if a.focus != FocusFiles {
		t.Fatalf("focus = %d, want files", a.focus)
	}
	if strings.Contains(a.View(), "Features") {
		t.Fatal("closed sidebar still rendered")
	}
}

func TestOverlayKeysUpdateSpec(t *testing.T) {
	a, _ := newTestApp(t)
	a.dispatch(state.SetSelectedFeature{Feature: model.FeatureOverlay})
	if a.focus != FocusOverlay {
		t.Fatalf("focus = %d, want overlay", a.focus)
	}

	a.Update(runes("j"))
	a.Update(runes("h"))
	a.Update(runes("+"))
	a.Update(runes("u"))

	o := a.st.Overlay
	if o.Position != model.PositionCenter {
		t.Fatalf("position = %s, want center", o.Position)
	}
	if o.Size != model.DefaultOverlaySize+5 {
		t.Fatalf("size = %d", o.Size)
	}
	if !o.MuteAudio {
		t.Fatal("mute not toggled")
	}
}

func TestCombineFlowSetsDownloadLink(t *testing.T) {
	a, svc := newTestApp(t)

	msg := AddFiles(a.session, []string{writeClip(t, "a.mp4"), writeClip(t, "b.mp4")}, time.Second)()
	a.Update(msg)
	a.sync()
	if len(a.st.Files) != 2 {
		t.Fatalf("files = %d, want 2", len(a.st.Files))
	}
	if a.st.VideoParams.Width != 1920 {
		t.Fatalf("probe not merged: %+v", a.st.VideoParams)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.st.SelectedFile == nil || a.preview.URL() == "" {
		t.Fatal("enter did not select the file under the cursor")
	}

	a.dispatch(state.SetDescription{Description: "holiday"})
	_, cmd := a.Update(runes("s"))
	if cmd == nil || !a.busy {
		t.Fatal("submit did not start a job")
	}
	a.Update(SubmitJob(a.session, model.FeatureCombine, time.Second)())
	a.sync()

	if a.busy {
		t.Fatal("still busy after the job finished")
	}
	if !strings.HasSuffix(a.st.DownloadLink, "/download/out123.mp4") {
		t.Fatalf("link = %q", a.st.DownloadLink)
	}
	if svc.Count("/combine") != 1 {
		t.Fatalf("combine requests = %d", svc.Count("/combine"))
	}
}

func TestSubmitWithoutDescriptionShowsValidation(t *testing.T) {
	a, svc := newTestApp(t)
	a.Update(AddFiles(a.session, []string{writeClip(t, "a.mp4")}, time.Second)())

	a.busy = true
	a.Update(SubmitJob(a.session, model.FeatureCombine, time.Second)())

	msg, isErr := a.statusBar.Message()
	if !isErr || msg != "description is required" {
		t.Fatalf("status = %q (error %v)", msg, isErr)
	}
	if svc.Count("/combine") != 0 {
		t.Fatal("request sent despite validation failure")
	}
}

func TestAddFilesSkipsUnreadablePaths(t *testing.T) {
	a, svc := newTestApp(t)
	missing := filepath.Join(t.TempDir(), "gone.mp4")

	msg := AddFiles(a.session, []string{writeClip(t, "a.mp4"), missing, writeClip(t, "b.mp4")}, time.Second)()
	added, ok := msg.(FilesAddedMsg)
	if !ok {
		t.Fatalf("msg = %#v", msg)
	}
	if added.Count != 2 || len(added.Skipped) != 1 || added.Err != nil {
		t.Fatalf("msg = %+v, want 2 added and 1 skipped", added)
	}

	a.Update(added)
	a.sync()
	if got := model.Names(a.st.Files); len(got) != 2 || got[0] != "a.mp4" || got[1] != "b.mp4" {
		t.Fatalf("files = %v", got)
	}
	if svc.Count("/evaluate") != 1 {
		t.Fatalf("evaluate requests = %d, want 1", svc.Count("/evaluate"))
	}
	status, isErr := a.statusBar.Message()
	if !isErr || !strings.Contains(status, "Added 2 file(s)") || !strings.Contains(status, "gone.mp4") {
		t.Fatalf("status = %q (error %v)", status, isErr)
	}
}

func TestAddFilesAllUnreadable(t *testing.T) {
	a, svc := newTestApp(t)

	msg := AddFiles(a.session, []string{filepath.Join(t.TempDir(), "gone.mp4")}, time.Second)()
	a.Update(msg)
	a.sync()
	if len(a.st.Files) != 0 {
		t.Fatalf("files = %d, want 0", len(a.st.Files))
	}
	if n := svc.Count("/evaluate"); n != 0 {
		t.Fatalf("evaluate requests = %d, want none", n)
	}
	if status, isErr := a.statusBar.Message(); !isErr || !strings.HasPrefix(status, "skipped 1") {
		t.Fatalf("status = %q (error %v)", status, isErr)
	}
}

func TestDownloadSavesArtifact(t *testing.T) {
	a, svc := newTestApp(t)
	svc.AddArtifact("out123.mp4", []byte("rendered"))
	a.dispatch(state.SetDownloadLink{URL: svc.URL + "/download/out123.mp4"})

	msg := Download(a.downloader, a.st.DownloadLink, a.config.DownloadDir)()
	done, ok := msg.(DownloadedMsg)
	if !ok || done.Err != nil {
		t.Fatalf("msg = %#v", msg)
	}
	if done.Path != filepath.Join(a.config.DownloadDir, "out123.mp4") || done.Bytes != 8 {
		t.Fatalf("saved %q (%d bytes)", done.Path, done.Bytes)
	}
}

func TestParamsPatch(t *testing.T) {
	patch, err := paramsPatch([]string{"25/1", "1280", "", "libx265", ""})
	if err != nil {
		t.Fatalf("paramsPatch: %v", err)
	}
	got := model.DefaultVideoParams().Merge(patch)
	want := model.VideoParams{FrameRate: "25/1", Width: 1280, Codec: model.CodecH265, Bitrate: model.DefaultBitrate}
	if got != want {
		t.Fatalf("params = %+v, want %+v", got, want)
	}

	if _, err := paramsPatch([]string{"", "-1", "", "libx264", ""}); err == nil {
		t.Fatal("negative width accepted")
	}
	if _, err := paramsPatch([]string{"", "", "", "vp9", ""}); err == nil {
		t.Fatal("unknown codec accepted")
	}
	if err := validateBitrate("2M"); err != nil {
		t.Fatalf("validateBitrate(2M): %v", err)
	}
	if err := validateBitrate("fast"); err == nil {
		t.Fatal("validateBitrate accepted garbage")
	}
}
