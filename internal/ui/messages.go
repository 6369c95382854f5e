// Package ui provides the terminal user interface for vidjob.
package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/notify"
)

// ---------- Store Messages ----------

// StoreChangedMsg is sent after one or more store transitions.
type StoreChangedMsg struct{}

// ---------- Flow Messages ----------

// FilesAddedMsg is sent when files were staged and the first one probed.
// Skipped holds one error per path that could not be read.
type FilesAddedMsg struct {
	Count   int
	Skipped []error
	Err     error
}

// OverlayFileChosenMsg is sent when a main or overlay clip was picked.
type OverlayFileChosenMsg struct {
	Target pickTarget
	File   model.FileEntry
	Err    error
}

// JobFinishedMsg is sent when a combine or overlay submission returns.
type JobFinishedMsg struct {
	Feature model.Feature
	Link    string
	Err     error
}

// ProgressStartedMsg is sent once the progress stream was opened.
type ProgressStartedMsg struct {
	Err error
}

// DownloadedMsg is sent when the artifact has been saved locally.
type DownloadedMsg struct {
	Path  string
	Bytes int64
	Err   error
}

// PreviewOpenedMsg is sent after the external player was launched.
type PreviewOpenedMsg struct {
	Err error
}

// clearStatusMsg clears the status message it was scheduled for.
type clearStatusMsg struct {
	seq int
}

// ---------- Command Functions ----------

// WaitForChange returns a command that blocks until the store notifies.
// The subscription coalesces, so a burst of transitions yields one message.
func WaitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

// AddFiles stages the readable files at paths and probes the first of them.
// Unreadable paths are skipped and reported without dropping the rest.
func AddFiles(s *jobs.Session, paths []string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		var msg FilesAddedMsg
		files := make([]model.FileEntry, 0, len(paths))
		for _, p := range paths {
			f, err := model.NewFileEntry(p)
			if err != nil {
				msg.Skipped = append(msg.Skipped, err)
				continue
			}
			files = append(files, f)
		}
		if len(files) == 0 {
			return msg
		}
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		msg.Count = len(files)
		msg.Err = s.AddFiles(ctx, files)
		return msg
	}
}

// ChooseOverlayFile resolves path into an entry for the overlay view.
func ChooseOverlayFile(target pickTarget, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := model.NewFileEntry(path)
		return OverlayFileChosenMsg{Target: target, File: f, Err: err}
	}
}

// SubmitJob runs the flow of feature.
func SubmitJob(s *jobs.Session, feature model.Feature, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		var (
			link string
			err  error
		)
		switch feature {
		case model.FeatureOverlay:
			link, err = s.Overlay(ctx)
		default:
			link, err = s.Combine(ctx)
		}
		return JobFinishedMsg{Feature: feature, Link: link, Err: err}
	}
}

// StartProgress opens the live progress subscription.
func StartProgress(s *jobs.Session) tea.Cmd {
	return func() tea.Msg {
		return ProgressStartedMsg{Err: s.StartProgress(context.Background())}
	}
}

// Download saves the finished artifact into dir.
func Download(d jobs.Downloader, link, dir string) tea.Cmd {
	return func() tea.Msg {
		path, n, err := jobs.SaveDownload(context.Background(), d, link, dir)
		return DownloadedMsg{Path: path, Bytes: n, Err: err}
	}
}

// OpenPreview hands url to the desktop's default handler.
func OpenPreview(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		if err := cmd.Start(); err != nil {
			return PreviewOpenedMsg{Err: fmt.Errorf("open preview: %w", err)}
		}
		go func() { _ = cmd.Wait() }()
		return PreviewOpenedMsg{}
	}
}

// Notify delivers event without blocking the UI.
func Notify(d *notify.Dispatcher, cfg model.NotificationConfig, event notify.Event) tea.Cmd {
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		d.Dispatch(ctx, cfg, event)
		return nil
	}
}

func clearStatusAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}
