package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/testsupport"
)

func TestSaveDownloadWritesArtifact(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.AddArtifact("out123.mp4", []byte("rendered"))
	client, err := api.New(api.Options{BaseURL: svc.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "downloads")
	link := client.DownloadURL("/videos/processing/out123.mp4")
	dest, n, err := SaveDownload(context.Background(), client, link, dir)
	if err != nil {
		t.Fatalf("SaveDownload: %v", err)
	}
	if dest != filepath.Join(dir, "out123.mp4") || n != int64(len("rendered")) {
		t.Fatalf("dest = %q, n = %d", dest, n)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "rendered" {
		t.Fatalf("file = %q, %v", data, err)
	}
}

func TestSaveDownloadRemovesPartialFile(t *testing.T) {
	svc := testsupport.NewService(t)
	client, err := api.New(api.Options{BaseURL: svc.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	dir := t.TempDir()
	_, _, err = SaveDownload(context.Background(), client, client.DownloadURL("missing.mp4"), dir)
	var se *api.ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *api.ServiceError", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "missing.mp4")); !os.IsNotExist(statErr) {
		t.Fatalf("partial file left behind: %v", statErr)
	}
}

func TestSaveDownloadWithoutLink(t *testing.T) {
	if _, _, err := SaveDownload(context.Background(), nil, "", t.TempDir()); !errors.Is(err, ErrNoDownload) {
		t.Fatalf("err = %v, want ErrNoDownload", err)
	}
}
