package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lazyvibe/vidjob/internal/api"
)

// ErrNoDownload is returned when no job has produced a link yet.
var ErrNoDownload = errors.New("no finished job to download")

// Downloader fetches artifacts from the service.
type Downloader interface {
	Download(ctx context.Context, artifact string, w io.Writer) (int64, error)
}

// SaveDownload writes the artifact behind link into dir and returns the
// file path and its size. A partial file is removed on failure.
func SaveDownload(ctx context.Context, d Downloader, link, dir string) (string, int64, error) {
	if link == "" {
		return "", 0, ErrNoDownload
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create download dir: %w", err)
	}

	name := api.ArtifactName(link)
	dest := filepath.Join(dir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", dest, err)
	}

	n, err := d.Download(ctx, name, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", n, err
	}
	return dest, n, nil
}
