package model

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileEntry is a locally selected file.
// Entries are identified by ID; two entries for the same path stay distinct.
type FileEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// NewFileEntry stats path and returns a fresh entry for it.
func NewFileEntry(path string) (FileEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileEntry{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return FileEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return FileEntry{}, fmt.Errorf("%s is a directory", path)
	}
	return FileEntry{
		ID:   uuid.New().String(),
		Name: filepath.Base(abs),
		Path: abs,
		Size: info.Size(),
	}, nil
}

// Names returns the file names in list order.
func Names(files []FileEntry) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

// PreviewHandle is a revocable local reference to a selected file.
// The zero value means no handle.
type PreviewHandle struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// IsZero reports whether h is the empty handle.
func (h PreviewHandle) IsZero() bool {
	return h.ID == ""
}

// ProgressState tracks the running job.
type ProgressState struct {
	Percent              float64 `json:"percent"`
	EstimatedSecondsLeft float64 `json:"estimated_seconds_left"`
}

// FormatETA renders seconds as m:ss, truncating fractional seconds.
func FormatETA(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
