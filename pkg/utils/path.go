// Package utils provides path and argument helpers shared by the TUI and CLI.
package utils

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const maxSuggestions = 10

// VideoExtensions lists the file extensions offered for upload.
var VideoExtensions = []string{".mp4", ".mov", ".mkv", ".avi", ".webm", ".m4v", ".mpg", ".mpeg"}

// startDirs are offered for an empty input.
var startDirs = []string{"~/", "~/Videos/", "~/Movies/", "~/Downloads/", "~/Desktop/", "/"}

// IsVideoFile reports whether name has a known video extension.
func IsVideoFile(name string) bool {
	return slices.Contains(VideoExtensions, strings.ToLower(filepath.Ext(name)))
}

// PathCompleter suggests directories and video files for a partial path.
type PathCompleter struct {
	recent []string
	home   string
}

// NewPathCompleter creates a completer. recent directories are offered first
// for an empty input.
func NewPathCompleter(recent []string) *PathCompleter {
	home, _ := os.UserHomeDir()
	return &PathCompleter{recent: recent, home: home}
}

// Complete returns at most ten suggestions for input, directories first.
func (c *PathCompleter) Complete(input string) []string {
	if input == "" {
		return c.starts()
	}

	full := c.expand(input)
	dir, prefix := filepath.Split(full)
	if strings.HasSuffix(input, "/") || strings.HasSuffix(input, string(filepath.Separator)) {
		dir, prefix = full, ""
	}
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return c.recentMatching(input)
	}

	var dirs, clips []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			continue
		}
		p := filepath.Join(dir, name)
		if strings.HasPrefix(input, "~") {
			p = c.tildify(p)
		}
		switch {
		case e.IsDir():
			dirs = append(dirs, p+"/")
		case IsVideoFile(name):
			clips = append(clips, p)
		}
	}
	slices.Sort(dirs)
	slices.Sort(clips)

	out := append(dirs, clips...)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// starts lists up to five recent directories followed by the usual places.
func (c *PathCompleter) starts() []string {
	var out []string
	for i := len(c.recent) - 1; i >= 0 && len(out) < 5; i-- {
		p := c.tildify(c.recent[i])
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
		out = append(out, p)
	}
	for _, p := range startDirs {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func (c *PathCompleter) recentMatching(input string) []string {
	full := c.expand(input)
	var out []string
	for _, p := range c.recent {
		if strings.HasPrefix(p, full) || strings.HasPrefix(p, input) {
			out = append(out, c.tildify(p))
		}
	}
	return out
}

func (c *PathCompleter) expand(p string) string {
	if strings.HasPrefix(p, "~") && c.home != "" {
		return c.home + p[1:]
	}
	return p
}

// tildify shortens paths under the home directory to ~/...
func (c *PathCompleter) tildify(p string) string {
	if c.home != "" && strings.HasPrefix(p, c.home) {
		return "~" + strings.TrimPrefix(p, c.home)
	}
	return p
}

// ExpandPath expands a leading ~ and cleans the path.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(path)
}

// ExpandPaths splits a quoted path list and expands each entry.
func ExpandPaths(input string) ([]string, error) {
	args, err := ParseArgs(input)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(args))
	for i, a := range args {
		paths[i] = ExpandPath(a)
	}
	return paths, nil
}
