// Package app provides application-level configuration and initialization.
package app

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lazyvibe/vidjob/internal/model"
)

// Environment overrides.
const (
	EnvServiceURL = "VIDJOB_SERVICE_URL"
	EnvLogLevel   = "VIDJOB_LOG_LEVEL"
)

// Config holds the application configuration.
type Config struct {
	// Initialized is set once the first-run setup has been completed.
	Initialized bool `json:"initialized"`
	// ServiceURL is the root of the processing service.
	ServiceURL string `json:"service_url"`
	// RequestTimeoutSeconds bounds probe and submit calls. 0 disables it.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
	// OverlayUpload is "multipart" or "json".
	OverlayUpload string `json:"overlay_upload"`
	// PreviewAddr is where the local preview server listens.
	PreviewAddr string `json:"preview_addr"`
	// DownloadDir receives downloaded artifacts.
	DownloadDir string `json:"download_dir,omitempty"`
	// LogLevel is a zerolog level name.
	LogLevel string `json:"log_level"`
	// Notification configures job completion alerts.
	Notification model.NotificationConfig `json:"notification"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ServiceURL:            "http://localhost:5000",
		RequestTimeoutSeconds: 1800,
		OverlayUpload:         "multipart",
		PreviewAddr:           "127.0.0.1:0",
		LogLevel:              "info",
		Notification: model.NotificationConfig{
			Desktop: true,
		},
	}
}

// RequestTimeout returns the timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/vidjob or ~/.config/vidjob.
func DefaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vidjob"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vidjob"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath(configDir string) string {
	return filepath.Join(configDir, "config.json")
}

// LogPath returns the TUI log file location.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "vidjob.log")
}

// LoadConfig loads the configuration from disk, then applies environment
// overrides. A missing file yields the defaults.
func LoadConfig(configDir string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(ConfigPath(configDir))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ConfigPath(configDir), err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv(EnvServiceURL); v != "" {
		config.ServiceURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate normalises the service URL and checks enumerated fields.
func (c *Config) Validate() error {
	base, err := NormalizeBaseURL(c.ServiceURL)
	if err != nil {
		return err
	}
	c.ServiceURL = base

	switch c.OverlayUpload {
	case "", "multipart":
		c.OverlayUpload = "multipart"
	case "json":
	default:
		return fmt.Errorf("overlay_upload must be multipart or json, got %q", c.OverlayUpload)
	}
	if c.PreviewAddr == "" {
		c.PreviewAddr = "127.0.0.1:0"
	}
	return nil
}

// SaveConfig saves the configuration to disk.
func SaveConfig(configDir string, config *Config) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(configDir), data, 0644)
}

// NormalizeBaseURL accepts "host:port" or a full URL and returns
// scheme://host with no path, query or trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("service url is empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse service url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("service url %q has no host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
