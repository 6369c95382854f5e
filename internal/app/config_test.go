package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(EnvServiceURL, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServiceURL != "http://localhost:5000" {
		t.Fatalf("service url = %q", cfg.ServiceURL)
	}
	if cfg.OverlayUpload != "multipart" || !cfg.Notification.Desktop {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadConfigMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := `{"service_url": "media-box:5000/api", "overlay_upload": "json", "log_level": "warn"}`
	if err := os.WriteFile(ConfigPath(dir), []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvServiceURL, "")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServiceURL != "http://media-box:5000" {
		t.Fatalf("service url = %q", cfg.ServiceURL)
	}
	if cfg.OverlayUpload != "json" {
		t.Fatalf("overlay upload = %q", cfg.OverlayUpload)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q, want env override", cfg.LogLevel)
	}
	if cfg.RequestTimeoutSeconds != 1800 {
		t.Fatalf("timeout default lost: %d", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadConfigRejectsBadUpload(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(ConfigPath(dir), []byte(`{"overlay_upload":"ftp"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvServiceURL, "")
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	t.Setenv(EnvServiceURL, "")
	t.Setenv(EnvLogLevel, "")

	cfg := DefaultConfig()
	cfg.ServiceURL = "https://render.example.com"
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.ServiceURL != cfg.ServiceURL {
		t.Fatalf("service url = %q", loaded.ServiceURL)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"localhost:5000":              "http://localhost:5000",
		"http://localhost:5000/":      "http://localhost:5000",
		"https://x.example/a/b?q=1#f": "https://x.example",
	}
	for in, want := range cases {
		got, err := NormalizeBaseURL(in)
		if err != nil {
			t.Fatalf("NormalizeBaseURL(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := NormalizeBaseURL("  "); err == nil {
		t.Fatal("empty url accepted")
	}
}

func TestInstanceLock(t *testing.T) {
	dir := t.TempDir()
	first, err := AcquireInstanceLock(dir)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	defer first.Release()

	if _, err := AcquireInstanceLock(dir); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second lock err = %v, want ErrAlreadyRunning", err)
	}
}
