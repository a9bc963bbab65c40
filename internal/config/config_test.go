package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytfetch/internal/config"
)

func TestLoadDefaultsExpandPathsAndEnvFallbacks(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("YTFETCH_DOWNLOAD_DIR", "")
	t.Setenv("YOUTUBE_COOKIES_PATH", "/tmp/jar.txt")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDownloads := filepath.Join(tempHome, ".local", "share", "ytfetch", "downloads")
	if cfg.Paths.DownloadDir != wantDownloads {
		t.Fatalf("unexpected download dir: got %q want %q", cfg.Paths.DownloadDir, wantDownloads)
	}
	if cfg.Cookies.File != "/tmp/jar.txt" {
		t.Fatalf("expected env cookie path to win, got %q", cfg.Cookies.File)
	}
	if cfg.Cookies.MinValid != 3 {
		t.Fatalf("unexpected min_valid: %d", cfg.Cookies.MinValid)
	}
	if cfg.Engine.Binary != "yt-dlp" {
		t.Fatalf("unexpected engine binary: %q", cfg.Engine.Binary)
	}
}

func TestLoadParsesFileAndOverridesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("YOUTUBE_COOKIES_PATH", "")

	path := filepath.Join(tempHome, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`download_dir = "` + filepath.Join(tempHome, "media") + `"`,
		`api_bind = "0.0.0.0:9000"`,
		"[engine]",
		`binary = "yt-dlp-nightly"`,
		"retries = 5",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be found, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.DownloadDir != filepath.Join(tempHome, "media") {
		t.Fatalf("unexpected download dir: %q", cfg.Paths.DownloadDir)
	}
	if cfg.Engine.Binary != "yt-dlp-nightly" || cfg.Engine.Retries != 5 {
		t.Fatalf("engine overrides not applied: %+v", cfg.Engine)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging format: %q", cfg.Logging.Format)
	}
	// Untouched sections keep defaults.
	if cfg.Engine.SleepInterval != 1 || cfg.Engine.MaxSleepInterval != 5 {
		t.Fatalf("unexpected sleep knobs: %+v", cfg.Engine)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported logging format")
	}

	if err := os.WriteFile(path, []byte("[paths]\napi_bind = \"not-an-address\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for malformed api_bind")
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[engine]") {
		t.Fatal("sample config missing [engine] section")
	}
}
