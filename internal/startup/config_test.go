package startup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/instances"
)

// configEnvKeys are cleared before each Load test so the host environment
// cannot leak in.
var configEnvKeys = []string{
	"CONFIG_FILE", "PORT", "SCRATCH_DIR", "YTDLP_PATH", "FETCH_MODE",
	"MAX_ATTEMPTS", "BACKOFF_UNIT", "MIRROR_DELAY", "SLEEP_REQUESTS",
	"AUDIO_QUALITY", "INSTANCE_DIRECTORY_URL", "INSTANCE_DIRECTORY_TIMEOUT",
	"METRICS_ENABLED", "LOG_HEALTH_CHECKS",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.FetchMode != "direct" {
		t.Errorf("FetchMode = %q, want direct", cfg.FetchMode)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.BackoffUnit != time.Second || cfg.MirrorDelay != time.Second {
		t.Errorf("BackoffUnit/MirrorDelay = %v/%v, want 1s/1s", cfg.BackoffUnit, cfg.MirrorDelay)
	}
	if cfg.InstanceDirectoryURL != instances.DefaultEndpoint {
		t.Errorf("InstanceDirectoryURL = %q", cfg.InstanceDirectoryURL)
	}
	if cfg.ScratchDir != os.TempDir() {
		t.Errorf("ScratchDir = %q, want %q", cfg.ScratchDir, os.TempDir())
	}
	if !cfg.MetricsEnabled || !cfg.LogHealthChecks {
		t.Error("metrics and health check logging should default on")
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", cfg.ConfigFile)
	}
}

func TestLoadEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("FETCH_MODE", "mirror")
	t.Setenv("MAX_ATTEMPTS", "5")
	t.Setenv("BACKOFF_UNIT", "250ms")
	t.Setenv("SLEEP_REQUESTS", "2s")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.BackoffUnit != 250*time.Millisecond {
		t.Errorf("BackoffUnit = %v, want 250ms", cfg.BackoffUnit)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled should be false")
	}

	dl := cfg.Downloader()
	if dl.Mode != downloader.ModeMirror {
		t.Errorf("Downloader().Mode = %q, want mirror", dl.Mode)
	}
	if dl.SleepRequests != 2*time.Second {
		t.Errorf("Downloader().SleepRequests = %v, want 2s", dl.SleepRequests)
	}
	if dl.ScratchRoot != cfg.ScratchDir {
		t.Errorf("Downloader().ScratchRoot = %q, want %q", dl.ScratchRoot, cfg.ScratchDir)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BACKOFF_UNIT", "soon")
	t.Setenv("MAX_ATTEMPTS", "many")
	t.Setenv("METRICS_ENABLED", "perhaps")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.BackoffUnit != time.Second {
		t.Errorf("BackoffUnit = %v, want default 1s", cfg.BackoffUnit)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want default 3", cfg.MaxAttempts)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should keep its default")
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "media-fetcher.toml")
	content := `
port = "7000"
fetch_mode = "mirror"
max_attempts = 4
mirror_delay = "3s"
instance_directory_url = "https://directory.example/instances.json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_ATTEMPTS", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
	if cfg.Port != "7000" {
		t.Errorf("Port = %q, want 7000 from file", cfg.Port)
	}
	if cfg.FetchMode != "mirror" {
		t.Errorf("FetchMode = %q, want mirror from file", cfg.FetchMode)
	}
	if cfg.MirrorDelay != 3*time.Second {
		t.Errorf("MirrorDelay = %v, want 3s from file", cfg.MirrorDelay)
	}
	if cfg.MaxAttempts != 6 {
		t.Errorf("MaxAttempts = %d, want 6 (environment wins)", cfg.MaxAttempts)
	}
	if cfg.BackoffUnit != time.Second {
		t.Errorf("BackoffUnit = %v, want default 1s", cfg.BackoffUnit)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.toml"))

		if _, err := Load(); err == nil {
			t.Fatal("Load() should fail for a missing config file")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		clearConfigEnv(t)
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("port = [unclosed"), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("CONFIG_FILE", path)

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "parsing config") {
			t.Fatalf("Load() error = %v, want parse error", err)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "mirror mode", modify: func(c *Config) { c.FetchMode = "mirror" }},
		{name: "unknown mode", modify: func(c *Config) { c.FetchMode = "proxy" }, wantErr: true},
		{name: "zero attempts", modify: func(c *Config) { c.MaxAttempts = 0 }, wantErr: true},
		{name: "bad port", modify: func(c *Config) { c.Port = "http" }, wantErr: true},
		{name: "port out of range", modify: func(c *Config) { c.Port = "70000" }, wantErr: true},
		{name: "negative backoff", modify: func(c *Config) { c.BackoffUnit = -time.Second }, wantErr: true},
		{name: "zero directory timeout", modify: func(c *Config) { c.InstanceDirectoryTimeout = 0 }, wantErr: true},
		{name: "bad directory URL", modify: func(c *Config) { c.InstanceDirectoryURL = "ftp://x" }, wantErr: true},
		{name: "empty engine path", modify: func(c *Config) { c.YtDlpPath = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigCreatesScratchDir(t *testing.T) {
	clearConfigEnv(t)
	dir := filepath.Join(t.TempDir(), "nested", "scratch")
	t.Setenv("SCRATCH_DIR", dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if cfg.ScratchDir != dir {
		t.Errorf("ScratchDir = %q, want %q", cfg.ScratchDir, dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("scratch directory not created: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("write test left files behind: %v", entries)
	}
}

func TestLoadConfigScratchIsFile(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCRATCH_DIR", path)

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() should fail when SCRATCH_DIR is a file")
	}
}
