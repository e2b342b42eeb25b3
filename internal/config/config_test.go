package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DataDir != "~/.local/share/vibe-profile" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Adoption.TimeoutSeconds != 60 {
		t.Errorf("Adoption.TimeoutSeconds = %d", cfg.Adoption.TimeoutSeconds)
	}
	if cfg.Adoption.SweepIntervalSeconds != 5 {
		t.Errorf("Adoption.SweepIntervalSeconds = %d", cfg.Adoption.SweepIntervalSeconds)
	}
	if cfg.Capture.DebounceMS != 750 {
		t.Errorf("Capture.DebounceMS = %d", cfg.Capture.DebounceMS)
	}
	if len(cfg.Capture.IgnoreDirs) == 0 || cfg.Capture.IgnoreDirs[0] != ".git" {
		t.Errorf("Capture.IgnoreDirs = %v", cfg.Capture.IgnoreDirs)
	}
	if !cfg.Archive.Compress {
		t.Error("Archive.Compress should default to true")
	}
	if cfg.Archive.MaxBytes != 10*1024*1024 {
		t.Errorf("Archive.MaxBytes = %d", cfg.Archive.MaxBytes)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.JSON {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_NoConfig(t *testing.T) {
	// Point XDG to an empty dir so no config file is found
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if strings.HasPrefix(cfg.DataDir, "~/") {
		t.Errorf("DataDir not expanded: %q", cfg.DataDir)
	}
	if !strings.HasSuffix(cfg.DataDir, ".local/share/vibe-profile") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty for defaults", cfg.Source)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "vibe-profile")
	os.MkdirAll(configDir, 0o755)

	tomlContent := `data_dir = "/custom/data"

[adoption]
timeout_seconds = 30

[capture]
extensions = [".go"]

[archive]
compress = false

[logging]
level = "debug"
json = true
`
	path := filepath.Join(configDir, "config.toml")
	os.WriteFile(path, []byte(tomlContent), 0o644)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Adoption.TimeoutSeconds != 30 {
		t.Errorf("Adoption.TimeoutSeconds = %d", cfg.Adoption.TimeoutSeconds)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Adoption.SweepIntervalSeconds != 5 {
		t.Errorf("Adoption.SweepIntervalSeconds = %d", cfg.Adoption.SweepIntervalSeconds)
	}
	if len(cfg.Capture.Extensions) != 1 {
		t.Errorf("Capture.Extensions = %v", cfg.Capture.Extensions)
	}
	if cfg.Archive.Compress {
		t.Error("Archive.Compress should be false")
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "alt.toml")
	os.WriteFile(path, []byte(`data_dir = "/explicit"`), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/explicit" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	configDir := filepath.Join(xdg, "vibe-profile")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`data_dir = "~/vp-data"`), 0o644)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := filepath.Join(home, "vp-data")
	if cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
}

func TestLoad_XDGPriority(t *testing.T) {
	xdg := t.TempDir()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", home)

	xdgDir := filepath.Join(xdg, "vibe-profile")
	os.MkdirAll(xdgDir, 0o755)
	os.WriteFile(filepath.Join(xdgDir, "config.toml"), []byte(`data_dir = "/from-xdg"`), 0o644)

	homeDir := filepath.Join(home, ".config", "vibe-profile")
	os.MkdirAll(homeDir, 0o755)
	os.WriteFile(filepath.Join(homeDir, "config.toml"), []byte(`data_dir = "/from-home"`), 0o644)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != "/from-xdg" {
		t.Errorf("DataDir = %q, want /from-xdg (XDG should take priority)", cfg.DataDir)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "vibe-profile")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`data_dir = [broken`), 0o644)

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Config{DataDir: "/data/vp"}

	if got := cfg.LogPath(); got != "/data/vp/events.jsonl" {
		t.Errorf("LogPath = %q", got)
	}
	if got := cfg.ArchiveDir(); got != "/data/vp/archive" {
		t.Errorf("ArchiveDir = %q", got)
	}
	if got := cfg.SnapshotDB(); got != "/data/vp/profiles.db" {
		t.Errorf("SnapshotDB = %q", got)
	}
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.AdoptionTimeout(); got != 60*time.Second {
		t.Errorf("AdoptionTimeout = %v", got)
	}
	if got := cfg.SweepInterval(); got != 5*time.Second {
		t.Errorf("SweepInterval = %v", got)
	}
	if got := cfg.Debounce(); got != 750*time.Millisecond {
		t.Errorf("Debounce = %v", got)
	}

	cfg.Adoption.TimeoutSeconds = 0
	cfg.Capture.DebounceMS = -1
	if got := cfg.AdoptionTimeout(); got != time.Second {
		t.Errorf("AdoptionTimeout floor = %v", got)
	}
	if got := cfg.Debounce(); got != 100*time.Millisecond {
		t.Errorf("Debounce floor = %v", got)
	}
}
