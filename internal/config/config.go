package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all vibe-profile configuration.
type Config struct {
	DataDir string `toml:"data_dir"`

	Adoption AdoptionConfig `toml:"adoption"`
	Capture  CaptureConfig  `toml:"capture"`
	Archive  ArchiveConfig  `toml:"archive"`
	Logging  LoggingConfig  `toml:"logging"`

	// Source is the file the config was read from, empty for defaults.
	Source string `toml:"-"`
}

type AdoptionConfig struct {
	TimeoutSeconds       int `toml:"timeout_seconds"`
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"`
}

type CaptureConfig struct {
	DebounceMS int      `toml:"debounce_ms"`
	Extensions []string `toml:"extensions"`
	IgnoreDirs []string `toml:"ignore_dirs"`
}

type ArchiveConfig struct {
	Compress bool  `toml:"compress"`
	MaxBytes int64 `toml:"max_bytes"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir: "~/.local/share/vibe-profile",
		Adoption: AdoptionConfig{
			TimeoutSeconds:       60,
			SweepIntervalSeconds: 5,
		},
		Capture: CaptureConfig{
			DebounceMS: 750,
			Extensions: []string{
				".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".rs", ".java",
				".c", ".h", ".cpp", ".hpp", ".rb", ".sql", ".sh",
			},
			IgnoreDirs: []string{".git", "node_modules", "vendor", "target", "dist", "build", ".venv", "__pycache__"},
		},
		Archive: ArchiveConfig{
			Compress: true,
			MaxBytes: 10 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads config from path, or from the standard locations when path
// is empty, falling back to defaults. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Source = path
	} else {
		for _, p := range configPaths() {
			if _, err := os.Stat(p); err == nil {
				if _, err := toml.DecodeFile(p, &cfg); err != nil {
					return cfg, fmt.Errorf("parse config %s: %w", p, err)
				}
				cfg.Source = p
				break
			}
		}
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "vibe-profile", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "vibe-profile", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// LogPath returns the live event log path.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "events.jsonl")
}

// ArchiveDir returns the directory rotated logs are moved into.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.DataDir, "archive")
}

// SnapshotDB returns the profile snapshot database path.
func (c Config) SnapshotDB() string {
	return filepath.Join(c.DataDir, "profiles.db")
}

// AdoptionTimeout returns the pending-turn timeout, never below one second.
func (c Config) AdoptionTimeout() time.Duration {
	return seconds(c.Adoption.TimeoutSeconds)
}

// SweepInterval returns how often pending turns are checked for expiry.
func (c Config) SweepInterval() time.Duration {
	return seconds(c.Adoption.SweepIntervalSeconds)
}

// Debounce returns the watcher quiet period.
func (c Config) Debounce() time.Duration {
	if c.Capture.DebounceMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.Capture.DebounceMS) * time.Millisecond
}

func seconds(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	return time.Duration(n) * time.Second
}
