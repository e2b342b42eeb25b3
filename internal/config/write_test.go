package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestWriteDefault_CreatesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, action, err := WriteDefault("/srv/vp-data")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	if action != "created" {
		t.Errorf("action = %q, want %q", action, "created")
	}

	want := filepath.Join(dir, "vibe-profile", "config.toml")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	content := string(data)
	for _, s := range []string{`data_dir = "/srv/vp-data"`, "[adoption]", "[capture]", "[archive]", "[logging]"} {
		if !strings.Contains(content, s) {
			t.Errorf("config missing %q", s)
		}
	}

	// The written file must decode back to the defaults.
	cfg := Config{}
	if _, err := toml.Decode(content, &cfg); err != nil {
		t.Fatalf("decode written config: %v", err)
	}
	def := DefaultConfig()
	if cfg.Adoption != def.Adoption || cfg.Archive != def.Archive || cfg.Logging != def.Logging {
		t.Errorf("written config = %+v, want defaults", cfg)
	}
	if len(cfg.Capture.Extensions) != len(def.Capture.Extensions) {
		t.Errorf("extensions = %v", cfg.Capture.Extensions)
	}
}

func TestWriteDefault_UpdatesExistingDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "vibe-profile")
	os.MkdirAll(configDir, 0o755)

	existing := filepath.Join(configDir, "config.toml")
	os.WriteFile(existing, []byte("data_dir = \"~/old\"\n\n[adoption]\ntimeout_seconds = 15\n"), 0o644)

	path, action, err := WriteDefault("/new/data")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if action != "updated" {
		t.Errorf("action = %q, want %q", action, "updated")
	}
	if path != existing {
		t.Errorf("path = %q, want %q", path, existing)
	}

	data, _ := os.ReadFile(existing)
	content := string(data)
	if !strings.Contains(content, "/new/data") {
		t.Error("data_dir not updated")
	}
	if strings.Contains(content, "~/old") {
		t.Error("old data_dir still present")
	}
	if !strings.Contains(content, "timeout_seconds = 15") {
		t.Error("adoption section was lost")
	}
}

func TestWriteDefault_UnchangedExisting(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "vibe-profile")
	os.MkdirAll(configDir, 0o755)

	existing := filepath.Join(configDir, "config.toml")
	original := "data_dir = \"/some/path\"\n\n[logging]\nlevel = \"warn\"\n"
	os.WriteFile(existing, []byte(original), 0o644)

	_, action, err := WriteDefault("/some/path")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if action != "unchanged" {
		t.Errorf("action = %q, want %q", action, "unchanged")
	}

	data, _ := os.ReadFile(existing)
	if string(data) != original {
		t.Error("file was modified when it should have been unchanged")
	}
}

func TestWriteDefault_MissingDataDirKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "vibe-profile")
	os.MkdirAll(configDir, 0o755)

	existing := filepath.Join(configDir, "config.toml")
	os.WriteFile(existing, []byte("[archive]\ncompress = false\n"), 0o644)

	_, action, err := WriteDefault("/my/data")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if action != "updated" {
		t.Errorf("action = %q, want %q", action, "updated")
	}

	data, _ := os.ReadFile(existing)
	content := string(data)
	if !strings.HasPrefix(content, `data_dir = "/my/data"`) {
		t.Error("data_dir not prepended")
	}
	if !strings.Contains(content, "compress = false") {
		t.Error("archive section was lost")
	}
}

func TestCompressHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	tests := []struct {
		input string
		want  string
	}{
		{home + "/.local/share/vibe-profile", "~/.local/share/vibe-profile"},
		{home + "/foo", "~/foo"},
		{"/tmp/other", "/tmp/other"},
		{home, "~"},
	}

	for _, tt := range tests {
		got := CompressHome(tt.input)
		if got != tt.want {
			t.Errorf("CompressHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
