package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ConfigDir returns the vibe-profile config directory path.
// Uses $XDG_CONFIG_HOME/vibe-profile if set, otherwise ~/.config/vibe-profile.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vibe-profile")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vibe-profile")
}

var dataDirLine = regexp.MustCompile(`(?m)^data_dir\s*=.*$`)

// WriteDefault writes a default config.toml pointing at dataDir.
// If the file exists, only its data_dir line is rewritten and every other
// section is kept. Returns the path and one of "created", "updated",
// "unchanged".
func WriteDefault(dataDir string) (string, string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")
	line := fmt.Sprintf("data_dir = %q", CompressHome(dataDir))

	if data, err := os.ReadFile(path); err == nil {
		content := string(data)
		var updated string
		if dataDirLine.MatchString(content) {
			updated = dataDirLine.ReplaceAllLiteralString(content, line)
		} else {
			updated = line + "\n\n" + content
		}
		if updated == content {
			return path, "unchanged", nil
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return "", "", fmt.Errorf("write config: %w", err)
		}
		return path, "updated", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create config dir: %w", err)
	}

	content := line + `

[adoption]
# seconds an assistant turn may stay pending before it is judged on behavior alone
timeout_seconds = 60
sweep_interval_seconds = 5

[capture]
debounce_ms = 750
extensions = [".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".rs", ".java", ".c", ".h", ".cpp", ".hpp", ".rb", ".sql", ".sh"]
ignore_dirs = [".git", "node_modules", "vendor", "target", "dist", "build", ".venv", "__pycache__"]

[archive]
compress = true
# rotate the live log once it grows past this many bytes
max_bytes = 10485760

[logging]
level = "info"
json = false
`

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", "", fmt.Errorf("write config: %w", err)
	}

	return path, "created", nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
