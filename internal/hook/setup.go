package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/vibe-profile/internal/config"
)

const hookCommand = "vp hook"

// hookEvents are the Claude Code events vp records.
var hookEvents = []string{"UserPromptSubmit", "Stop", "PostToolUse", "SessionEnd"}

// SettingsPath returns the path to ~/.claude/settings.json.
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// Install registers vp hook for every recorded event. Returns the settings
// path and whether anything changed.
func Install() (string, bool, error) {
	return edit(func(hooks map[string]any) bool {
		changed := false
		for _, ev := range hookEvents {
			if eventHasCommand(hooks, ev) {
				continue
			}
			entries, _ := hooks[ev].([]any)
			hooks[ev] = append(entries, map[string]any{
				"matcher": "",
				"hooks": []any{
					map[string]any{"type": "command", "command": hookCommand},
				},
			})
			changed = true
		}
		return changed
	})
}

// Uninstall removes every vp hook entry, keeping other tools' hooks.
func Uninstall() (string, bool, error) {
	return edit(func(hooks map[string]any) bool {
		changed := false
		for _, ev := range hookEvents {
			entries, ok := hooks[ev].([]any)
			if !ok {
				continue
			}
			var kept []any
			for _, entry := range entries {
				if entryHasCommand(entry) {
					changed = true
					continue
				}
				kept = append(kept, entry)
			}
			if len(kept) == 0 {
				delete(hooks, ev)
			} else {
				hooks[ev] = kept
			}
		}
		return changed
	})
}

// Installed reports whether every recorded event carries a vp hook.
func Installed() (bool, error) {
	path, err := SettingsPath()
	if err != nil {
		return false, err
	}
	settings, err := readSettings(path)
	if err != nil {
		return false, err
	}
	hooks, _ := settings["hooks"].(map[string]any)
	for _, ev := range hookEvents {
		if !eventHasCommand(hooks, ev) {
			return false, nil
		}
	}
	return true, nil
}

// edit applies fn to the settings hooks map and writes the file back,
// with a backup, only when fn reports a change.
func edit(fn func(hooks map[string]any) bool) (string, bool, error) {
	path, err := SettingsPath()
	if err != nil {
		return "", false, err
	}
	settings, err := readSettings(path)
	if err != nil {
		return path, false, err
	}

	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		hooks = make(map[string]any)
	}
	if !fn(hooks) {
		return path, false, nil
	}
	if len(hooks) == 0 {
		delete(settings, "hooks")
	} else {
		settings["hooks"] = hooks
	}

	if err := backup(path); err != nil {
		return path, false, err
	}
	if err := writeSettings(path, settings); err != nil {
		return path, false, err
	}
	return path, true, nil
}

// readSettings returns an empty map for a missing or blank file.
func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", config.CompressHome(path), err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return make(map[string]any), nil
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", config.CompressHome(path), err)
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", config.CompressHome(path), err)
	}
	return nil
}

// backup copies the settings file to path.vp.bak. No-op if it doesn't exist.
func backup(path string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", config.CompressHome(path), err)
	}
	defer src.Close()

	dst, err := os.Create(path + ".vp.bak")
	if err != nil {
		return fmt.Errorf("backup: create %s.vp.bak: %w", config.CompressHome(path), err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("backup: copy: %w", err)
	}
	return nil
}

func eventHasCommand(hooks map[string]any, ev string) bool {
	entries, _ := hooks[ev].([]any)
	for _, entry := range entries {
		if entryHasCommand(entry) {
			return true
		}
	}
	return false
}

// entryHasCommand looks for hookCommand in an entry's nested hooks array.
func entryHasCommand(entry any) bool {
	m, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	inner, _ := m["hooks"].([]any)
	for _, h := range inner {
		hm, ok := h.(map[string]any)
		if !ok {
			continue
		}
		if cmd, _ := hm["command"].(string); strings.Contains(cmd, hookCommand) {
			return true
		}
	}
	return false
}
