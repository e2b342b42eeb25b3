package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func settingsPath(home string) string {
	return filepath.Join(home, ".claude", "settings.json")
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func hasEvent(settings map[string]any, ev string) bool {
	hooks, _ := settings["hooks"].(map[string]any)
	return eventHasCommand(hooks, ev)
}

func TestInstall_NoFile(t *testing.T) {
	home := setupHome(t)

	path, changed, err := Install()
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Error("expected a change on first install")
	}
	if path != settingsPath(home) {
		t.Errorf("path = %q", path)
	}

	settings := readJSON(t, path)
	for _, ev := range hookEvents {
		if !hasEvent(settings, ev) {
			t.Errorf("missing %s hook", ev)
		}
	}
	if _, err := os.Stat(path + ".vp.bak"); !os.IsNotExist(err) {
		t.Error("no backup expected when there was no file")
	}
}

func TestInstall_PreservesOtherSettings(t *testing.T) {
	home := setupHome(t)
	other := map[string]any{
		"matcher": "",
		"hooks":   []any{map[string]any{"type": "command", "command": "other-tool run"}},
	}
	writeJSON(t, settingsPath(home), map[string]any{
		"model": "sonnet",
		"hooks": map[string]any{"Stop": []any{other}},
	})

	if _, _, err := Install(); err != nil {
		t.Fatalf("Install: %v", err)
	}

	settings := readJSON(t, settingsPath(home))
	if settings["model"] != "sonnet" {
		t.Error("unrelated setting lost")
	}
	stop := settings["hooks"].(map[string]any)["Stop"].([]any)
	if len(stop) != 2 {
		t.Errorf("Stop entries = %d, want 2", len(stop))
	}
	if _, err := os.Stat(settingsPath(home) + ".vp.bak"); err != nil {
		t.Errorf("backup missing: %v", err)
	}
}

func TestInstall_Idempotent(t *testing.T) {
	home := setupHome(t)
	if _, _, err := Install(); err != nil {
		t.Fatal(err)
	}
	_, changed, err := Install()
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("second install should not change anything")
	}

	settings := readJSON(t, settingsPath(home))
	for _, ev := range hookEvents {
		entries := settings["hooks"].(map[string]any)[ev].([]any)
		if len(entries) != 1 {
			t.Errorf("%s entries = %d, want 1", ev, len(entries))
		}
	}

	ok, err := Installed()
	if err != nil || !ok {
		t.Errorf("Installed = %v, %v", ok, err)
	}
}

func TestInstall_MalformedJSON(t *testing.T) {
	home := setupHome(t)
	path := settingsPath(home)
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("{not json"), 0o644)

	if _, _, err := Install(); err == nil {
		t.Fatal("expected error for malformed settings")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Error("malformed file should be left untouched")
	}
}

func TestUninstall_PreservesOtherHooks(t *testing.T) {
	home := setupHome(t)
	other := map[string]any{
		"matcher": "",
		"hooks":   []any{map[string]any{"type": "command", "command": "other-tool run"}},
	}
	writeJSON(t, settingsPath(home), map[string]any{
		"hooks": map[string]any{"Stop": []any{other}},
	})
	if _, _, err := Install(); err != nil {
		t.Fatal(err)
	}

	_, changed, err := Uninstall()
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if !changed {
		t.Error("expected uninstall to change settings")
	}

	settings := readJSON(t, settingsPath(home))
	hooks := settings["hooks"].(map[string]any)
	if len(hooks) != 1 {
		t.Errorf("hooks = %v, want only Stop", hooks)
	}
	if hasEvent(settings, "Stop") {
		t.Error("vp hook still present on Stop")
	}
}

func TestUninstall_CleansEmptyHooksMap(t *testing.T) {
	home := setupHome(t)
	writeJSON(t, settingsPath(home), map[string]any{"theme": "dark"})
	if _, _, err := Install(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Uninstall(); err != nil {
		t.Fatal(err)
	}

	settings := readJSON(t, settingsPath(home))
	if _, ok := settings["hooks"]; ok {
		t.Error("empty hooks map should be removed")
	}
	if settings["theme"] != "dark" {
		t.Error("unrelated setting lost")
	}
}

func TestUninstall_NotInstalled(t *testing.T) {
	home := setupHome(t)
	_, changed, err := Uninstall()
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if changed {
		t.Error("nothing to uninstall")
	}
	if _, err := os.Stat(settingsPath(home)); !os.IsNotExist(err) {
		t.Error("settings file should not be created")
	}
}
