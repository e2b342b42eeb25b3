package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suykerbuyk/vibe-profile/internal/event"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
)

// sandbox points HOME and XDG_CONFIG_HOME at a fresh directory and returns
// the data dir vp will use.
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return filepath.Join(home, ".local", "share", "vibe-profile")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

const (
	promptJSON    = `{"session_id":"s1","hook_event_name":"UserPromptSubmit","prompt":"Why does this function panic with a nil pointer error?"}`
	assistantJSON = `{"session_id":"s1","hook_event_name":"Stop","last_assistant_message":"The map is nil. Fix:\n` + "```go\\nm := make(map[string]int)\\nm[k] = v\\n```" + `"}`
	editJSON      = `{"session_id":"s1","hook_event_name":"PostToolUse","tool_name":"Edit","tool_input":{"file_path":"/src/main.go","old_string":"x","new_string":"xyz"}}`
)

func TestVersion(t *testing.T) {
	sandbox(t)
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "vp dev (vibe-profile)\n", out)
}

func TestHelp(t *testing.T) {
	sandbox(t)

	out, err := run(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "vp profile [--format X]")

	out, err = run(t, "", "help", "trends")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "vp trends - show learning style trends over time\n"), out)

	out, err = run(t, "", "hook", "install", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage: vp hook install")
}

func TestHookThenProfile(t *testing.T) {
	dataDir := sandbox(t)

	for _, payload := range []string{promptJSON, assistantJSON, editJSON} {
		_, err := run(t, payload, "hook")
		require.NoError(t, err)
	}

	res, err := eventlog.ParseFile(filepath.Join(dataDir, "events.jsonl"))
	require.NoError(t, err)
	require.Len(t, res.Events, 4)
	assert.Equal(t, event.KindTaskStart, res.Events[0].Type)
	assert.Equal(t, event.KindTurnMessage, res.Events[1].Type)
	assert.Equal(t, 1, res.Events[1].TurnIndex)
	assert.Equal(t, event.KindCodeEdit, res.Events[2].Type)
	assert.Equal(t, 2, res.Events[2].DeltaChars)
	assert.Equal(t, event.KindFileSave, res.Events[3].Type)

	out, err := run(t, "", "profile", "--format", "json")
	require.NoError(t, err)
	var p map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.EqualValues(t, 1, p["total_tasks"])
	assert.EqualValues(t, 2, p["total_interactions"])
	assert.EqualValues(t, 4, p["total_events"])
	assert.Contains(t, p, "learning_style")

	out, err = run(t, "", "profile", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "total_tasks: 1")

	out, err = run(t, "", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Learning Style")
}

func TestHookRejectsBadInput(t *testing.T) {
	sandbox(t)
	_, err := run(t, `{"hook_event_name":"Stop"}`, "hook")
	assert.Error(t, err)
}

func TestProfile_LogOverrideAndFilter(t *testing.T) {
	sandbox(t)
	logPath := filepath.Join(t.TempDir(), "alt.jsonl")
	l := eventlog.Open(logPath)
	old := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, l.Append(event.NewFileSave(old, "a", "a.go", "go")))
	require.NoError(t, l.Append(event.NewFileSave(recent, "b", "b.go", "go")))

	out, err := run(t, "", "--log", logPath, "profile", "--format", "json", "--since", "2026-02-01")
	require.NoError(t, err)
	var p map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.EqualValues(t, 1, p["total_events"])

	_, err = run(t, "", "profile", "--since", "last tuesday")
	assert.Error(t, err)

	_, err = run(t, "", "--log", logPath, "profile", "--format", "xml")
	assert.Error(t, err)
}

func TestProfileSaveAndHistory(t *testing.T) {
	sandbox(t)
	_, err := run(t, promptJSON, "hook")
	require.NoError(t, err)

	out, err := run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots saved")

	_, err = run(t, "", "profile", "--save")
	require.NoError(t, err)
	_, err = run(t, "", "profile", "--save", "--format", "json")
	require.NoError(t, err)

	out, err = run(t, "", "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, out)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))

	id := strings.Fields(lines[1])[0]
	out, err = run(t, "", "history", "--show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "snapshot "+id)
	assert.Contains(t, out, "vp profile")

	out, err = run(t, "", "history", "--prune", "1")
	require.NoError(t, err)
	assert.Equal(t, "pruned 1 snapshots\n", out)

	_, err = run(t, "", "history", "--show", "zzzz")
	assert.Error(t, err)
}

func TestTrends(t *testing.T) {
	sandbox(t)
	for _, payload := range []string{promptJSON, assistantJSON} {
		_, err := run(t, payload, "hook")
		require.NoError(t, err)
	}

	out, err := run(t, "", "trends", "--format", "json")
	require.NoError(t, err)
	var r map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.EqualValues(t, 2, r["total_events"])

	_, err = run(t, "", "trends", "--format", "csv")
	assert.Error(t, err)
}

func TestArchive(t *testing.T) {
	dataDir := sandbox(t)

	out, err := run(t, "", "archive")
	require.NoError(t, err)
	assert.Equal(t, "nothing to archive\n", out)

	_, err = run(t, promptJSON, "hook")
	require.NoError(t, err)

	out, err = run(t, "", "archive")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "archived "), out)
	_, statErr := os.Stat(filepath.Join(dataDir, "events.jsonl"))
	assert.True(t, os.IsNotExist(statErr))

	// Archived events still count.
	out, err = run(t, "", "profile", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_tasks": 1`)
}

func TestInitAndCheck(t *testing.T) {
	sandbox(t)
	dataDir := t.TempDir()

	out, err := run(t, "", "init", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "created "), out)

	out, err = run(t, "", "init", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "unchanged "), out)

	out, err = run(t, "", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "vp check")
	assert.Contains(t, out, "0 failure")
}

func TestHookInstallUninstall(t *testing.T) {
	sandbox(t)

	out, err := run(t, "", "hook", "install")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "installed vp hooks"), out)

	out, err = run(t, "", "hook", "install")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "vp hooks already installed"), out)

	out, err = run(t, "", "hook", "uninstall")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "removed vp hooks"), out)
}

func TestWatch_StdinOnly(t *testing.T) {
	dataDir := sandbox(t)
	workspace := t.TempDir()

	stdin := promptJSON + "\n" + assistantJSON + "\n"
	_, err := run(t, stdin, "watch", "--dir", workspace)
	require.NoError(t, err)

	res, err := eventlog.ParseFile(filepath.Join(dataDir, "events.jsonl"))
	require.NoError(t, err)
	var kinds []event.Kind
	for _, e := range res.Events {
		kinds = append(kinds, e.Type)
	}
	// The pending assistant turn is judged when input ends.
	assert.Equal(t, []event.Kind{event.KindTaskStart, event.KindTurnMessage, event.KindAdoptionInferred}, kinds)
}

const sessionTranscript = `{"type":"user","timestamp":"2026-02-22T10:00:00Z","sessionId":"SID","cwd":"/src","message":{"role":"user","content":"Why does this function panic with a nil pointer error?"}}
{"type":"assistant","timestamp":"2026-02-22T10:00:05Z","sessionId":"SID","message":{"role":"assistant","content":[{"type":"text","text":"The map is nil. Fix:\n` + "```go\\nm := make(map[string]int)\\n```" + `"},{"type":"tool_use","id":"t1","name":"Edit","input":{"file_path":"/src/main.go","old_string":"x","new_string":"xyz"}}]}}
{"type":"user","timestamp":"2026-02-22T10:00:06Z","sessionId":"SID","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"ok"}]}}
{"type":"user","timestamp":"2026-02-22T10:00:30Z","sessionId":"SID","message":{"role":"user","content":"How do closures capture variables in Go?"}}
{"type":"assistant","timestamp":"2026-02-22T10:00:35Z","sessionId":"SID","message":{"role":"assistant","content":[{"type":"text","text":"A closure keeps a reference to each variable it uses."}]}}
`

func writeTranscript(t *testing.T, dir, sessionID string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, sessionID+".jsonl")
	content := strings.ReplaceAll(sessionTranscript, "SID", sessionID)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImport_DefaultProjectsDir(t *testing.T) {
	dataDir := sandbox(t)
	home := os.Getenv("HOME")
	const sid = "0b8c7a52-3f1e-4d2a-9c6b-1e2f3a4b5c6d"
	writeTranscript(t, filepath.Join(home, ".claude", "projects", "-src"), sid)

	out, err := run(t, "", "import")
	require.NoError(t, err)
	assert.Equal(t, "imported 1 sessions (8 events), skipped 0\n", out)

	res, err := eventlog.ParseFile(filepath.Join(dataDir, "events.jsonl"))
	require.NoError(t, err)
	require.Len(t, res.Events, 8)
	assert.Equal(t, event.KindTaskStart, res.Events[0].Type)
	assert.Equal(t, sid, res.Events[0].TaskID)
	assert.True(t, res.Events[0].Timestamp.Equal(time.Date(2026, 2, 22, 10, 0, 0, 0, time.UTC)),
		"events carry transcript time, got %v", res.Events[0].Timestamp)

	// A second import finds the session already recorded.
	out, err = run(t, "", "import")
	require.NoError(t, err)
	assert.Equal(t, "imported 0 sessions (0 events), skipped 1\n", out)
}

func TestImport_SkipsHookRecordedSession(t *testing.T) {
	sandbox(t)
	_, err := run(t, promptJSON, "hook")
	require.NoError(t, err)

	path := writeTranscript(t, t.TempDir(), "s1")
	out, err := run(t, "", "import", path)
	require.NoError(t, err)
	assert.Equal(t, "imported 0 sessions (0 events), skipped 1\n", out)
}

func TestImport_MissingPath(t *testing.T) {
	sandbox(t)
	_, err := run(t, "", "import", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"2026-03-02", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), false},
		{"2026-03-02T10:30:00Z", time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), false},
		{"03/02/2026", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDate(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
