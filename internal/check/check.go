package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/suykerbuyk/vibe-profile/internal/config"
	"github.com/suykerbuyk/vibe-profile/internal/discover"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
	"github.com/suykerbuyk/vibe-profile/internal/snapshot"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "vp check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("vp check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports where configuration came from. Broken TOML never
// gets here: loading fails first.
func CheckConfig(cfg config.Config) Result {
	if cfg.Source == "" {
		return Result{Name: "config", Status: Pass, Detail: "defaults (no config.toml; run vp init)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(cfg.Source)}
}

// CheckDataDir checks that the data directory exists and is writable.
func CheckDataDir(dir string) Result {
	info, err := os.Stat(dir)
	if err != nil {
		return Result{Name: "data", Status: Warn, Detail: config.CompressHome(dir) + " not found (created on first event)"}
	}
	if !info.IsDir() {
		return Result{Name: "data", Status: Fail, Detail: config.CompressHome(dir) + " is not a directory"}
	}
	probe, err := os.CreateTemp(dir, ".vp-check-*")
	if err != nil {
		return Result{Name: "data", Status: Fail, Detail: config.CompressHome(dir) + " not writable"}
	}
	probe.Close()
	os.Remove(probe.Name())
	return Result{Name: "data", Status: Pass, Detail: config.CompressHome(dir)}
}

// CheckEventLog parses the live log and reports its size and damage.
func CheckEventLog(path string, maxBytes int64) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: "events", Status: Warn, Detail: "no events recorded yet"}
	}
	res, err := eventlog.ParseFile(path)
	if err != nil {
		return Result{Name: "events", Status: Fail, Detail: err.Error()}
	}

	detail := fmt.Sprintf("%s (%d events, %d tasks)", filepath.Base(path), len(res.Events), len(eventlog.Tasks(res.Events)))
	switch {
	case res.Skipped > 0:
		return Result{Name: "events", Status: Warn, Detail: fmt.Sprintf("%s, %d unreadable lines skipped", detail, res.Skipped)}
	case maxBytes > 0 && info.Size() > maxBytes:
		return Result{Name: "events", Status: Warn, Detail: detail + ", over size limit (run vp archive)"}
	default:
		return Result{Name: "events", Status: Pass, Detail: detail}
	}
}

// CheckArchive counts rotated logs.
func CheckArchive(dir string) Result {
	archives, err := discover.Archives(dir)
	if err != nil {
		return Result{Name: "archive", Status: Fail, Detail: err.Error()}
	}
	if len(archives) == 0 {
		return Result{Name: "archive", Status: Pass, Detail: "no archives yet"}
	}
	var total int64
	for _, a := range archives {
		total += a.Size
	}
	return Result{Name: "archive", Status: Pass, Detail: fmt.Sprintf("%d archives, %d KB", len(archives), total/1024)}
}

// CheckSnapshots opens the snapshot database, if present, and counts rows.
func CheckSnapshots(ctx context.Context, path string) Result {
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "snapshots", Status: Pass, Detail: "none saved yet"}
	}
	store, err := snapshot.Open(path)
	if err != nil {
		return Result{Name: "snapshots", Status: Fail, Detail: err.Error()}
	}
	defer store.Close()

	list, err := store.List(ctx, 0)
	if err != nil {
		return Result{Name: "snapshots", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "snapshots", Status: Pass, Detail: fmt.Sprintf("%s (%d saved)", filepath.Base(path), len(list))}
}

// CheckWorkspace verifies the workspace root can be watched.
func CheckWorkspace(root string) Result {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Result{Name: "workspace", Status: Fail, Detail: "fs notifications unavailable: " + err.Error()}
	}
	defer w.Close()
	if err := w.Add(root); err != nil {
		return Result{Name: "workspace", Status: Warn, Detail: config.CompressHome(root) + " not watchable: " + err.Error()}
	}
	return Result{Name: "workspace", Status: Pass, Detail: config.CompressHome(root)}
}

// CheckHook checks whether "vp hook" is configured in ~/.claude/settings.json.
func CheckHook() Result {
	home, err := os.UserHomeDir()
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: "cannot determine home directory"}
	}
	return checkHookFile(filepath.Join(home, ".claude", "settings.json"))
}

func checkHookFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: config.CompressHome(path) + " not found (vp watch only)"}
	}
	if strings.Contains(string(data), "vp hook") {
		return Result{Name: "hook", Status: Pass, Detail: "vp hook found in " + config.CompressHome(path)}
	}
	return Result{Name: "hook", Status: Warn, Detail: "vp hook not found in " + config.CompressHome(path) + " (run vp hook install)"}
}

// Run executes all checks against cfg, using workspace as the watch root.
func Run(ctx context.Context, cfg config.Config, workspace string) Report {
	return Report{Results: []Result{
		CheckConfig(cfg),
		CheckDataDir(cfg.DataDir),
		CheckEventLog(cfg.LogPath(), cfg.Archive.MaxBytes),
		CheckArchive(cfg.ArchiveDir()),
		CheckSnapshots(ctx, cfg.SnapshotDB()),
		CheckWorkspace(workspace),
		CheckHook(),
	}}
}
