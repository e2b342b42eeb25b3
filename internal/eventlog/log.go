// Package eventlog is the append-only interaction store: one JSON event per
// line, with rotation into zstd-compressed archives.
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// ErrEmptyTask is returned when appending an event without a task id.
var ErrEmptyTask = errors.New("event has no task id")

// Log appends events to a single file. Appends are serialized.
type Log struct {
	mu   sync.Mutex
	path string
}

// Open returns a Log bound to path. The file is created on first append.
func Open(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes ev as one JSON line.
func (l *Log) Append(ev event.Event) error {
	if ev.TaskID == "" {
		return ErrEmptyTask
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append event: %w", err)
	}
	return f.Close()
}

// ReadAll reads every event currently in the log.
func (l *Log) ReadAll() (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ParseFile(l.path)
}

// Size returns the log size in bytes, 0 if it does not exist yet.
func (l *Log) Size() (int64, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("stat event log: %w", err)
	}
	return info.Size(), nil
}
