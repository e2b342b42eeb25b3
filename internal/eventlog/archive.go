package eventlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/suykerbuyk/vibe-profile/internal/discover"
	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// Rotate moves the current log into archiveDir as
// events-{UTC stamp}.jsonl.zst (or .jsonl when compress is false) and
// starts a fresh log. Returns the archive path, or "" if the log was empty.
func (l *Log) Rotate(archiveDir string, compress bool, now time.Time) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("stat event log: %w", err)
	}
	if info.Size() == 0 {
		return "", nil
	}

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	destPath := ArchivePath(archiveDir, now, compress)

	if !compress {
		if err := os.Rename(l.path, destPath); err != nil {
			return "", fmt.Errorf("move event log: %w", err)
		}
		return destPath, nil
	}

	if err := compressFile(l.path, destPath); err != nil {
		os.Remove(destPath)
		return "", err
	}
	if err := os.Remove(l.path); err != nil {
		return "", fmt.Errorf("remove rotated log: %w", err)
	}
	return destPath, nil
}

func compressFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return dest.Sync()
}

// ArchivePath returns a free archive path for a rotation at now.
func ArchivePath(archiveDir string, now time.Time, compress bool) string {
	ext := ".jsonl"
	if compress {
		ext = ".jsonl.zst"
	}
	stamp := now.UTC().Format("20060102T150405Z")
	path := filepath.Join(archiveDir, "events-"+stamp+ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(archiveDir, fmt.Sprintf("events-%s-%d%s", stamp, i, ext))
	}
}

// ReadArchive reads one rotated log. Unlike ParseFile, a missing archive
// is an error.
func ReadArchive(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	return ParseFile(path)
}

// ReadHistory reads every archived log under archiveDir, oldest first,
// followed by the live log, so aggregation always sees the full history.
func ReadHistory(logPath, archiveDir string) (*Result, error) {
	archives, err := discover.Archives(archiveDir)
	if err != nil {
		return nil, fmt.Errorf("discover archives: %w", err)
	}

	total := &Result{}
	paths := make([]string, 0, len(archives)+1)
	for _, a := range archives {
		paths = append(paths, a.Path)
	}
	paths = append(paths, logPath)

	for _, p := range paths {
		res, err := ParseFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(p), err)
		}
		total.Events = append(total.Events, res.Events...)
		total.Skipped += res.Skipped
	}
	return total, nil
}

// Tasks returns the distinct task ids in events, in first-seen order.
func Tasks(events []event.Event) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range events {
		if e.TaskID != "" && !seen[e.TaskID] {
			seen[e.TaskID] = true
			ids = append(ids, e.TaskID)
		}
	}
	return ids
}
