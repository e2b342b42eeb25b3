package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var archivePattern = regexp.MustCompile(`^events-(\d{8}T\d{6}Z)(-\d+)?\.jsonl(\.zst)?$`)

// ArchiveFile represents a rotated event log on disk.
type ArchiveFile struct {
	Path       string
	Stamp      string // UTC rotation stamp from the filename
	Compressed bool
	Size       int64
}

// Archives returns the rotated logs directly under dir, oldest first.
// Stamps sort lexically, so name order is rotation order. A missing dir
// yields no archives.
func Archives(dir string) ([]ArchiveFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var results []ArchiveFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := archivePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		results = append(results, ArchiveFile{
			Path:       filepath.Join(dir, e.Name()),
			Stamp:      m[1],
			Compressed: m[3] != "",
			Size:       size,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return archiveKey(results[i].Path) < archiveKey(results[j].Path)
	})
	return results, nil
}

// archiveKey orders events-X.jsonl before events-X-1.jsonl.
func archiveKey(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".zst")
	return strings.TrimSuffix(name, ".jsonl")
}

// Dirs walks root and returns every directory not named in ignore,
// root first. Ignored directories are not descended into.
func Dirs(root string, ignore map[string]bool) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignore[d.Name()] {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

var transcriptPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.jsonl$`)

// TranscriptFile is a Claude Code session transcript on disk.
type TranscriptFile struct {
	Path      string
	SessionID string // UUID from the filename
	ModTime   time.Time
}

// Transcripts walks root for UUID-named transcripts, oldest first.
// Subagent transcripts are skipped: their turns belong to the parent
// session. A root that is itself a transcript file is returned alone.
func Transcripts(root string) ([]TranscriptFile, error) {
	var results []TranscriptFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if !transcriptPattern.MatchString(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		results = append(results, TranscriptFile{
			Path:      path,
			SessionID: strings.TrimSuffix(d.Name(), ".jsonl"),
			ModTime:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover transcripts: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ModTime.Before(results[j].ModTime)
	})
	return results, nil
}
