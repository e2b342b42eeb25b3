package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// Result holds the events read from a log and how many lines were dropped.
type Result struct {
	Events  []event.Event
	Skipped int
}

// ParseFile reads a newline-delimited event log. Files ending in .zst are
// decompressed on the fly. A missing file is an empty log.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Result{}, nil
		}
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		return Parse(dec)
	}
	return Parse(f)
}

// Parse reads events from r. Blank lines, lines that are not JSON objects
// and records without an event type or task id are skipped rather than
// failing the whole log.
func Parse(r io.Reader) (*Result, error) {
	res := &Result{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024) // 10MB max line

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ev, ok := decodeEvent([]byte(line))
		if !ok {
			res.Skipped++
			continue
		}

		res.Events = append(res.Events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan event log: %w", err)
	}
	return res, nil
}

// decodeEvent decodes one record field by field. A malformed optional
// field keeps its zero value instead of dropping the record.
func decodeEvent(line []byte) (event.Event, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return event.Event{}, false
	}

	var ev event.Event
	if !field(fields, "event_type", &ev.Type) || ev.Type == "" {
		return event.Event{}, false
	}
	if !field(fields, "task_id", &ev.TaskID) || ev.TaskID == "" {
		return event.Event{}, false
	}

	field(fields, "timestamp", &ev.Timestamp)
	field(fields, "role", &ev.Role)
	field(fields, "category", &ev.Category)
	field(fields, "content_length", &ev.ContentLength)
	field(fields, "has_code", &ev.HasCode)
	field(fields, "language_hint", &ev.LanguageHint)
	field(fields, "suggestion_type", &ev.SuggestionType)
	field(fields, "tools_used", &ev.ToolsUsed)
	field(fields, "file_path", &ev.FilePath)
	field(fields, "delta_chars", &ev.DeltaChars)
	field(fields, "adoption_status", &ev.AdoptionStatus)

	// Only conversational events have a turn; elsewhere an absent or
	// unreadable index means none.
	if !field(fields, "turn_index", &ev.TurnIndex) && !ev.IsConversational() {
		ev.TurnIndex = event.NoTurn
	}
	return ev, true
}

// field decodes fields[key] into dst and reports whether it was present
// and well-formed. dst is left untouched otherwise.
func field[T any](fields map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}

// NextTurnIndex returns the turn index the next conversational event of
// taskID should carry, given the events already logged.
func NextTurnIndex(events []event.Event, taskID string) int {
	next := 0
	for _, e := range events {
		if e.TaskID == taskID && e.IsConversational() && e.TurnIndex >= next {
			next = e.TurnIndex + 1
		}
	}
	return next
}
