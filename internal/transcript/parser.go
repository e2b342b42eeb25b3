// Package transcript reads Claude Code session transcripts and turns them
// into the hook inputs the session would have produced live, so past
// sessions can be imported into the event log.
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFile reads and parses a Claude Code JSONL transcript file.
func ParseFile(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a JSONL transcript from a reader. Unparseable lines and
// non-conversation entries are skipped.
func Parse(r io.Reader) (*Transcript, error) {
	tr := &Transcript{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Type != "user" && entry.Type != "assistant" {
			continue
		}
		tr.add(entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return tr, nil
}

func (tr *Transcript) add(e Entry) {
	tr.Entries = append(tr.Entries, e)

	if !e.Timestamp.IsZero() {
		if tr.Start.IsZero() || e.Timestamp.Before(tr.Start) {
			tr.Start = e.Timestamp
		}
		if e.Timestamp.After(tr.End) {
			tr.End = e.Timestamp
		}
	}
	if tr.SessionID == "" {
		tr.SessionID = e.SessionID
	}
	if tr.CWD == "" {
		tr.CWD = e.CWD
	}

	if e.Message == nil {
		return
	}
	switch e.Message.Role {
	case "user":
		if !e.IsMeta && !IsToolResult(e.Message) {
			tr.UserMessages++
		}
	case "assistant":
		tr.AssistantMessages++
		tr.ToolUses += len(ToolUses(e.Message))
	}
}

// ContentBlocks extracts typed content blocks from a message.
// Handles both string content and array content.
func ContentBlocks(msg *Message) []ContentBlock {
	if msg == nil {
		return nil
	}

	switch c := msg.Content.(type) {
	case string:
		return []ContentBlock{{Type: "text", Text: c}}
	case []any:
		var blocks []ContentBlock
		for _, item := range c {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			b, err := json.Marshal(m)
			if err != nil {
				continue
			}
			var block ContentBlock
			if err := json.Unmarshal(b, &block); err != nil {
				continue
			}
			blocks = append(blocks, block)
		}
		return blocks
	}
	return nil
}

// TextContent joins the text blocks of a message.
func TextContent(msg *Message) string {
	var parts []string
	for _, b := range ContentBlocks(msg) {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolUses extracts all tool_use blocks from a message.
func ToolUses(msg *Message) []ContentBlock {
	var tools []ContentBlock
	for _, b := range ContentBlocks(msg) {
		if b.Type == "tool_use" {
			tools = append(tools, b)
		}
	}
	return tools
}

// IsToolResult reports whether a user-role message carries tool output
// rather than something the student typed.
func IsToolResult(msg *Message) bool {
	for _, b := range ContentBlocks(msg) {
		if b.Type == "tool_result" {
			return true
		}
	}
	return false
}
