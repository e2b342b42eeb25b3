package transcript

import "time"

// Entry represents a single line in a Claude Code JSONL transcript.
type Entry struct {
	Type       string    `json:"type"`
	UUID       string    `json:"uuid"`
	ParentUUID string    `json:"parentUuid"`
	SessionID  string    `json:"sessionId"`
	Timestamp  time.Time `json:"timestamp"`
	CWD        string    `json:"cwd"`

	Message *Message `json:"message,omitempty"`

	// IsMeta marks system-injected messages (e.g., CLAUDE.md, context
	// reminders) the student did not type.
	IsMeta bool `json:"isMeta,omitempty"`
}

// Message is the inner message object on user/assistant entries.
type Message struct {
	Role    string `json:"role"`
	ID      string `json:"id,omitempty"`
	Content any    `json:"content"` // string or []ContentBlock
}

// ContentBlock represents one block in a content array.
type ContentBlock struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	ID        string `json:"id,omitempty"`          // tool_use id
	Name      string `json:"name,omitempty"`        // tool name
	Input     any    `json:"input,omitempty"`       // tool input
	ToolUseID string `json:"tool_use_id,omitempty"` // tool_result
}

// Transcript holds the conversation entries of one session.
type Transcript struct {
	Entries []Entry

	SessionID string
	CWD       string
	Start     time.Time
	End       time.Time

	UserMessages      int
	AssistantMessages int
	ToolUses          int
}
