package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/sanitize"
)

// Input is the JSON object an agent sends per hook invocation. The field
// names follow the Claude Code hook payload; other agents can emit the same
// shape.
type Input struct {
	SessionID            string         `json:"session_id"`
	HookEventName        string         `json:"hook_event_name"`
	CWD                  string         `json:"cwd,omitempty"`
	Prompt               string         `json:"prompt,omitempty"`
	LastAssistantMessage string         `json:"last_assistant_message,omitempty"`
	ToolName             string         `json:"tool_name,omitempty"`
	ToolInput            map[string]any `json:"tool_input,omitempty"`
	ToolsUsed            []string       `json:"tools_used,omitempty"`
	Reason               string         `json:"reason,omitempty"`
}

// Action is what an Input asks the recorder to do.
type Action int

const (
	ActionIgnore Action = iota
	ActionUserMessage
	ActionAssistantMessage
	ActionEdit
	ActionEndTask
)

func (a Action) String() string {
	switch a {
	case ActionUserMessage:
		return "user_message"
	case ActionAssistantMessage:
		return "assistant_message"
	case ActionEdit:
		return "edit"
	case ActionEndTask:
		return "end_task"
	default:
		return "ignore"
	}
}

// editTools are the agent tools that write files.
var editTools = map[string]bool{"Edit": true, "MultiEdit": true, "Write": true, "NotebookEdit": true}

// Action classifies the input by hook event name.
func (in Input) Action() Action {
	switch in.HookEventName {
	case "UserPromptSubmit":
		if strings.TrimSpace(in.Prompt) == "" {
			return ActionIgnore
		}
		return ActionUserMessage
	case "Stop", "SubagentStop":
		return ActionAssistantMessage
	case "PostToolUse":
		if editTools[in.ToolName] && in.EditPath() != "" {
			return ActionEdit
		}
		return ActionIgnore
	case "SessionEnd":
		if in.Reason == "clear" {
			return ActionIgnore
		}
		return ActionEndTask
	default:
		return ActionIgnore
	}
}

// EditPath returns the file an edit tool touched.
func (in Input) EditPath() string {
	for _, key := range []string{"file_path", "notebook_path", "path"} {
		if s, ok := in.ToolInput[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// EditDelta estimates the size change in characters of an edit tool call.
func (in Input) EditDelta() int {
	str := func(key string) string {
		s, _ := in.ToolInput[key].(string)
		return s
	}
	switch in.ToolName {
	case "Write":
		return len(str("content"))
	case "MultiEdit":
		edits, _ := in.ToolInput["edits"].([]any)
		var delta int
		for _, e := range edits {
			m, _ := e.(map[string]any)
			newS, _ := m["new_string"].(string)
			oldS, _ := m["old_string"].(string)
			delta += len(newS) - len(oldS)
		}
		return delta
	case "NotebookEdit":
		return len(str("new_source"))
	default:
		return len(str("new_string")) - len(str("old_string"))
	}
}

// Decode parses one hook payload. Message text is sanitized of injected
// markup; a prompt that was nothing but markup becomes empty and is ignored.
func Decode(data []byte) (Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse hook JSON: %w", err)
	}
	if strings.TrimSpace(in.SessionID) == "" {
		return in, fmt.Errorf("hook input has no session_id")
	}
	in.Prompt = sanitize.Message(in.Prompt)
	in.LastAssistantMessage = sanitize.Message(in.LastAssistantMessage)
	return in, nil
}

// ReadInput reads a whole payload from r, giving up after timeout.
func ReadInput(r io.Reader, timeout time.Duration) (Input, error) {
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(r)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	var data []byte
	select {
	case data = <-done:
	case err := <-errCh:
		return Input{}, err
	case <-time.After(timeout):
		return Input{}, fmt.Errorf("stdin read timeout")
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return Input{}, fmt.Errorf("empty stdin")
	}
	return Decode(data)
}
