package hook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/classify"
	"github.com/suykerbuyk/vibe-profile/internal/event"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
)

var fixedNow = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

func testHandler(t *testing.T) (*Handler, *eventlog.Log) {
	t.Helper()
	log := eventlog.Open(filepath.Join(t.TempDir(), "events.jsonl"))
	return NewHandler(log, classify.New(), nil, func() time.Time { return fixedNow }), log
}

func TestHandle_Conversation(t *testing.T) {
	h, log := testHandler(t)

	inputs := []Input{
		{SessionID: "s1", HookEventName: "UserPromptSubmit", Prompt: "I get a TypeError, can you fix the bug?"},
		{SessionID: "s1", HookEventName: "Stop", LastAssistantMessage: "Here's the fix:\n```python\nx = int(y)\n```", ToolsUsed: []string{"Edit"}},
		{SessionID: "s1", HookEventName: "UserPromptSubmit", Prompt: "thanks, now explain what a closure is"},
	}
	for _, in := range inputs {
		if _, err := h.Handle(in); err != nil {
			t.Fatalf("Handle(%s): %v", in.HookEventName, err)
		}
	}

	res, err := log.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(res.Events))
	}

	start := res.Events[0]
	if start.Type != event.KindTaskStart || start.TurnIndex != 0 || start.Category != event.CategoryDebugging {
		t.Errorf("task start = %+v", start)
	}
	reply := res.Events[1]
	if reply.Role != event.RoleAssistant || reply.TurnIndex != 1 || !reply.HasCode {
		t.Errorf("assistant turn = %+v", reply)
	}
	if reply.SuggestionType != event.SuggestionFix || reply.LanguageHint != "python" {
		t.Errorf("assistant suggestion = %q lang = %q", reply.SuggestionType, reply.LanguageHint)
	}
	follow := res.Events[2]
	if follow.Type != event.KindTurnMessage || follow.Role != event.RoleUser || follow.TurnIndex != 2 {
		t.Errorf("follow-up = %+v", follow)
	}
	if !follow.Timestamp.Equal(fixedNow) {
		t.Errorf("Timestamp = %v", follow.Timestamp)
	}
}

func TestHandle_EditTool(t *testing.T) {
	h, _ := testHandler(t)
	evs, err := h.Handle(Input{
		SessionID:     "s1",
		HookEventName: "PostToolUse",
		ToolName:      "Edit",
		ToolInput: map[string]any{
			"file_path":  "/work/app/main.go",
			"old_string": "a",
			"new_string": "abcd",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 {
		t.Fatalf("events = %d, want 2", len(evs))
	}
	if evs[0].Type != event.KindCodeEdit || evs[0].DeltaChars != 3 || evs[0].LanguageHint != "go" {
		t.Errorf("edit = %+v", evs[0])
	}
	if evs[1].Type != event.KindFileSave || evs[1].TurnIndex != event.NoTurn {
		t.Errorf("save = %+v", evs[1])
	}
}

func TestHandle_IgnoredEvents(t *testing.T) {
	h, log := testHandler(t)
	for _, in := range []Input{
		{SessionID: "s1", HookEventName: "SessionEnd", Reason: "clear"},
		{SessionID: "s1", HookEventName: "SessionEnd"},
		{SessionID: "s1", HookEventName: "PostToolUse", ToolName: "Bash"},
		{SessionID: "s1", HookEventName: "Notification"},
	} {
		evs, err := h.Handle(in)
		if err != nil {
			t.Fatalf("Handle(%+v): %v", in, err)
		}
		if len(evs) != 0 {
			t.Errorf("Handle(%+v) produced %d events", in, len(evs))
		}
	}
	if size, _ := log.Size(); size != 0 {
		t.Errorf("log size = %d, want 0", size)
	}
}

func TestAction(t *testing.T) {
	tests := []struct {
		in   Input
		want Action
	}{
		{Input{HookEventName: "UserPromptSubmit", Prompt: "hi"}, ActionUserMessage},
		{Input{HookEventName: "UserPromptSubmit", Prompt: "  "}, ActionIgnore},
		{Input{HookEventName: "Stop"}, ActionAssistantMessage},
		{Input{HookEventName: "SubagentStop"}, ActionAssistantMessage},
		{Input{HookEventName: "SessionEnd"}, ActionEndTask},
		{Input{HookEventName: "SessionEnd", Reason: "clear"}, ActionIgnore},
		{Input{HookEventName: "PostToolUse", ToolName: "Write", ToolInput: map[string]any{"file_path": "x.go"}}, ActionEdit},
		{Input{HookEventName: "PostToolUse", ToolName: "Write"}, ActionIgnore},
		{Input{HookEventName: "PostToolUse", ToolName: "Read", ToolInput: map[string]any{"file_path": "x.go"}}, ActionIgnore},
		{Input{HookEventName: ""}, ActionIgnore},
	}
	for _, tt := range tests {
		if got := tt.in.Action(); got != tt.want {
			t.Errorf("Action(%+v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEditDelta(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want int
	}{
		{"write", Input{ToolName: "Write", ToolInput: map[string]any{"content": "hello"}}, 5},
		{"edit shrink", Input{ToolName: "Edit", ToolInput: map[string]any{"old_string": "hello", "new_string": "hi"}}, -3},
		{"multi", Input{ToolName: "MultiEdit", ToolInput: map[string]any{"edits": []any{
			map[string]any{"old_string": "a", "new_string": "abc"},
			map[string]any{"old_string": "xyz", "new_string": ""},
		}}}, -1},
		{"missing fields", Input{ToolName: "Edit"}, 0},
	}
	for _, tt := range tests {
		if got := tt.in.EditDelta(); got != tt.want {
			t.Errorf("%s: EditDelta = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	in, err := Decode([]byte(`{"session_id":"abc","hook_event_name":"UserPromptSubmit","prompt":"hi"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if in.SessionID != "abc" || in.Prompt != "hi" {
		t.Errorf("decoded = %+v", in)
	}

	in, err = Decode([]byte(`{"session_id":"abc","hook_event_name":"UserPromptSubmit","prompt":"<system-reminder>todo list</system-reminder>"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if in.Prompt != "" || in.Action() != ActionIgnore {
		t.Errorf("reminder-only prompt = %q, action %v", in.Prompt, in.Action())
	}

	if _, err := Decode([]byte(`{"hook_event_name":"Stop"}`)); err == nil {
		t.Error("expected error for missing session_id")
	}
	if _, err := Decode([]byte(`{broken`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestReadInput(t *testing.T) {
	in, err := ReadInput(strings.NewReader(`{"session_id":"abc","hook_event_name":"Stop"}`), time.Second)
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}
	if in.Action() != ActionAssistantMessage {
		t.Errorf("Action = %v", in.Action())
	}

	if _, err := ReadInput(strings.NewReader("  \n"), time.Second); err == nil {
		t.Error("expected error for empty stdin")
	}
}
