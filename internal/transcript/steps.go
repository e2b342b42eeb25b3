package transcript

import (
	"strings"
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/hook"
	"github.com/suykerbuyk/vibe-profile/internal/sanitize"
)

// Step is one hook input at the moment it would have fired.
type Step struct {
	Time  time.Time
	Input hook.Input
}

// Steps converts a transcript into the hook inputs Claude Code would have
// delivered: UserPromptSubmit per typed prompt, PostToolUse per tool call,
// Stop when the assistant's turn ends and SessionEnd last. Assistant
// entries between two prompts form one turn, as the Stop hook sees them.
func Steps(tr *Transcript) []Step {
	if tr == nil || tr.SessionID == "" {
		return nil
	}

	var (
		steps    []Step
		text     []string
		tools    []string
		seen     map[string]bool
		turnTime time.Time
		inTurn   bool
	)
	flush := func() {
		if inTurn {
			steps = append(steps, Step{Time: turnTime, Input: hook.Input{
				SessionID:            tr.SessionID,
				HookEventName:        "Stop",
				LastAssistantMessage: sanitize.Message(strings.Join(text, "\n\n")),
				ToolsUsed:            tools,
			}})
		}
		text, tools, seen, inTurn = nil, nil, nil, false
	}

	for _, e := range tr.Entries {
		if e.Message == nil {
			continue
		}
		switch e.Message.Role {
		case "user":
			if e.IsMeta || IsToolResult(e.Message) {
				continue
			}
			raw := TextContent(e.Message)
			if sanitize.IsCommand(raw) {
				continue
			}
			prompt := sanitize.Message(raw)
			if prompt == "" {
				continue
			}
			flush()
			steps = append(steps, Step{Time: e.Timestamp, Input: hook.Input{
				SessionID:     tr.SessionID,
				HookEventName: "UserPromptSubmit",
				CWD:           e.CWD,
				Prompt:        prompt,
			}})

		case "assistant":
			inTurn = true
			turnTime = e.Timestamp
			if t := TextContent(e.Message); t != "" {
				text = append(text, t)
			}
			for _, tu := range ToolUses(e.Message) {
				if seen == nil {
					seen = make(map[string]bool)
				}
				if !seen[tu.Name] {
					seen[tu.Name] = true
					tools = append(tools, tu.Name)
				}
				input, _ := tu.Input.(map[string]any)
				steps = append(steps, Step{Time: e.Timestamp, Input: hook.Input{
					SessionID:     tr.SessionID,
					HookEventName: "PostToolUse",
					ToolName:      tu.Name,
					ToolInput:     input,
				}})
			}
		}
	}
	flush()

	if len(steps) > 0 {
		steps = append(steps, Step{Time: tr.End, Input: hook.Input{
			SessionID:     tr.SessionID,
			HookEventName: "SessionEnd",
		}})
	}
	return steps
}
