package event

import "time"

// Message is the classified content of a conversational turn.
type Message struct {
	Category      Category
	ContentLength int
	HasCode       bool
	LanguageHint  string
}

// NewTaskStart builds the task_start event that opens a task.
func NewTaskStart(ts time.Time, taskID string, m Message) Event {
	return Event{
		Timestamp:     ts,
		TaskID:        taskID,
		Type:          KindTaskStart,
		Role:          RoleUser,
		Category:      m.Category,
		ContentLength: m.ContentLength,
		HasCode:       m.HasCode,
		LanguageHint:  m.LanguageHint,
		TurnIndex:     0,
	}
}

// NewTurn builds a turn_message event. Suggestion and tools are only kept
// for assistant turns.
func NewTurn(ts time.Time, taskID string, role Role, turn int, m Message, suggestion SuggestionKind, tools []string) Event {
	ev := Event{
		Timestamp:     ts,
		TaskID:        taskID,
		Type:          KindTurnMessage,
		Role:          role,
		Category:      m.Category,
		ContentLength: m.ContentLength,
		HasCode:       m.HasCode,
		LanguageHint:  m.LanguageHint,
		TurnIndex:     turn,
	}
	if role == RoleAssistant {
		ev.SuggestionType = suggestion
		ev.ToolsUsed = tools
	}
	return ev
}

// NewCodeEdit builds a code_edit event. Edits never consume a turn index.
func NewCodeEdit(ts time.Time, taskID, path, language string, delta int) Event {
	return Event{
		Timestamp:    ts,
		TaskID:       taskID,
		Type:         KindCodeEdit,
		LanguageHint: language,
		TurnIndex:    NoTurn,
		FilePath:     path,
		DeltaChars:   delta,
	}
}

// NewFileSave builds a file_save event.
func NewFileSave(ts time.Time, taskID, path, language string) Event {
	return Event{
		Timestamp:    ts,
		TaskID:       taskID,
		Type:         KindFileSave,
		LanguageHint: language,
		TurnIndex:    NoTurn,
		FilePath:     path,
	}
}

// NewAdoption builds the adoption_inferred event recording a verdict.
func NewAdoption(ts time.Time, taskID string, v Verdict) Event {
	return Event{
		Timestamp:      ts,
		TaskID:         taskID,
		Type:           KindAdoptionInferred,
		Role:           RoleSystem,
		TurnIndex:      NoTurn,
		AdoptionStatus: v,
	}
}
