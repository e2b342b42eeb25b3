package event

import "time"

// Kind discriminates the record types stored in the event log.
type Kind string

const (
	KindTaskStart        Kind = "task_start"
	KindTurnMessage      Kind = "turn_message"
	KindCodeEdit         Kind = "code_edit"
	KindFileSave         Kind = "file_save"
	KindAdoptionInferred Kind = "adoption_inferred"
)

// IsConversational reports whether events of this kind carry a turn index.
func (k Kind) IsConversational() bool {
	return k == KindTaskStart || k == KindTurnMessage
}

// Role identifies the author of a conversational event.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Category is the task category assigned by the content classifier.
type Category string

const (
	CategoryCodeGeneration     Category = "code_generation"
	CategoryDebugging          Category = "debugging"
	CategoryConceptExplanation Category = "concept_explanation"
	CategoryCodeReview         Category = "code_review"
	CategoryRefactoring        Category = "refactoring"
	CategoryTesting            Category = "testing"
	CategoryOptimization       Category = "optimization"
	CategoryDocumentation      Category = "documentation"
	CategoryUnknown            Category = "unknown"
)

// Categories lists the defined categories in enumeration order.
// CategoryUnknown is not a defined category.
var Categories = []Category{
	CategoryCodeGeneration,
	CategoryDebugging,
	CategoryConceptExplanation,
	CategoryCodeReview,
	CategoryRefactoring,
	CategoryTesting,
	CategoryOptimization,
	CategoryDocumentation,
}

// Defined reports whether c is one of the eight defined categories.
func (c Category) Defined() bool {
	for _, d := range Categories {
		if c == d {
			return true
		}
	}
	return false
}

// SuggestionKind describes what an assistant turn offered.
type SuggestionKind string

const (
	SuggestionCode        SuggestionKind = "code"
	SuggestionExplanation SuggestionKind = "explanation"
	SuggestionFix         SuggestionKind = "fix"
	SuggestionQuestion    SuggestionKind = "question"
	SuggestionCompletion  SuggestionKind = "completion"
)

// Verdict is the inferred outcome of an assistant turn.
type Verdict string

const (
	VerdictAdopted   Verdict = "adopted"
	VerdictRejected  Verdict = "rejected"
	VerdictContinued Verdict = "continued"
	VerdictUnknown   Verdict = "unknown"
)

// Determined reports whether v is a real judgment (anything but unknown or empty).
func (v Verdict) Determined() bool {
	return v == VerdictAdopted || v == VerdictRejected || v == VerdictContinued
}

// NoTurn is the turn index carried by edit, save and adoption events.
const NoTurn = -1

// Event is one record in the newline-delimited interaction log.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	TaskID        string    `json:"task_id"`
	Type          Kind      `json:"event_type"`
	Role          Role      `json:"role,omitempty"`
	Category      Category  `json:"category,omitempty"`
	ContentLength int       `json:"content_length,omitempty"`
	HasCode       bool      `json:"has_code,omitempty"`
	LanguageHint  string    `json:"language_hint,omitempty"`
	TurnIndex     int       `json:"turn_index"`

	// Present on assistant turns
	SuggestionType SuggestionKind `json:"suggestion_type,omitempty"`
	ToolsUsed      []string       `json:"tools_used,omitempty"`

	// Present on code edits
	FilePath   string `json:"file_path,omitempty"`
	DeltaChars int    `json:"delta_chars,omitempty"`

	// Present on adoption_inferred events
	AdoptionStatus Verdict `json:"adoption_status,omitempty"`
}

// IsConversational reports whether the event is a task start or a turn message.
func (e Event) IsConversational() bool {
	return e.Type.IsConversational()
}
