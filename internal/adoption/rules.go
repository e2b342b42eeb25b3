package adoption

import (
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// DefaultTimeout is how long a pending turn waits for a follow-up message
// before the poller finalizes it on behavior alone.
const DefaultTimeout = 60 * time.Second

// Rule inspects a pending turn at message arrival and returns a verdict,
// or "" if it does not apply.
type Rule struct {
	Name  string
	Apply func(p PendingTurn, sameTopic bool) event.Verdict
}

// messageRules are evaluated in priority order; the first match wins.
var messageRules = []Rule{
	{Name: "code-acted-on", Apply: func(p PendingTurn, _ bool) event.Verdict {
		if p.HasCode && p.acted() {
			return event.VerdictAdopted
		}
		return ""
	}},
	{Name: "declared-complete", Apply: func(p PendingTurn, _ bool) event.Verdict {
		if p.Suggestion == event.SuggestionCompletion {
			return event.VerdictAdopted
		}
		return ""
	}},
	{Name: "same-topic", Apply: func(_ PendingTurn, sameTopic bool) event.Verdict {
		if sameTopic {
			return event.VerdictContinued
		}
		return ""
	}},
	{Name: "no-action", Apply: func(p PendingTurn, _ bool) event.Verdict {
		if !p.acted() {
			return event.VerdictRejected
		}
		return ""
	}},
}

// onMessage applies the message-arrival rules. Edits followed by a topic
// change fall through to adopted.
func onMessage(p PendingTurn, sameTopic bool) (event.Verdict, string) {
	for _, r := range messageRules {
		if v := r.Apply(p, sameTopic); v != "" {
			return v, r.Name
		}
	}
	return event.VerdictAdopted, "acted-topic-changed"
}

// onBehavior is used when no follow-up message exists. It never returns
// rejected: silence before a timeout is not evidence of rejection.
func onBehavior(p PendingTurn) event.Verdict {
	if p.acted() {
		return event.VerdictAdopted
	}
	return event.VerdictUnknown
}

// IsSameTopic is true iff both categories are present and equal.
func IsSameTopic(prev, current event.Category) bool {
	return prev != "" && current != "" && prev == current
}
