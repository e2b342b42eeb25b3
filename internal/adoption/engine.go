// Package adoption infers whether the student adopted, rejected or kept
// discussing each assistant turn, from cheap local signals only.
package adoption

import (
	"sort"
	"sync"
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// PendingTurn is the most recent assistant turn of a task awaiting a verdict.
type PendingTurn struct {
	TurnIndex  int
	Suggestion event.SuggestionKind
	HasCode    bool
	Edited     bool // code edit seen since registration
	Saved      bool // file save seen since registration
	Timestamp  time.Time
	CreatedAt  time.Time
}

func (p PendingTurn) acted() bool {
	return p.Edited || p.Saved
}

// Engine holds at most one pending turn per task id. All methods are safe
// for concurrent use; calls are serialized on a single mutex.
type Engine struct {
	mu      sync.Mutex
	now     func() time.Time
	pending map[string]*PendingTurn
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for creation times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:     time.Now,
		pending: make(map[string]*PendingTurn),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterAssistantTurn finalizes any pending turn for taskID on behavior
// alone, then installs a fresh one. It returns the prior verdict and whether
// a prior turn existed.
func (e *Engine) RegisterAssistantTurn(taskID string, turnIndex int, kind event.SuggestionKind, hasCode bool, ts time.Time) (event.Verdict, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prior, had := e.finalizeLocked(taskID)
	e.pending[taskID] = &PendingTurn{
		TurnIndex:  turnIndex,
		Suggestion: kind,
		HasCode:    hasCode,
		Timestamp:  ts,
		CreatedAt:  e.now(),
	}
	return prior, had
}

// OnCodeEdit marks the pending turn for taskID as edited. No-op if none.
func (e *Engine) OnCodeEdit(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.pending[taskID]; ok {
		p.Edited = true
	}
}

// OnFileSave marks the pending turn for taskID as saved. No-op if none.
func (e *Engine) OnFileSave(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.pending[taskID]; ok {
		p.Saved = true
	}
}

// OnUserMessage judges the pending turn for taskID against the arriving
// user message and removes it. Returns unknown if nothing was pending.
func (e *Engine) OnUserMessage(taskID string, sameTopic bool) event.Verdict {
	v, _ := e.OnUserMessageRule(taskID, sameTopic)
	return v
}

// OnUserMessageRule is OnUserMessage that also names the rule that
// decided, "" when nothing was pending.
func (e *Engine) OnUserMessageRule(taskID string, sameTopic bool) (event.Verdict, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pending[taskID]
	if !ok {
		return event.VerdictUnknown, ""
	}
	delete(e.pending, taskID)
	return onMessage(*p, sameTopic)
}

// FinalizeIfPending judges the pending turn for taskID on behavior alone and
// removes it. Used on task end and timeout.
func (e *Engine) FinalizeIfPending(taskID string) event.Verdict {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, _ := e.finalizeLocked(taskID)
	return v
}

func (e *Engine) finalizeLocked(taskID string) (event.Verdict, bool) {
	p, ok := e.pending[taskID]
	if !ok {
		return event.VerdictUnknown, false
	}
	delete(e.pending, taskID)
	return onBehavior(*p), true
}

// Pending returns a copy of the pending turn for taskID.
func (e *Engine) Pending(taskID string) (PendingTurn, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pending[taskID]
	if !ok {
		return PendingTurn{}, false
	}
	return *p, true
}

// Len returns the number of pending turns.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Finalized pairs a task id with the verdict its pending turn received.
type Finalized struct {
	TaskID  string
	Verdict event.Verdict
}

// FinalizeExpired finalizes every pending turn older than timeout in one
// critical section, so a registration racing the poller is never judged early.
func (e *Engine) FinalizeExpired(now time.Time, timeout time.Duration) []Finalized {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Finalized
	for id, p := range e.pending {
		if now.Sub(p.CreatedAt) >= timeout {
			out = append(out, Finalized{TaskID: id, Verdict: onBehavior(*p)})
			delete(e.pending, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}
