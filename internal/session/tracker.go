// Package session is the live recording pipeline: it turns chat messages
// and workspace changes into logged events and drives adoption inference
// as they arrive.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-profile/internal/adoption"
	"github.com/suykerbuyk/vibe-profile/internal/classify"
	"github.com/suykerbuyk/vibe-profile/internal/event"
	"github.com/suykerbuyk/vibe-profile/internal/hook"
)

// Sink receives every event the tracker produces, in order.
type Sink interface {
	Append(ev event.Event) error
}

type taskState struct {
	nextTurn     int
	lastCategory event.Category // category of the latest user message
}

// Tracker owns per-task conversation state and the adoption engine. One
// mutex serializes all calls, so events for a task are handled strictly in
// arrival order.
type Tracker struct {
	mu      sync.Mutex
	cls     *classify.Classifier
	engine  *adoption.Engine
	sink    Sink
	log     *zap.Logger
	now     func() time.Time
	timeout time.Duration
	tasks   map[string]*taskState
	active  string

	// unsent holds events the sink refused, oldest first. They are retried
	// ahead of the next event so a verdict already taken from the engine is
	// not lost to a transient write failure.
	unsent []event.Event
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the wall clock used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithTimeout sets how long an assistant turn may stay pending before
// Sweep finalizes it.
func WithTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.timeout = d }
}

// NewTracker wires a tracker to its collaborators.
func NewTracker(cls *classify.Classifier, engine *adoption.Engine, sink Sink, log *zap.Logger, opts ...Option) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{
		cls:     cls,
		engine:  engine,
		sink:    sink,
		log:     log,
		now:     time.Now,
		timeout: adoption.DefaultTimeout,
		tasks:   make(map[string]*taskState),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ActiveTask returns the most recently messaged task, "" if none.
func (t *Tracker) ActiveTask() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// StartTask opens taskID with its first user message. Restarting a known
// task finalizes its pending turn and resets its turn counter.
func (t *Tracker) StartTask(taskID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLocked(taskID, text)
}

func (t *Tracker) startLocked(taskID, text string) error {
	if err := t.finalizeLocked(taskID); err != nil {
		return err
	}
	m := t.cls.Message(text)
	t.tasks[taskID] = &taskState{nextTurn: 1, lastCategory: m.Category}
	t.active = taskID
	return t.emit(event.NewTaskStart(t.now(), taskID, m))
}

// UserMessage records a user turn. A pending assistant turn is judged
// first, using whether the topic stayed the same.
func (t *Tracker) UserMessage(taskID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.tasks[taskID]
	if !ok {
		return t.startLocked(taskID, text)
	}

	m := t.cls.Message(text)
	if _, pending := t.engine.Pending(taskID); pending {
		same := adoption.IsSameTopic(st.lastCategory, m.Category)
		v, rule := t.engine.OnUserMessageRule(taskID, same)
		if err := t.emitVerdict(taskID, v, "user_message", zap.String("rule", rule)); err != nil {
			return err
		}
	}

	turn := st.nextTurn
	st.nextTurn++
	st.lastCategory = m.Category
	t.active = taskID
	return t.emit(event.NewTurn(t.now(), taskID, event.RoleUser, turn, m, "", nil))
}

// AssistantMessage records an assistant turn and makes it the task's
// pending turn. A turn it replaces is judged on behavior alone.
func (t *Tracker) AssistantMessage(taskID, text string, tools []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.tasks[taskID]
	if !ok {
		st = &taskState{}
		t.tasks[taskID] = st
	}

	m := t.cls.Message(text)
	kind := t.cls.Suggestion(text, m.HasCode)
	ts := t.now()
	turn := st.nextTurn
	st.nextTurn++
	t.active = taskID

	if err := t.emit(event.NewTurn(ts, taskID, event.RoleAssistant, turn, m, kind, tools)); err != nil {
		return err
	}
	if prior, had := t.engine.RegisterAssistantTurn(taskID, turn, kind, m.HasCode, ts); had {
		return t.emitVerdict(taskID, prior, "superseded")
	}
	return nil
}

// Edit records a code edit. An empty taskID attributes it to the active
// task; with no active task the edit is dropped.
func (t *Tracker) Edit(taskID, path string, delta int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if taskID = t.resolve(taskID); taskID == "" {
		t.log.Debug("edit without active task", zap.String("path", path))
		return nil
	}
	t.engine.OnCodeEdit(taskID)
	return t.emit(event.NewCodeEdit(t.now(), taskID, path, classify.LanguageFromPath(path), delta))
}

// Save records a file save, attributed like Edit.
func (t *Tracker) Save(taskID, path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if taskID = t.resolve(taskID); taskID == "" {
		t.log.Debug("save without active task", zap.String("path", path))
		return nil
	}
	t.engine.OnFileSave(taskID)
	return t.emit(event.NewFileSave(t.now(), taskID, path, classify.LanguageFromPath(path)))
}

// EndTask finalizes the task's pending turn and forgets the task.
func (t *Tracker) EndTask(taskID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.finalizeLocked(taskID)
	delete(t.tasks, taskID)
	if t.active == taskID {
		t.active = ""
	}
	return err
}

// EndAll ends every known task, used when the input stream closes. Every
// task is finalized even when recording fails, and unsent events get a
// last retry.
func (t *Tracker) EndAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	errs := []error{t.flushLocked()}
	for id := range t.tasks {
		errs = append(errs, t.finalizeLocked(id))
		delete(t.tasks, id)
	}
	t.active = ""
	return errors.Join(errs...)
}

// Sweep retries unsent events, then finalizes every pending turn older
// than the timeout at now and returns how many were finalized. Every
// verdict is attempted even when some fail to record.
func (t *Tracker) Sweep(now time.Time) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	errs := []error{t.flushLocked()}
	done := t.engine.FinalizeExpired(now, t.timeout)
	for _, f := range done {
		errs = append(errs, t.emitVerdict(f.TaskID, f.Verdict, "timeout"))
	}
	return len(done), errors.Join(errs...)
}

// Unsent returns how many events are waiting to be retried.
func (t *Tracker) Unsent() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.unsent)
}

// Apply dispatches one hook input.
func (t *Tracker) Apply(in hook.Input) error {
	switch in.Action() {
	case hook.ActionUserMessage:
		return t.UserMessage(in.SessionID, in.Prompt)
	case hook.ActionAssistantMessage:
		return t.AssistantMessage(in.SessionID, in.LastAssistantMessage, in.ToolsUsed)
	case hook.ActionEdit:
		if err := t.Edit(in.SessionID, in.EditPath(), in.EditDelta()); err != nil {
			return err
		}
		return t.Save(in.SessionID, in.EditPath())
	case hook.ActionEndTask:
		return t.EndTask(in.SessionID)
	default:
		return nil
	}
}

func (t *Tracker) resolve(taskID string) string {
	if taskID != "" {
		return taskID
	}
	return t.active
}

func (t *Tracker) finalizeLocked(taskID string) error {
	if _, pending := t.engine.Pending(taskID); !pending {
		return nil
	}
	return t.emitVerdict(taskID, t.engine.FinalizeIfPending(taskID), "task_end")
}

func (t *Tracker) emitVerdict(taskID string, v event.Verdict, trigger string, fields ...zap.Field) error {
	t.log.Debug("adoption inferred", append([]zap.Field{
		zap.String("task", taskID),
		zap.String("verdict", string(v)),
		zap.String("trigger", trigger),
	}, fields...)...)
	return t.emit(event.NewAdoption(t.now(), taskID, v))
}

// emit records ev after any unsent events. On failure ev joins the unsent
// queue, keeping order.
func (t *Tracker) emit(ev event.Event) error {
	if err := t.flushLocked(); err != nil {
		t.unsent = append(t.unsent, ev)
		return fmt.Errorf("record %s for %s after unsent events: %w", ev.Type, ev.TaskID, err)
	}
	if err := t.sink.Append(ev); err != nil {
		t.unsent = append(t.unsent, ev)
		return fmt.Errorf("record %s for %s: %w", ev.Type, ev.TaskID, err)
	}
	return nil
}

func (t *Tracker) flushLocked() error {
	for len(t.unsent) > 0 {
		ev := t.unsent[0]
		if err := t.sink.Append(ev); err != nil {
			return fmt.Errorf("record %s for %s: %w", ev.Type, ev.TaskID, err)
		}
		t.unsent = t.unsent[1:]
	}
	return nil
}
