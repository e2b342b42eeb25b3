// Package hook records chat activity delivered one message at a time by
// agent hooks. It is stateless between invocations: turn indices are
// recovered from the event log, and adoption inference is left to the live
// pipeline in vp watch.
package hook

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-profile/internal/classify"
	"github.com/suykerbuyk/vibe-profile/internal/event"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
)

// Handler appends the events for one hook input.
type Handler struct {
	log        *eventlog.Log
	classifier *classify.Classifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewHandler returns a Handler writing to log. A nil now means time.Now.
func NewHandler(log *eventlog.Log, c *classify.Classifier, logger *zap.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{log: log, classifier: c, logger: logger, now: now}
}

// Handle appends whatever events in implies and returns them.
func (h *Handler) Handle(in Input) ([]event.Event, error) {
	evs, err := h.build(in)
	if err != nil {
		return nil, err
	}
	for _, ev := range evs {
		if err := h.log.Append(ev); err != nil {
			return nil, fmt.Errorf("append %s: %w", ev.Type, err)
		}
	}
	h.logger.Debug("hook recorded",
		zap.String("task", in.SessionID),
		zap.Stringer("action", in.Action()),
		zap.Int("events", len(evs)))
	return evs, nil
}

func (h *Handler) build(in Input) ([]event.Event, error) {
	ts := h.now()

	switch in.Action() {
	case ActionUserMessage, ActionAssistantMessage:
		res, err := h.log.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read event log: %w", err)
		}
		turn := eventlog.NextTurnIndex(res.Events, in.SessionID)

		if in.Action() == ActionUserMessage {
			m := h.classifier.Message(in.Prompt)
			if turn == 0 {
				return []event.Event{event.NewTaskStart(ts, in.SessionID, m)}, nil
			}
			return []event.Event{event.NewTurn(ts, in.SessionID, event.RoleUser, turn, m, "", nil)}, nil
		}

		m := h.classifier.Message(in.LastAssistantMessage)
		kind := h.classifier.Suggestion(in.LastAssistantMessage, m.HasCode)
		return []event.Event{event.NewTurn(ts, in.SessionID, event.RoleAssistant, turn, m, kind, in.ToolsUsed)}, nil

	case ActionEdit:
		path := in.EditPath()
		lang := classify.LanguageFromPath(path)
		return []event.Event{
			event.NewCodeEdit(ts, in.SessionID, path, lang, in.EditDelta()),
			event.NewFileSave(ts, in.SessionID, path, lang),
		}, nil

	default:
		return nil, nil
	}
}
