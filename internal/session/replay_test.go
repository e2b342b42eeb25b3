package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suykerbuyk/vibe-profile/internal/adoption"
	"github.com/suykerbuyk/vibe-profile/internal/classify"
	"github.com/suykerbuyk/vibe-profile/internal/event"
	"github.com/suykerbuyk/vibe-profile/internal/hook"
	"github.com/suykerbuyk/vibe-profile/internal/transcript"
)

func TestReplay(t *testing.T) {
	t0 := time.Date(2026, 2, 22, 10, 0, 0, 0, time.UTC)
	step := func(d time.Duration, in hook.Input) transcript.Step {
		in.SessionID = "s1"
		return transcript.Step{Time: t0.Add(d), Input: in}
	}
	steps := []transcript.Step{
		step(0, hook.Input{HookEventName: "UserPromptSubmit", Prompt: askCode}),
		step(5*time.Second, hook.Input{HookEventName: "Stop", LastAssistantMessage: replyCode, ToolsUsed: []string{"Edit"}}),
		step(6*time.Second, hook.Input{HookEventName: "PostToolUse", ToolName: "Edit",
			ToolInput: map[string]any{"file_path": "handler.go", "old_string": "", "new_string": "abc"}}),
		step(10*time.Second, hook.Input{HookEventName: "UserPromptSubmit", Prompt: askConcept}),
		step(15*time.Second, hook.Input{HookEventName: "Stop", LastAssistantMessage: replyProse}),
		// Long gap: the prose turn times out before the next prompt.
		step(5*time.Minute, hook.Input{HookEventName: "UserPromptSubmit", Prompt: askConcept}),
		step(5*time.Minute, hook.Input{HookEventName: "SessionEnd"}),
	}

	sink := &memSink{}
	at := &ReplayClock{}
	engine := adoption.New(adoption.WithClock(at.Now))
	tr := NewTracker(classify.New(), engine, sink, nil, WithClock(at.Now), WithTimeout(time.Minute))
	require.NoError(t, Replay(tr, at, steps))

	assert.Equal(t, []event.Verdict{event.VerdictAdopted, event.VerdictUnknown}, sink.verdicts())

	evs := sink.snapshot()
	require.NotEmpty(t, evs)
	assert.Equal(t, event.KindTaskStart, evs[0].Type)
	assert.True(t, evs[0].Timestamp.Equal(t0), "events carry the recorded time")
	assert.True(t, evs[len(evs)-1].Timestamp.Equal(t0.Add(5*time.Minute)))
	assert.Empty(t, tr.ActiveTask())
}

func TestReplayClock_NeverGoesBack(t *testing.T) {
	t0 := time.Date(2026, 2, 22, 10, 0, 0, 0, time.UTC)
	c := &ReplayClock{}
	c.Set(t0)
	c.Set(t0.Add(-time.Hour))
	c.Set(time.Time{})
	assert.True(t, c.Now().Equal(t0))
}

func TestReplay_SinkError(t *testing.T) {
	sink := &memSink{err: assert.AnError}
	at := &ReplayClock{}
	tr := NewTracker(classify.New(), adoption.New(), sink, nil, WithClock(at.Now))
	err := Replay(tr, at, []transcript.Step{{
		Time:  time.Date(2026, 2, 22, 10, 0, 0, 0, time.UTC),
		Input: hook.Input{SessionID: "s1", HookEventName: "UserPromptSubmit", Prompt: askCode},
	}})
	assert.ErrorIs(t, err, assert.AnError)
}
