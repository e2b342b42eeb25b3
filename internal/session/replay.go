package session

import (
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/transcript"
)

// Replay applies recorded hook steps to t in order. t and its adoption
// engine must both read time from at. Each step moves at to the step's
// time and sweeps expired turns first, so timeouts fire as they would
// have live. Every task is ended at the close.
func Replay(t *Tracker, at *ReplayClock, steps []transcript.Step) error {
	for _, s := range steps {
		at.Set(s.Time)
		if _, err := t.Sweep(at.Now()); err != nil {
			return err
		}
		if err := t.Apply(s.Input); err != nil {
			return err
		}
	}
	return t.EndAll()
}

// ReplayClock is a manually advanced clock for replayed sessions.
type ReplayClock struct {
	now time.Time
}

// Now returns the clock's current time.
func (c *ReplayClock) Now() time.Time { return c.now }

// Set advances the clock to ts. Earlier or zero times are ignored.
func (c *ReplayClock) Set(ts time.Time) {
	if ts.After(c.now) {
		c.now = ts
	}
}
