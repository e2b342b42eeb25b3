// Package profile aggregates a full interaction log into a competency
// profile: six behavioral ratios and a best-fit learning style.
package profile

import (
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// Aggregator turns an event log into a Profile. It holds no state beyond
// its clock and is safe for concurrent use.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator returns an Aggregator stamping profiles with now.
// A nil now uses the wall clock.
func NewAggregator(now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{now: now}
}

// Generate computes a fresh profile over the whole of events. Records need
// not be time-sorted; timestamps only feed DataRange.
func (a *Aggregator) Generate(events []event.Event) Profile {
	p := Profile{
		GeneratedAt:      a.now(),
		DominantCategory: event.CategoryUnknown,
		LearningStyle:    StyleBalanced,
	}
	if len(events) == 0 {
		return p
	}

	parts := partition(events)
	p.TotalTasks = len(parts.tasks)
	p.TotalInteractions = len(parts.conversational)
	p.TotalEvents = len(events)
	p.Metrics = computeMetrics(parts)
	p.DominantCategory = dominantCategory(parts.conversational)
	p.StyleScores = scoreStyles(p.Metrics, p.DominantCategory)
	p.LearningStyle, p.StyleConfidence = selectStyle(p.StyleScores)
	p.DataRange = span(events)

	return p
}

func span(events []event.Event) Span {
	var s Span
	for _, e := range events {
		if e.Timestamp.IsZero() {
			continue
		}
		if s.Start.IsZero() || e.Timestamp.Before(s.Start) {
			s.Start = e.Timestamp
		}
		if e.Timestamp.After(s.End) {
			s.End = e.Timestamp
		}
	}
	return s
}

// Filter returns the events whose timestamp falls in [since, until).
// A zero bound is open. Callers wanting a time-boxed profile filter first.
func Filter(events []event.Event, since, until time.Time) []event.Event {
	if since.IsZero() && until.IsZero() {
		return events
	}
	var out []event.Event
	for _, e := range events {
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		if !until.IsZero() && !e.Timestamp.Before(until) {
			continue
		}
		out = append(out, e)
	}
	return out
}
