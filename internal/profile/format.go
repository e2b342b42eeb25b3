package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format renders a Profile as aligned terminal output.
func Format(p Profile) string {
	if p.TotalEvents == 0 {
		return "vp profile\n\n  No events found. Run `vp watch` or `vp hook` first.\n"
	}

	var b strings.Builder
	b.WriteString("vp profile\n")

	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-24s %d\n", "tasks", p.TotalTasks)
	fmt.Fprintf(&b, "  %-24s %d\n", "interactions", p.TotalInteractions)
	fmt.Fprintf(&b, "  %-24s %d\n", "events", p.TotalEvents)
	if !p.DataRange.Start.IsZero() {
		fmt.Fprintf(&b, "  %-24s %s → %s\n", "range",
			p.DataRange.Start.Format("2006-01-02 15:04"), p.DataRange.End.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "  %-24s %s\n", "dominant category", p.DominantCategory)

	b.WriteString("\nMetrics\n")
	fmt.Fprintf(&b, "  %-24s %.1f\n", "turns/task", p.AvgTurnsPerTask)
	writeBar(&b, "ai dependency", p.AIDependency)
	writeBar(&b, "code edit ratio", p.CodeEditRatio)
	writeBar(&b, "adoption rate", p.AdoptionRate)
	writeBar(&b, "self-modification", p.SelfModificationRate)
	writeBar(&b, "debugging frequency", p.DebuggingFrequency)
	writeBar(&b, "exploration breadth", p.ExplorationBreadth)

	b.WriteString("\nLearning Style\n")
	fmt.Fprintf(&b, "  %-24s %s (confidence %.0f%%)\n", "style", p.LearningStyle, p.StyleConfidence*100)
	for _, s := range p.StyleScores {
		marker := " "
		if s.Style == p.LearningStyle {
			marker = "*"
		}
		fmt.Fprintf(&b, "  %s %-22s %.3f\n", marker, s.Style, s.Score)
	}

	return b.String()
}

// writeBar renders a [0,1] metric as a percentage with a 20-cell bar.
func writeBar(b *strings.Builder, name string, v float64) {
	cells := int(clamp(v)*20 + 0.5)
	fmt.Fprintf(b, "  %-24s %3.0f%%  %s%s\n", name, v*100,
		strings.Repeat("█", cells), strings.Repeat("·", 20-cells))
}

// Marshal encodes a Profile as "json" or "yaml".
func Marshal(p Profile, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal profile: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal profile: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
