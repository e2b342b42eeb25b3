package trends

import (
	"fmt"
	"strings"
)

// Format renders a Result as aligned terminal output.
func Format(r Result) string {
	if r.TotalWeeks == 0 {
		return "vp trends\n\n  No events found. Record some with `vp hook` or `vp watch` first.\n"
	}

	var b strings.Builder
	b.WriteString("vp trends\n")

	fmt.Fprintf(&b, "\nOverview (%d events, %d weeks)\n", r.TotalEvents, r.TotalWeeks)
	for _, m := range r.Metrics {
		detail := ""
		if m.Direction != "stable" && m.DeltaPct != 0 {
			detail = fmt.Sprintf(" (%+.0f%%)", m.DeltaPct)
		}
		fmt.Fprintf(&b, "  %-18s %6s avg  %s %s%s\n", m.Name, pct(m.OverallAvg), directionArrow(m), m.Direction, detail)
	}

	b.WriteString("\nWeekly Style\n")
	fmt.Fprintf(&b, "  %-8s %7s  %-12s %6s %10s\n", "Week", "Events", "Style", "Conf", "AI Dep")
	for _, w := range r.Weeks {
		fmt.Fprintf(&b, "  %-8s %7d  %-12s %6.2f %10s\n",
			w.Label, w.Events, w.Profile.LearningStyle, w.Profile.StyleConfidence, pct(w.Profile.AIDependency))
	}

	for _, m := range r.Metrics {
		if len(m.Points) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", metricTitle(m.Name))
		fmt.Fprintf(&b, "  %-8s %8s %8s\n", "Week", "Value", "Avg")
		for _, p := range m.Points {
			avgStr := ""
			if p.RollingAvg > 0 {
				avgStr = pct(p.RollingAvg)
			}
			marker := ""
			if p.Anomaly {
				if p.Value > p.RollingAvg {
					marker = "  ^ spike"
				} else {
					marker = "  v dip"
				}
			}
			fmt.Fprintf(&b, "  %-8s %8s %8s%s\n", p.WeekLabel, pct(p.Value), avgStr, marker)
		}
	}

	return b.String()
}

// directionArrow points the way the value moved.
func directionArrow(m MetricTrend) string {
	switch {
	case m.Direction == "stable":
		return "→"
	case m.DeltaPct < 0:
		return "↓"
	default:
		return "↑"
	}
}

func metricTitle(name string) string {
	switch name {
	case "ai_dependency":
		return "AI Dependency"
	case "self_modification":
		return "Self-Modification Rate"
	case "adoption_rate":
		return "Adoption Rate"
	case "exploration":
		return "Exploration Breadth"
	default:
		return name
	}
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
