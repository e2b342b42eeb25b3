package profile

import (
	"math"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// Below this best score no style is clearly expressed.
const minStyleScore = 0.3

// ramp is a logistic soft threshold around center.
func ramp(x, center, steepness float64) float64 {
	return 1 / (1 + math.Exp(-steepness*(x-center)))
}

// mid rewards values near 0.5: 1 at 0.5, 0 at either end.
func mid(x float64) float64 {
	return 1 - 2*math.Abs(x-0.5)
}

// scoreStyles computes every archetype's score, in the order of Styles.
func scoreStyles(m Metrics, dominant event.Category) []StyleScore {
	debugDominant := 0.0
	if dominant == event.CategoryDebugging {
		debugDominant = 1
	}

	formulas := map[Style]float64{
		StyleDependent: 0.4*ramp(m.AIDependency, 0.65, 10) +
			0.3*(1-m.SelfModificationRate) +
			0.3*(1-m.CodeEditRatio),
		StyleExploratory: 0.3*ramp(m.AvgTurnsPerTask, 4, 1) +
			0.35*m.ExplorationBreadth +
			0.2*m.CodeEditRatio +
			0.15*m.SelfModificationRate,
		StyleOptimizer: 0.3*m.AdoptionRate +
			0.35*m.SelfModificationRate +
			0.35*m.CodeEditRatio,
		StyleDebugger: 0.6*m.DebuggingFrequency +
			0.2*ramp(m.AvgTurnsPerTask, 3, 1) +
			0.2*debugDominant,
		StyleBalanced: (mid(m.AIDependency) +
			mid(m.CodeEditRatio) +
			mid(m.AdoptionRate) +
			mid(m.SelfModificationRate)) / 4,
	}

	scores := make([]StyleScore, 0, len(Styles))
	for _, st := range Styles {
		scores = append(scores, StyleScore{Style: st, Score: formulas[st]})
	}
	return scores
}

// selectStyle picks the strictly greatest score, so ties keep the earlier
// style, and derives the confidence from its margin over the runner-up.
func selectStyle(scores []StyleScore) (Style, float64) {
	if len(scores) == 0 {
		return StyleBalanced, 0
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[best].Score {
			best = i
		}
	}

	second := math.Inf(-1)
	for i, s := range scores {
		if i != best && s.Score > second {
			second = s.Score
		}
	}
	if math.IsInf(second, -1) {
		second = 0
	}

	bestScore := scores[best].Score
	if bestScore < minStyleScore {
		return StyleBalanced, clamp(bestScore)
	}

	confidence := clamp(0.6*bestScore + 0.4*(bestScore-second))
	return scores[best].Style, math.Round(confidence*1000) / 1000
}

// clamp limits a value to [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
