package profile

import (
	"time"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// Style is a learning-style archetype.
type Style string

const (
	StyleDependent   Style = "Dependent"
	StyleExploratory Style = "Exploratory"
	StyleOptimizer   Style = "Optimizer"
	StyleDebugger    Style = "Debugger"
	StyleBalanced    Style = "Balanced"
)

// Styles is the fixed enumeration order. Ties in selection go to the
// earlier entry.
var Styles = []Style{StyleDependent, StyleExploratory, StyleOptimizer, StyleDebugger, StyleBalanced}

// Metrics holds the normalized behavioral ratios. All but AvgTurnsPerTask
// are in [0, 1].
type Metrics struct {
	AvgTurnsPerTask      float64 `json:"avg_turns_per_task" yaml:"avg_turns_per_task"`
	AIDependency         float64 `json:"ai_dependency_score" yaml:"ai_dependency_score"`
	CodeEditRatio        float64 `json:"code_edit_ratio" yaml:"code_edit_ratio"`
	AdoptionRate         float64 `json:"adoption_rate" yaml:"adoption_rate"`
	SelfModificationRate float64 `json:"self_modification_rate" yaml:"self_modification_rate"`
	DebuggingFrequency   float64 `json:"debugging_frequency" yaml:"debugging_frequency"`
	ExplorationBreadth   float64 `json:"exploration_breadth" yaml:"exploration_breadth"`
}

// StyleScore is one archetype's raw score.
type StyleScore struct {
	Style Style   `json:"style" yaml:"style"`
	Score float64 `json:"score" yaml:"score"`
}

// Span is the min/max timestamp range of the aggregated log.
type Span struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Profile is a snapshot of a student's working style over the supplied log.
// It is recomputed in full on every call and never mutated afterwards.
type Profile struct {
	TotalTasks        int `json:"total_tasks" yaml:"total_tasks"`
	TotalInteractions int `json:"total_interactions" yaml:"total_interactions"`
	TotalEvents       int `json:"total_events" yaml:"total_events"`

	Metrics `yaml:",inline"`

	DominantCategory event.Category `json:"dominant_category" yaml:"dominant_category"`
	LearningStyle    Style          `json:"learning_style" yaml:"learning_style"`
	StyleConfidence  float64        `json:"style_confidence" yaml:"style_confidence"`
	StyleScores      []StyleScore   `json:"style_scores" yaml:"style_scores"`

	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	DataRange   Span      `json:"data_range" yaml:"data_range"`
}
