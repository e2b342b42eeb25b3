// Package classify assigns task categories, code presence, language hints and
// suggestion kinds to free text using keyword and regex matching.
package classify

import (
	"regexp"
	"strings"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// keyword is a phrase and the weight a hit contributes to its category.
type keyword struct {
	phrase string
	weight int
}

var categoryKeywords = map[event.Category][]keyword{
	event.CategoryCodeGeneration: {
		{"write a", 2}, {"implement", 2}, {"create a", 2}, {"generate", 2}, {"build a", 2},
		{"add a function", 3}, {"scaffold", 2}, {"write code", 3}, {"new feature", 2},
	},
	event.CategoryDebugging: {
		{"error", 2}, {"bug", 3}, {"exception", 3}, {"traceback", 3}, {"stack trace", 3},
		{"doesn't work", 3}, {"not working", 3}, {"crash", 3}, {"fails", 2}, {"failing", 2},
		{"fix", 2}, {"panic", 2}, {"undefined", 1}, {"segfault", 3},
	},
	event.CategoryConceptExplanation: {
		{"what is", 3}, {"explain", 3}, {"why does", 2}, {"how does", 2}, {"difference between", 3},
		{"what does", 2}, {"understand", 2}, {"concept", 2}, {"meaning of", 2},
	},
	event.CategoryCodeReview: {
		{"review", 3}, {"is this correct", 3}, {"is this good", 3}, {"feedback", 2},
		{"best practice", 2}, {"look at my code", 3}, {"any issues", 2},
	},
	event.CategoryRefactoring: {
		{"refactor", 3}, {"clean up", 2}, {"cleanup", 2}, {"restructure", 3}, {"rename", 2},
		{"simplify", 2}, {"extract", 2}, {"more readable", 3}, {"duplicate", 1},
	},
	event.CategoryTesting: {
		{"test", 2}, {"unit test", 3}, {"coverage", 3}, {"assert", 2}, {"mock", 2},
		{"pytest", 3}, {"jest", 3}, {"test case", 3}, {"tdd", 3},
	},
	event.CategoryOptimization: {
		{"optimize", 3}, {"optimise", 3}, {"faster", 2}, {"performance", 3}, {"slow", 2},
		{"memory usage", 3}, {"complexity", 2}, {"speed up", 3}, {"efficient", 2},
	},
	event.CategoryDocumentation: {
		{"document", 3}, {"docstring", 3}, {"comment", 2}, {"readme", 3}, {"docs", 2},
		{"jsdoc", 3}, {"godoc", 3}, {"api reference", 2},
	},
}

// tracebackPattern catches pasted error output even without keywords.
var tracebackPattern = regexp.MustCompile(`(?m)^(Traceback \(most recent call last\)|\s+at .+\(.+:\d+\)|panic: |\w+Error: )`)

// Classifier is the content classification collaborator. It is stateless
// and safe for concurrent use; construct one and pass it where needed.
type Classifier struct {
	keywords map[event.Category][]keyword
}

// New returns a Classifier with the built-in keyword tables.
func New() *Classifier {
	return &Classifier{keywords: categoryKeywords}
}

// Category returns the highest-scoring category for text. Ties go to the
// earlier category in event.Categories; no hits yields unknown.
func (c *Classifier) Category(text string) event.Category {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return event.CategoryUnknown
	}

	best := event.CategoryUnknown
	bestScore := 0
	for _, cat := range event.Categories {
		score := 0
		for _, kw := range c.keywords[cat] {
			if strings.Contains(lower, kw.phrase) {
				score += kw.weight
			}
		}
		if cat == event.CategoryDebugging && tracebackPattern.MatchString(text) {
			score += 4
		}
		if score > bestScore {
			best, bestScore = cat, score
		}
	}
	return best
}
