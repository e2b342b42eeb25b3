package profile

import (
	"github.com/suykerbuyk/vibe-profile/internal/event"
)

// partitions are the event subsets every metric draws from, computed once.
type partitions struct {
	conversational []event.Event
	user           int
	assistant      int
	assistantCode  int
	codeEdits      int
	determined     int
	adopted        int

	tasks          map[string]bool // every task id in the log
	editTasks      map[string]bool // tasks with at least one code edit
	aiCodeTasks    map[string]bool // tasks with at least one assistant code turn
	maxTurnPerTask map[string]int
}

func partition(events []event.Event) partitions {
	p := partitions{
		tasks:          make(map[string]bool),
		editTasks:      make(map[string]bool),
		aiCodeTasks:    make(map[string]bool),
		maxTurnPerTask: make(map[string]int),
	}

	for _, e := range events {
		if e.TaskID != "" {
			p.tasks[e.TaskID] = true
		}

		switch {
		case e.IsConversational():
			p.conversational = append(p.conversational, e)
			switch e.Role {
			case event.RoleUser:
				p.user++
			case event.RoleAssistant:
				p.assistant++
				if e.HasCode {
					p.assistantCode++
					p.aiCodeTasks[e.TaskID] = true
				}
			}
			if e.TurnIndex >= 0 {
				if cur, ok := p.maxTurnPerTask[e.TaskID]; !ok || e.TurnIndex > cur {
					p.maxTurnPerTask[e.TaskID] = e.TurnIndex
				}
			}

		case e.Type == event.KindCodeEdit:
			p.codeEdits++
			p.editTasks[e.TaskID] = true

		case e.Type == event.KindAdoptionInferred:
			if e.AdoptionStatus.Determined() {
				p.determined++
				if e.AdoptionStatus == event.VerdictAdopted {
					p.adopted++
				}
			}
		}
	}
	return p
}

func computeMetrics(p partitions) Metrics {
	var m Metrics

	if len(p.maxTurnPerTask) > 0 {
		var sum int
		for _, maxTurn := range p.maxTurnPerTask {
			sum += maxTurn + 1
		}
		m.AvgTurnsPerTask = float64(sum) / float64(len(p.maxTurnPerTask))
	}

	m.AIDependency = ratio(p.assistant, p.user+p.assistant)
	m.CodeEditRatio = min(ratio(p.codeEdits, p.assistantCode), 1)
	m.AdoptionRate = ratio(p.adopted, p.determined)

	selfModified := 0
	for task := range p.aiCodeTasks {
		if p.editTasks[task] {
			selfModified++
		}
	}
	m.SelfModificationRate = ratio(selfModified, len(p.aiCodeTasks))

	debugging := 0
	seen := make(map[event.Category]bool)
	for _, e := range p.conversational {
		if e.Category == event.CategoryDebugging {
			debugging++
		}
		if e.Category.Defined() {
			seen[e.Category] = true
		}
	}
	m.DebuggingFrequency = ratio(debugging, len(p.conversational))
	m.ExplorationBreadth = ratio(len(seen), len(event.Categories))

	return m
}

// dominantCategory returns the most frequent category among conversational
// events. Ties go to the category encountered first.
func dominantCategory(conversational []event.Event) event.Category {
	counts := make(map[event.Category]int)
	var order []event.Category
	for _, e := range conversational {
		if e.Category == "" {
			continue
		}
		if _, ok := counts[e.Category]; !ok {
			order = append(order, e.Category)
		}
		counts[e.Category]++
	}

	best := event.CategoryUnknown
	bestCount := 0
	for _, c := range order {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// ratio divides, yielding 0 for an empty denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
