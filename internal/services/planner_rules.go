package services

import (
	"fmt"
	"time"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

// PlannedMilestone is a planner-emitted milestone before persistence.
type PlannedMilestone struct {
	Title          string
	Description    string
	Phase          string
	TargetDate     time.Time
	EstimatedHours float64
}

const pastClampGrace = 12 * time.Hour

type rulePhase struct {
	title       string
	description string
	phase       string
	maxOffset   int
	hours       float64
}

var quizPhases = []rulePhase{
	{"Review materials", "Go back through class notes and readings for %s.", "review", 5, 2},
	{"Create summary", "Condense the key points for %s into a one-page summary sheet.", "summarize", 3, 2},
	{"Practice questions", "Work through practice problems or past questions for %s.", "practice", 2, 2},
	{"Final review", "Quick final pass over the summary sheet the day before %s.", "final-review", 1, 1},
}

var takeHomePhases = []rulePhase{
	{"Research & planning", "Gather sources and outline an approach for %s.", "research", 7, 2},
	{"First draft", "Produce a complete rough version of %s.", "draft", 4, 3},
	{"Review & revise", "Reread the draft of %s and fix structure and gaps.", "review", 2, 2},
	{"Final polish", "Proofread and finish formatting %s before submission.", "finalize", 1, 1},
}

// PlanWithRules is the rule-based decomposition of an assignment into four
// fixed phases. It is a pure function of (assignment, now) and never fails,
// which makes it the universal fallback when generation is unavailable.
func PlanWithRules(assignment *types.Assignment, now time.Time) []PlannedMilestone {
	due := NormalizeDueDate(assignment.DueAt, now)
	daysAvailable := DaysAvailable(due, now)

	phases := takeHomePhases
	if assignment.IsQuiz {
		phases = quizPhases
	}

	out := make([]PlannedMilestone, 0, len(phases))
	for _, p := range phases {
		offset := p.maxOffset
		if daysAvailable-1 < offset {
			offset = daysAvailable - 1
		}
		// The closing phase always sits one day before the deadline.
		if p.maxOffset == 1 {
			offset = 1
		}
		target := due.AddDate(0, 0, -offset)
		if !target.After(now) {
			target = now.Add(pastClampGrace)
		}
		out = append(out, PlannedMilestone{
			Title:          p.title,
			Description:    fmt.Sprintf(p.description, assignment.Name),
			Phase:          p.phase,
			TargetDate:     target,
			EstimatedHours: p.hours,
		})
	}
	return out
}
