package services

import (
	"math"
	"strings"
	"time"
)

// DefaultHorizonDays is the planning window used when an assignment has no
// usable due date.
const DefaultHorizonDays = 14

// NormalizeDueDate returns a canonical deadline. A missing date becomes the
// default horizon; past dates pass through untouched, the planners clamp the
// milestones they derive from them.
func NormalizeDueDate(due *time.Time, now time.Time) time.Time {
	if due == nil || due.IsZero() {
		return now.AddDate(0, 0, DefaultHorizonDays)
	}
	return *due
}

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseDueDate never fails: anything unparseable is treated as absent and
// falls back to the default horizon.
func ParseDueDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.AddDate(0, 0, DefaultHorizonDays)
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return now.AddDate(0, 0, DefaultHorizonDays)
}

// DaysAvailable is the time budget in whole days, never less than 1, so
// offset arithmetic downstream never divides by or subtracts past zero.
func DaysAvailable(due, now time.Time) int {
	days := int(math.Ceil(due.Sub(now).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
