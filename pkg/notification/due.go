package notification

import (
	"sort"
	"time"

	"github.com/budgetbot/budgetbot/pkg/entry"
)

// DueEntry pairs an entry with the occurrence it resolves to against a
// reference date. ResolvedDate is derived — the entry's stored anchor stays
// untouched.
type DueEntry struct {
	Entry         entry.Entry
	ResolvedDate  time.Time
	DaysRemaining int
}

// DueSoon returns the entries due within the inclusive [0, windowDays] window
// around the reference date, ordered by resolved date ascending with ties kept
// in insertion order. The input slice is never reordered; the result is empty
// (not nil) when nothing is due.
func DueSoon(entries []entry.Entry, reference time.Time, windowDays int) []DueEntry {
	reference = entry.Canonicalize(reference)

	due := make([]DueEntry, 0)
	for _, e := range entries {
		resolved := entry.NextOccurrence(e.Date, e.Recurring, reference)
		days := entry.DaysBetween(reference, resolved)
		if days < 0 || days > windowDays {
			continue
		}
		due = append(due, DueEntry{Entry: e, ResolvedDate: resolved, DaysRemaining: days})
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ResolvedDate.Before(due[j].ResolvedDate)
	})
	return due
}
