package entry

import "time"

// Canonicalize normalizes a point in time to the calendar date it names:
// midnight UTC, no time-of-day, no zone. All date comparisons in this package
// operate on canonical dates only.
func Canonicalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextOccurrence returns the date an entry should be compared against a
// reference date with. A non-recurring entry is due on its anchor date as is.
// A recurring entry is due on the anchor's day-of-month projected onto the
// reference month, advanced one calendar month at a time until the projection
// is on or after the reference. Days that do not exist in a projection month
// (e.g. the 31st in April) clamp to the last day of that month.
//
// The function is pure: it never modifies the anchor and always yields the
// same result for the same inputs.
func NextOccurrence(anchor time.Time, recurring bool, reference time.Time) time.Time {
	anchor = Canonicalize(anchor)
	if !recurring {
		return anchor
	}
	reference = Canonicalize(reference)

	year, month := reference.Year(), reference.Month()
	occurrence := projectDay(year, month, anchor.Day())
	// One month forward is always enough to pass the reference, but keep a
	// hard bound so an invalid input can never loop forever.
	for i := 0; i < 12 && occurrence.Before(reference); i++ {
		month++
		if month > time.December {
			month = time.January
			year++
		}
		occurrence = projectDay(year, month, anchor.Day())
	}
	return occurrence
}

// DaysBetween returns the number of calendar days from one date to another,
// negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(Canonicalize(to).Sub(Canonicalize(from)).Hours() / 24)
}

func projectDay(year int, month time.Month, day int) time.Time {
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
