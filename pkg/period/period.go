// Package period computes the calendar windows used by both the stats
// endpoint and the client-side filter, so the two always agree on which
// dates fall inside a month or the current week.
package period

import (
	"fmt"
	"time"
)

// MonthRange returns the half-open window [first day 00:00, first day of
// the next month) for a month given as "YYYY-MM". The upper bound being
// exclusive makes the last calendar day inclusive.
func MonthRange(month string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", month)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0), nil
}

// WeekRange returns the half-open window for the calendar week containing
// now, running Sunday 00:00 through the following Sunday (exclusive), i.e.
// Sunday through Saturday inclusive.
func WeekRange(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// Contains reports whether t falls inside the half-open window [from, to).
func Contains(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
