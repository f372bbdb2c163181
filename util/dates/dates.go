// Package dates holds the calendar-date arithmetic the booking and
// availability logic is built on. Ranges are half-open
// [start, end): two bookings may touch (one ends the day the other
// starts) without conflicting.
package dates

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Parse reads a YYYY-MM-DD string into a UTC midnight instant.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func Format(t time.Time) string { return t.Format(Layout) }

// Today reduces an instant to its UTC calendar date. Every reconciler
// invocation computes this exactly once.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share at
// least one day. Strict inequality on both sides: touching ranges do
// not overlap. Mirror of the SQL predicate in repository/booking.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Covers reports whether day d falls inside [start, end).
func Covers(start, end, d time.Time) bool {
	return !start.After(d) && end.After(d)
}

// DaysBetween counts whole days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
