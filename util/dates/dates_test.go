package dates

import (
	"testing"
	"time"
)

func d(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"one shared day", "2025-01-10", "2025-01-12", "2025-01-11", "2025-01-13", true},
		{"touching ranges do not conflict", "2025-01-10", "2025-01-12", "2025-01-12", "2025-01-14", false},
		{"touching the other way", "2025-01-12", "2025-01-14", "2025-01-10", "2025-01-12", false},
		{"contained", "2025-01-01", "2025-01-31", "2025-01-10", "2025-01-12", true},
		{"disjoint", "2025-01-01", "2025-01-05", "2025-01-10", "2025-01-12", false},
		{"identical", "2025-01-10", "2025-01-12", "2025-01-10", "2025-01-12", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Overlaps(d(c.aStart), d(c.aEnd), d(c.bStart), d(c.bEnd))
			if got != c.want {
				t.Fatalf("Overlaps(%s..%s, %s..%s) = %v, want %v", c.aStart, c.aEnd, c.bStart, c.bEnd, got, c.want)
			}
		})
	}
}

func TestCovers(t *testing.T) {
	start, end := d("2025-01-10"), d("2025-01-12")
	if !Covers(start, end, d("2025-01-10")) {
		t.Fatal("start day should be covered")
	}
	if !Covers(start, end, d("2025-01-11")) {
		t.Fatal("middle day should be covered")
	}
	if Covers(start, end, d("2025-01-12")) {
		t.Fatal("end day must not be covered (half-open range)")
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2025, 1, 11, 23, 45, 1, 0, time.UTC)
	if got := Today(now); !got.Equal(d("2025-01-11")) {
		t.Fatalf("Today = %v, want 2025-01-11", got)
	}
}

func TestDaysBetween(t *testing.T) {
	if n := DaysBetween(d("2025-01-10"), d("2025-01-12")); n != 2 {
		t.Fatalf("DaysBetween = %d, want 2", n)
	}
	if n := DaysBetween(d("2025-01-10"), d("2025-01-10")); n != 0 {
		t.Fatalf("DaysBetween same day = %d, want 0", n)
	}
}
