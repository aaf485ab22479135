// Package civil implements a date-only value type for wall-calendar dates.
//
// Appointment dates are calendar days, not instants: "2024-03-10" must report
// year 2024, month 3, day 10 no matter which timezone the process runs in.
// Arithmetic therefore never touches the local clock; when a time.Time is
// unavoidable the date is anchored to midday UTC, far from any DST or
// offset boundary.
package civil

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Date is a calendar date with no time-of-day and no timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a canonical zero-padded YYYY-MM-DD value. Non-canonical
// forms ("2024-3-7", "2024-02-30") are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	d := Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	if d.String() != s {
		return Date{}, fmt.Errorf("invalid date %q: not canonical YYYY-MM-DD", s)
	}
	return d, nil
}

// MustParse is ParseDate for tests and constants; it panics on error.
func MustParse(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the current date in the given location.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	return Date{Year: now.Year(), Month: now.Month(), Day: now.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// anchor returns the date at midday UTC. Midday keeps day-of extraction
// stable under any conversion a caller might apply.
func (d Date) anchor() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (earlier for negative n), carrying
// across month and year boundaries.
func (d Date) AddDays(n int) Date {
	t := d.anchor().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Weekday returns the day of week (time.Sunday..time.Saturday).
func (d Date) Weekday() time.Weekday {
	return d.anchor().Weekday()
}

// Compare orders dates chronologically: -1, 0, or +1. Because the canonical
// string form is zero-padded, this agrees with lexicographic comparison of
// String() values.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// DaysInMonth returns the length of a month: day zero of the following month
// normalizes to the last day of this one, which handles 28/29/30/31 and leap
// years without a lookup table.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}
