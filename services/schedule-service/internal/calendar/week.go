// Package calendar computes schedule navigation windows.
package calendar

import (
	"time"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
)

// WeekOf returns the 7 dates of the Monday-starting week containing ref,
// ordered Monday through Sunday.
func WeekOf(ref civil.Date) [7]civil.Date {
	// Weekday with Sunday normalized to 7 so the shift back to Monday is
	// always non-negative.
	wd := int(ref.Weekday())
	if wd == int(time.Sunday) {
		wd = 7
	}
	monday := ref.AddDays(-(wd - 1))

	var week [7]civil.Date
	for i := range week {
		week[i] = monday.AddDays(i)
	}
	return week
}

// ShiftWeek moves ref by n whole weeks. Pure: repeated shifts commute and
// ShiftWeek(ShiftWeek(d, n), -n) == d.
func ShiftWeek(ref civil.Date, n int) civil.Date {
	return ref.AddDays(7 * n)
}
