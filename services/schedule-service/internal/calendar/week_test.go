package calendar

import (
	"testing"
	"time"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
)

func TestWeekOf_SundayBelongsToPrecedingMonday(t *testing.T) {
	// 2024-01-07 is a Sunday; its week starts 2024-01-01.
	week := WeekOf(civil.MustParse("2024-01-07"))

	want := []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-05", "2024-01-06", "2024-01-07",
	}
	for i, w := range want {
		if week[i].String() != w {
			t.Fatalf("day %d: expected %s, got %s", i, w, week[i])
		}
	}
}

func TestWeekOf_StartsMondayForEveryWeekday(t *testing.T) {
	for i := 0; i < 7; i++ {
		ref := civil.MustParse("2024-01-01").AddDays(i)
		week := WeekOf(ref)
		if week[0].Weekday() != time.Monday {
			t.Fatalf("ref %s: week starts on %s", ref, week[0].Weekday())
		}
		if week[6].Weekday() != time.Sunday {
			t.Fatalf("ref %s: week ends on %s", ref, week[6].Weekday())
		}
		// The reference date is inside its own week.
		found := false
		for _, d := range week {
			if d == ref {
				found = true
			}
		}
		if !found {
			t.Fatalf("ref %s not inside its own week", ref)
		}
	}
}

func TestWeekOf_CrossesMonthBoundary(t *testing.T) {
	// 2024-03-01 is a Friday; its week starts 2024-02-26.
	week := WeekOf(civil.MustParse("2024-03-01"))
	if week[0].String() != "2024-02-26" {
		t.Fatalf("expected week start 2024-02-26, got %s", week[0])
	}
}

func TestShiftWeek_Reversible(t *testing.T) {
	d := civil.MustParse("2024-06-12")
	for n := -4; n <= 4; n++ {
		if got := ShiftWeek(ShiftWeek(d, n), -n); got != d {
			t.Fatalf("shift %d not reversible: got %s", n, got)
		}
	}
	if got := ShiftWeek(d, 1); got.String() != "2024-06-19" {
		t.Fatalf("expected 2024-06-19, got %s", got)
	}
	if got := ShiftWeek(ShiftWeek(d, 2), 3); got != ShiftWeek(d, 5) {
		t.Fatalf("shifts do not compose")
	}
}
