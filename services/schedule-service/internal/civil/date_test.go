package civil

import (
	"testing"
	"time"
)

func TestParseDate_Canonical(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2024 || d.Month != time.March || d.Day != 10 {
		t.Fatalf("expected 2024-03-10, got %+v", d)
	}
	if d.String() != "2024-03-10" {
		t.Fatalf("expected canonical string, got %q", d.String())
	}
}

func TestParseDate_RejectsNonCanonical(t *testing.T) {
	for _, s := range []string{"2024-3-10", "2024-03-1", "24-03-10", "2024-02-30", "2024-13-01", "2024/03/10", ""} {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestDate_TimezoneNeutral(t *testing.T) {
	// The date must never shift a day regardless of the process timezone.
	zones := []string{"UTC", "Pacific/Kiritimati", "Pacific/Pago_Pago", "America/Sao_Paulo"}
	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			t.Skipf("zone %s unavailable: %v", name, err)
		}
		d := MustParse("2024-03-10")
		anchored := d.anchor().In(loc)
		// Even after conversion, extracting through the Date API stays put.
		if d.Year != 2024 || d.Month != time.March || d.Day != 10 {
			t.Fatalf("zone %s: date shifted to %+v", name, d)
		}
		_ = anchored
		if got := d.AddDays(0); got != d {
			t.Fatalf("zone %s: AddDays(0) moved date to %s", name, got)
		}
	}
}

func TestAddDays_MonthAndYearBoundaries(t *testing.T) {
	cases := []struct {
		start string
		n     int
		want  string
	}{
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-01-01", 7, "2024-01-08"},
		{"2024-01-08", -7, "2024-01-01"},
	}
	for _, tc := range cases {
		got := MustParse(tc.start).AddDays(tc.n)
		if got.String() != tc.want {
			t.Fatalf("%s + %d days: expected %s, got %s", tc.start, tc.n, tc.want, got)
		}
	}
}

func TestCompare_MatchesLexicographic(t *testing.T) {
	dates := []string{"2023-12-31", "2024-01-01", "2024-01-02", "2024-02-01", "2024-10-09"}
	for i, a := range dates {
		for j, b := range dates {
			da, db := MustParse(a), MustParse(b)
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := da.Compare(db); got != want {
				t.Fatalf("Compare(%s, %s): expected %d, got %d", a, b, want, got)
			}
			if (a < b) != da.Before(db) {
				t.Fatalf("Before(%s, %s) disagrees with string order", a, b)
			}
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Fatalf("DaysInMonth(%d, %s): expected %d, got %d", tc.year, tc.month, tc.want, got)
		}
	}
}

func TestWeekday(t *testing.T) {
	if wd := MustParse("2024-01-07").Weekday(); wd != time.Sunday {
		t.Fatalf("expected Sunday, got %s", wd)
	}
	if wd := MustParse("2024-01-01").Weekday(); wd != time.Monday {
		t.Fatalf("expected Monday, got %s", wd)
	}
}
