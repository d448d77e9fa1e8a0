package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	b := time.Date(2026, 3, 1, 18, 30, 0, 0, time.Local)
	c := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Fatalf("expected same day for %v and %v", a, b)
	}
	if SameDay(a, c) {
		t.Fatalf("expected different days for %v and %v", a, c)
	}
}

func TestMonthEnd(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"2026-02": "2026-02-28",
		"2024-02": "2024-02-29",
		"2026-12": "2026-12-31",
		"2026-04": "2026-04-30",
	}
	for month, want := range tests {
		start, err := ParseMonth(month)
		if err != nil {
			t.Fatalf("parse month %s: %v", month, err)
		}
		if got := MonthEnd(start).Format(DayLayout); got != want {
			t.Fatalf("month %s: expected %s, got %s", month, want, got)
		}
	}
}

func TestParseMonth_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "2026-13", "03-2026", "2026/03"} {
		if _, err := ParseMonth(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}

func TestRangeDays(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	days := RangeDays(from, to)
	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}
	if days[3].Format(DayLayout) != "2026-03-02" {
		t.Fatalf("unexpected last day %s", days[3].Format(DayLayout))
	}
}
