package dates

import (
	"errors"
	"testing"
	"time"
)

func TestDayKeyZeroPadded(t *testing.T) {
	d := time.Date(2026, 3, 7, 15, 4, 5, 0, time.Local)
	if got := DayKey(d); got != "2026-03-07" {
		t.Fatalf("expected 2026-03-07, got %s", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	key := "2026-08-28"
	d, err := Parse(key)
	if err != nil {
		t.Fatal(err)
	}
	if got := DayKey(d); got != key {
		t.Fatalf("round trip: expected %s, got %s", key, got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, key := range []string{"", "2026-8-28", "28-08-2026", "not-a-day"} {
		if _, err := Parse(key); err == nil {
			t.Fatalf("expected error for %q", key)
		}
	}
}

func TestShift(t *testing.T) {
	got, err := Shift("2026-01-01", -1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2025-12-31" {
		t.Fatalf("expected 2025-12-31, got %s", got)
	}

	got, err = Shift("2026-02-28", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
}

func TestRangeInclusive(t *testing.T) {
	days, err := Range("2026-08-30", "2026-09-02")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2026-08-30", "2026-08-31", "2026-09-01", "2026-09-02"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("day %d: expected %s, got %s", i, want[i], days[i])
		}
	}
}

func TestRangeSingleDay(t *testing.T) {
	days, err := Range("2026-08-28", "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 || days[0] != "2026-08-28" {
		t.Fatalf("unexpected range: %v", days)
	}
}

func TestRangeInverted(t *testing.T) {
	_, err := Range("2026-09-02", "2026-08-30")
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestCount(t *testing.T) {
	n, err := Count("2026-08-01", "2026-08-10")
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("expected 10, got %d", n)
	}

	n, err = Count("2026-08-28", "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}

	if _, err := Count("2026-08-10", "2026-08-01"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestStringOrderIsChronological(t *testing.T) {
	// The whole app leans on this property of the fixed-width keys.
	if !("2026-09-01" > "2026-08-31") {
		t.Fatal("key ordering broken across month boundary")
	}
	if !("2027-01-01" > "2026-12-31") {
		t.Fatal("key ordering broken across year boundary")
	}
}

func TestMin(t *testing.T) {
	if got := Min("2026-08-01", "2026-08-02"); got != "2026-08-01" {
		t.Fatalf("expected 2026-08-01, got %s", got)
	}
	if got := Min("2026-08-02", "2026-08-01"); got != "2026-08-01" {
		t.Fatalf("expected 2026-08-01, got %s", got)
	}
}
