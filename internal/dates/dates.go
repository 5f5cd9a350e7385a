// Package dates works with calendar days identified by zero-padded
// YYYY-MM-DD keys. The fixed-width format makes string comparison of two
// keys equivalent to chronological comparison, which the rest of the app
// relies on instead of comparing time.Time values.
package dates

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Layout is the canonical day-key format.
const Layout = "2006-01-02"

// ErrInvalidRange is returned when a range's start day is after its end day.
var ErrInvalidRange = errors.New("start day is after end day")

// DayKey returns the canonical key for the local calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the key for the current local calendar day.
func Today() string {
	return DayKey(time.Now())
}

// Parse converts a day key back to a local midnight time.
func Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day key %q: %w", key, err)
	}
	return t, nil
}

// Shift returns the key delta calendar days away from key.
func Shift(key string, delta int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, delta)), nil
}

// Range enumerates every day from start to end inclusive, ascending.
// It fails with ErrInvalidRange when start is after end; callers are
// expected to validate their bounds first.
func Range(start, end string) ([]string, error) {
	st, err := Parse(start)
	if err != nil {
		return nil, err
	}
	if _, err := Parse(end); err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("range %s..%s: %w", start, end, ErrInvalidRange)
	}

	var days []string
	for d := st; ; d = d.AddDate(0, 0, 1) {
		key := DayKey(d)
		if key > end {
			break
		}
		days = append(days, key)
	}
	return days, nil
}

// Count returns the inclusive number of days between start and end.
func Count(start, end string) (int, error) {
	st, err := Parse(start)
	if err != nil {
		return 0, err
	}
	en, err := Parse(end)
	if err != nil {
		return 0, err
	}
	if start > end {
		return 0, fmt.Errorf("count %s..%s: %w", start, end, ErrInvalidRange)
	}
	// Round to absorb DST-shifted local midnights.
	return int(math.Round(en.Sub(st).Hours()/24)) + 1, nil
}

// Min returns the chronologically earlier of two day keys.
func Min(a, b string) string {
	if a < b {
		return a
	}
	return b
}
