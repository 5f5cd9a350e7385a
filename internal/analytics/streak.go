// Package analytics derives streaks, totals and the activity histogram
// from task histories. Everything here is a pure fold over the data model,
// recomputed on demand; the caller passes the reference day so results are
// reproducible in tests.
package analytics

import (
	"github.com/ecamli/monk/internal/dates"
	"github.com/ecamli/monk/internal/store"
)

// Streak is the consecutive-day result for one task.
type Streak struct {
	Current int
	Best    int
}

// completedOn reports whether the day has at least one completed session.
// Session count per day is irrelevant to streaks, only presence.
func completedOn(hist store.History, day string) bool {
	return len(hist[day]) > 0
}

// TaskStreak computes the current and best streaks of a task as of today.
//
// The forward scan covers exactly [startDate, min(endDate, today)]. A past
// day without activity resets the running count; today never does, an
// in-progress day is not a failure. The backward scan starts from today,
// or yesterday when today has no activity yet, and is bounded below by the
// task's start date.
func TaskStreak(task store.Task, hist store.History, today string) Streak {
	var st Streak

	horizon := dates.Min(task.EndDate, today)
	if task.StartDate <= horizon {
		days, err := dates.Range(task.StartDate, horizon)
		if err == nil {
			run := 0
			for _, day := range days {
				if completedOn(hist, day) {
					run++
				} else if day < today {
					run = 0
				}
				if run > st.Best {
					st.Best = run
				}
			}
		}
	}

	check := today
	if !completedOn(hist, today) {
		prev, err := dates.Shift(today, -1)
		if err != nil {
			return st
		}
		check = prev
	}
	for check >= task.StartDate {
		if !completedOn(hist, check) {
			break
		}
		st.Current++
		prev, err := dates.Shift(check, -1)
		if err != nil {
			break
		}
		check = prev
	}

	return st
}
