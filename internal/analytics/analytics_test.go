package analytics

import (
	"testing"
	"time"

	"github.com/ecamli/monk/internal/store"
)

// testTask builds a task over the given range with the given quota.
func testTask(id, start, end string, perDay, minutes int) store.Task {
	return store.Task{
		ID:                id,
		Name:              "Task " + id,
		StartDate:         start,
		EndDate:           end,
		SessionsPerDay:    perDay,
		MinutesPerSession: minutes,
	}
}

// complete marks the slot done in the history map.
func complete(hist store.History, taskID, day string, index int) {
	hist[day] = append(hist[day], store.SessionRecord{
		TaskID: taskID, Day: day, Index: index, CompletedAt: time.Now(),
	})
}

// ============================================================
// Streaks
// ============================================================

func TestStreakFullRun(t *testing.T) {
	// 10-day task, 2/day: days 1-3 done, today is day 4 with nothing yet.
	task := testTask("a", "2026-08-01", "2026-08-10", 2, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-01", 1)
	complete(hist, "a", "2026-08-02", 1)
	complete(hist, "a", "2026-08-03", 1)

	st := TaskStreak(task, hist, "2026-08-04")
	if st.Best != 3 {
		t.Fatalf("expected best 3, got %d", st.Best)
	}
	// Today is empty, so the backward scan starts from yesterday.
	if st.Current != 3 {
		t.Fatalf("expected current 3, got %d", st.Current)
	}
}

func TestStreakGapResets(t *testing.T) {
	// Days 1 and 3 done, day 2 empty. As of day 4 every run is length 1
	// and the current streak is dead: yesterday (day 3) counts 1... the
	// backward scan stops at the day-2 gap.
	task := testTask("a", "2026-08-01", "2026-08-10", 2, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-01", 1)
	complete(hist, "a", "2026-08-03", 1)

	st := TaskStreak(task, hist, "2026-08-04")
	if st.Best != 1 {
		t.Fatalf("expected best 1, got %d", st.Best)
	}
	if st.Current != 1 {
		t.Fatalf("expected current 1 (yesterday only), got %d", st.Current)
	}
}

func TestStreakTodayEmptyDoesNotBreak(t *testing.T) {
	// An in-progress today without activity is not a failure yet: the
	// forward run survives it.
	task := testTask("a", "2026-08-01", "2026-08-10", 1, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-01", 1)
	complete(hist, "a", "2026-08-02", 1)

	st := TaskStreak(task, hist, "2026-08-03")
	if st.Best != 2 || st.Current != 2 {
		t.Fatalf("expected best=2 current=2, got %+v", st)
	}
}

func TestStreakCompletedTodayCounts(t *testing.T) {
	task := testTask("a", "2026-08-01", "2026-08-10", 1, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-02", 1)
	complete(hist, "a", "2026-08-03", 1)

	st := TaskStreak(task, hist, "2026-08-03")
	if st.Current != 2 {
		t.Fatalf("expected current 2 including today, got %d", st.Current)
	}
}

func TestStreakBoundedByStartDate(t *testing.T) {
	// The backward scan never walks past the task's start date, even when
	// the history has stray records before it.
	task := testTask("a", "2026-08-05", "2026-08-10", 1, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-03", 1) // before start, must be ignored
	complete(hist, "a", "2026-08-05", 1)
	complete(hist, "a", "2026-08-06", 1)

	st := TaskStreak(task, hist, "2026-08-06")
	if st.Current != 2 {
		t.Fatalf("expected current 2, got %d", st.Current)
	}
	if st.Best != 2 {
		t.Fatalf("expected best 2, got %d", st.Best)
	}
}

func TestStreakHorizonStopsAtEndDate(t *testing.T) {
	// The forward scan covers [start, min(end, today)]: days after the
	// task ended never count as misses.
	task := testTask("a", "2026-08-01", "2026-08-03", 1, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-01", 1)
	complete(hist, "a", "2026-08-02", 1)
	complete(hist, "a", "2026-08-03", 1)

	st := TaskStreak(task, hist, "2026-08-20")
	if st.Best != 3 {
		t.Fatalf("expected best 3, got %d", st.Best)
	}
}

func TestStreakTaskNotStartedYet(t *testing.T) {
	task := testTask("a", "2026-09-01", "2026-09-10", 1, 25)
	st := TaskStreak(task, store.History{}, "2026-08-28")
	if st.Best != 0 || st.Current != 0 {
		t.Fatalf("expected zero streaks before start, got %+v", st)
	}
}

func TestStreakMultipleSessionsOneDayCountOnce(t *testing.T) {
	// Streaks count days, not sessions.
	task := testTask("a", "2026-08-01", "2026-08-10", 4, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-01", 1)
	complete(hist, "a", "2026-08-01", 2)
	complete(hist, "a", "2026-08-01", 3)

	st := TaskStreak(task, hist, "2026-08-01")
	if st.Best != 1 || st.Current != 1 {
		t.Fatalf("expected 1/1, got %+v", st)
	}
}

func TestBestNeverBelowCurrent(t *testing.T) {
	task := testTask("a", "2026-08-01", "2026-08-10", 1, 25)
	hist := store.History{}
	for _, day := range []string{"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04"} {
		complete(hist, "a", day, 1)
	}
	st := TaskStreak(task, hist, "2026-08-04")
	if st.Best < st.Current {
		t.Fatalf("best %d below current %d", st.Best, st.Current)
	}
}

// ============================================================
// Slot state derivation
// ============================================================

func TestDeriveState(t *testing.T) {
	hist := store.History{}
	complete(hist, "a", "2026-08-10", 1)

	active := &store.ActiveTimer{TaskID: "a", Day: "2026-08-10", SessionIndex: 2}

	if got := DeriveState("a", hist, "2026-08-10", 1, active); got != SlotCompleted {
		t.Fatalf("slot 1: expected completed, got %v", got)
	}
	if got := DeriveState("a", hist, "2026-08-10", 2, active); got != SlotRunning {
		t.Fatalf("slot 2: expected running, got %v", got)
	}
	if got := DeriveState("a", hist, "2026-08-10", 3, active); got != SlotIdle {
		t.Fatalf("slot 3: expected idle, got %v", got)
	}
	// Same index on another task or day is untouched by the timer.
	if got := DeriveState("b", hist, "2026-08-10", 2, active); got != SlotIdle {
		t.Fatalf("other task: expected idle, got %v", got)
	}
	if got := DeriveState("a", hist, "2026-08-11", 2, active); got != SlotIdle {
		t.Fatalf("other day: expected idle, got %v", got)
	}
}

// ============================================================
// Overview
// ============================================================

func TestComputeSingleDayTask(t *testing.T) {
	// One-day task, 4/day, all four done: completed=4, expected=4, 100%.
	task := testTask("a", "2026-01-01", "2026-01-01", 4, 25)
	hist := store.History{}
	for i := 1; i <= 4; i++ {
		complete(hist, "a", "2026-01-01", i)
	}

	ov := Compute([]store.Task{task}, map[string]store.History{"a": hist}, "2026-01-01")
	if ov.TotalSessions != 4 {
		t.Fatalf("expected 4 sessions, got %d", ov.TotalSessions)
	}
	if ov.TotalMinutes != 100 {
		t.Fatalf("expected 100 minutes, got %d", ov.TotalMinutes)
	}
	if len(ov.PerTask) != 1 {
		t.Fatalf("expected 1 per-task row, got %d", len(ov.PerTask))
	}
	row := ov.PerTask[0]
	if row.Completed != 4 || row.Expected != 4 {
		t.Fatalf("expected 4/4, got %d/%d", row.Completed, row.Expected)
	}
	if row.Rate != 1.0 {
		t.Fatalf("expected rate 1.0, got %f", row.Rate)
	}
}

func TestComputeEmpty(t *testing.T) {
	ov := Compute(nil, nil, "2026-08-28")
	if ov.TotalSessions != 0 || ov.TotalMinutes != 0 || ov.ActiveTasks != 0 || ov.BestStreak != 0 {
		t.Fatalf("expected zero totals, got %+v", ov)
	}
	if len(ov.Activity) != HistogramDays {
		t.Fatalf("expected %d histogram bins, got %d", HistogramDays, len(ov.Activity))
	}
	for _, dc := range ov.Activity {
		if dc.Count != 0 {
			t.Fatalf("expected zero bin, got %+v", dc)
		}
	}
}

func TestComputeSkipsArchived(t *testing.T) {
	live := testTask("a", "2026-08-01", "2026-08-10", 2, 25)
	dead := testTask("b", "2026-08-01", "2026-08-10", 2, 25)
	dead.Archived = true

	hists := map[string]store.History{"a": {}, "b": {}}
	complete(hists["a"], "a", "2026-08-05", 1)
	complete(hists["b"], "b", "2026-08-05", 1)

	ov := Compute([]store.Task{live, dead}, hists, "2026-08-05")
	if ov.ActiveTasks != 1 {
		t.Fatalf("expected 1 active task, got %d", ov.ActiveTasks)
	}
	if ov.TotalSessions != 1 {
		t.Fatalf("archived task leaked into totals: %d", ov.TotalSessions)
	}
}

func TestComputeMinutesWeightedPerTask(t *testing.T) {
	// Two tasks with different session lengths: minutes use each task's
	// own duration, never an average.
	short := testTask("a", "2026-08-01", "2026-08-10", 2, 10)
	long := testTask("b", "2026-08-01", "2026-08-10", 2, 50)

	hists := map[string]store.History{"a": {}, "b": {}}
	complete(hists["a"], "a", "2026-08-05", 1)
	complete(hists["b"], "b", "2026-08-05", 1)

	ov := Compute([]store.Task{short, long}, hists, "2026-08-05")
	if ov.TotalMinutes != 60 {
		t.Fatalf("expected 60 minutes, got %d", ov.TotalMinutes)
	}
}

func TestComputeActivityWindow(t *testing.T) {
	task := testTask("a", "2026-08-01", "2026-08-31", 2, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-28", 1) // today
	complete(hist, "a", "2026-08-28", 2)
	complete(hist, "a", "2026-07-01", 1) // far outside the window

	ov := Compute([]store.Task{task}, map[string]store.History{"a": hist}, "2026-08-28")
	if len(ov.Activity) != HistogramDays {
		t.Fatalf("expected %d bins, got %d", HistogramDays, len(ov.Activity))
	}

	last := ov.Activity[len(ov.Activity)-1]
	if last.Day != "2026-08-28" || last.Count != 2 {
		t.Fatalf("expected today bin with 2, got %+v", last)
	}
	first := ov.Activity[0]
	if first.Day != "2026-07-30" {
		t.Fatalf("expected window to open on 2026-07-30, got %s", first.Day)
	}
	for _, dc := range ov.Activity {
		if dc.Day == "2026-07-01" {
			t.Fatal("out-of-window day leaked into histogram")
		}
	}
}

func TestTaskProgress(t *testing.T) {
	task := testTask("a", "2026-08-01", "2026-08-10", 2, 25)
	hist := store.History{}
	complete(hist, "a", "2026-08-01", 1)
	complete(hist, "a", "2026-08-02", 1)
	complete(hist, "a", "2026-08-02", 2)

	completed, expected := TaskProgress(task, hist)
	if completed != 3 {
		t.Fatalf("expected 3 completed, got %d", completed)
	}
	if expected != 20 {
		t.Fatalf("expected 20 expected, got %d", expected)
	}
}
