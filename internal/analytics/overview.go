package analytics

import (
	"math"

	"github.com/ecamli/monk/internal/dates"
	"github.com/ecamli/monk/internal/store"
)

// HistogramDays is the fixed window of the activity histogram.
const HistogramDays = 30

// TaskStats is the per-task row of the overview.
type TaskStats struct {
	Task      store.Task
	Completed int
	Expected  int
	Rate      float64 // 0..1, 0 when Expected is 0
	Streak    Streak
}

// DayCount is one histogram bin. Days without activity are explicit zeros.
type DayCount struct {
	Day   string
	Count int
}

// Overview is the aggregation over all non-archived tasks.
type Overview struct {
	TotalSessions int
	TotalMinutes  int
	ActiveTasks   int
	BestStreak    int
	PerTask       []TaskStats
	Activity      []DayCount // HistogramDays bins ending today, oldest first
}

// Compute folds the full task/history set into an Overview as of today.
// Archived tasks are excluded entirely. Each completed record costs its own
// task's per-session minutes; there is no global average.
func Compute(tasks []store.Task, hists map[string]store.History, today string) Overview {
	ov := Overview{}

	byDay := map[string]int{}
	for _, task := range tasks {
		if task.Archived {
			continue
		}
		ov.ActiveTasks++

		hist := hists[task.ID]
		completed := 0
		for day, recs := range hist {
			n := len(recs)
			completed += n
			byDay[day] += n
		}
		ov.TotalSessions += completed
		ov.TotalMinutes += completed * task.MinutesPerSession

		st := TaskStreak(task, hist, today)
		if st.Best > ov.BestStreak {
			ov.BestStreak = st.Best
		}

		expected := 0
		if n, err := dates.Count(task.StartDate, task.EndDate); err == nil {
			expected = int(math.Round(float64(n) * float64(task.SessionsPerDay)))
		}
		rate := 0.0
		if expected > 0 {
			rate = float64(completed) / float64(expected)
		}
		ov.PerTask = append(ov.PerTask, TaskStats{
			Task:      task,
			Completed: completed,
			Expected:  expected,
			Rate:      rate,
			Streak:    st,
		})
	}

	ov.Activity = make([]DayCount, 0, HistogramDays)
	for i := HistogramDays - 1; i >= 0; i-- {
		day, err := dates.Shift(today, -i)
		if err != nil {
			continue
		}
		ov.Activity = append(ov.Activity, DayCount{Day: day, Count: byDay[day]})
	}

	return ov
}

// TaskProgress totals one task's completed sessions against its expected
// total, the number shown on each task block header.
func TaskProgress(task store.Task, hist store.History) (completed, expected int) {
	for _, recs := range hist {
		completed += len(recs)
	}
	if n, err := dates.Count(task.StartDate, task.EndDate); err == nil {
		expected = n * task.SessionsPerDay
	}
	return completed, expected
}
