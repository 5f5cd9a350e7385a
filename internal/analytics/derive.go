package analytics

import "github.com/ecamli/monk/internal/store"

// SlotState is the displayed state of one session box. Only completed is
// ever stored; running comes from the active timer and idle is the absence
// of both.
type SlotState int

const (
	SlotIdle SlotState = iota
	SlotRunning
	SlotCompleted
)

// DeriveState projects a session slot's state from the history plus the
// active timer singleton.
func DeriveState(taskID string, hist store.History, day string, index int, active *store.ActiveTimer) SlotState {
	if active != nil && active.TaskID == taskID && active.Day == day && active.SessionIndex == index {
		return SlotRunning
	}
	for _, r := range hist[day] {
		if r.Index == index {
			return SlotCompleted
		}
	}
	return SlotIdle
}
