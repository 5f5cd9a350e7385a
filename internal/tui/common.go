package tui

import (
	"fmt"
	"time"

	"github.com/ecamli/monk/internal/auth"
	"github.com/ecamli/monk/internal/dates"
	"github.com/ecamli/monk/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewAnalytics
	viewSettings
)

var viewNames = []string{"Tasks", "Analytics", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type tasksDataMsg struct {
	tasks    []store.Task
	hists    map[string]store.History
	settings store.Settings
}

type timerStartedMsg struct {
	timer *store.ActiveTimer
}

type timerCancelledMsg struct{}

type sessionCompletedMsg struct {
	record *store.SessionRecord
	bell   bool
}

type identityMsg struct {
	identity auth.Identity
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// shiftDay moves a day key by delta days, resetting to today when the key
// is somehow malformed.
func shiftDay(key string, delta int) string {
	next, err := dates.Shift(key, delta)
	if err != nil {
		return dates.Today()
	}
	return next
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatFocusTime(totalMinutes int) string {
	return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60)
}
