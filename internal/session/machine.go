// Package session owns the single running focus session. The machine is
// the only writer of the active-timer slot: idle → running via Start, and
// running back to idle via Complete or Cancel. Nothing else holds a handle
// to the timer.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/ecamli/monk/internal/dates"
	"github.com/ecamli/monk/internal/store"
)

// Machine enforces the one-session-at-a-time invariant. The mutex guards
// the check-then-set on the slot so concurrent Start calls cannot both win.
type Machine struct {
	mu     sync.Mutex
	st     *store.Store
	active *store.ActiveTimer

	now func() time.Time
}

// New builds a machine, resuming a previously persisted running session
// if one survived a restart.
func New(st *store.Store) (*Machine, error) {
	active, err := st.ActiveTimer()
	if err != nil {
		return nil, fmt.Errorf("load active timer: %w", err)
	}
	return &Machine{st: st, active: active, now: time.Now}, nil
}

// Active returns a copy of the running timer, or nil when idle.
func (m *Machine) Active() *store.ActiveTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	cp := *m.active
	return &cp
}

// Start begins a session for the given task, day and slot index.
//
// Fails with store.ErrConflict when any session is already running — the
// exclusion is global, not per task. The target must be a non-archived
// task, a slot within 1..sessionsPerDay, and a day inside the task's range
// that is not in the future.
func (m *Machine) Start(taskID, day string, index int) (*store.ActiveTimer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, store.ErrConflict
	}

	task, err := m.st.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.Archived {
		return nil, fmt.Errorf("start session for %s: %w", taskID, store.ErrNotFound)
	}
	if index < 1 || index > task.SessionsPerDay {
		return nil, fmt.Errorf("%w: session index %d out of 1..%d", store.ErrValidation, index, task.SessionsPerDay)
	}
	if _, err := dates.Parse(day); err != nil {
		return nil, fmt.Errorf("%w: bad day key %q", store.ErrValidation, day)
	}
	if day < task.StartDate || day > task.EndDate {
		return nil, fmt.Errorf("%w: day %s outside task range", store.ErrValidation, day)
	}
	if today := dates.DayKey(m.now()); day > today {
		return nil, fmt.Errorf("%w: cannot start a session in the future", store.ErrValidation)
	}

	now := m.now()
	timer := store.ActiveTimer{
		TaskID:          taskID,
		Day:             day,
		SessionIndex:    index,
		StartedAt:       now,
		DurationMinutes: task.MinutesPerSession,
		ExpectedEnd:     now.Add(time.Duration(task.MinutesPerSession) * time.Minute),
	}
	if err := m.st.PutActiveTimer(timer); err != nil {
		return nil, err
	}
	m.active = &timer

	cp := timer
	return &cp, nil
}

// Remaining is the side-effect-free countdown read: zero when idle or when
// the session has run past its expected end.
func (m *Machine) Remaining(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return 0
	}
	left := m.active.ExpectedEnd.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether a running session has reached its expected end.
func (m *Machine) Expired(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil && !now.Before(m.active.ExpectedEnd)
}

// Complete records the running session as completed and clears the timer.
// Calling it with no active timer is a no-op, so a repeated expiry check
// and a racing manual completion cannot double-record: whichever lands
// first wins and the other finds the slot empty.
func (m *Machine) Complete() (*store.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil, nil
	}

	rec, err := m.st.RecordCompletion(m.active.TaskID, m.active.Day, m.active.SessionIndex)
	if err != nil {
		// The slot is released even when the task vanished underneath us;
		// a stuck timer would block every future session.
		_ = m.st.ClearActiveTimer()
		m.active = nil
		return nil, err
	}
	if err := m.st.ClearActiveTimer(); err != nil {
		return nil, err
	}
	m.active = nil
	return rec, nil
}

// Cancel aborts the running session without touching history. It reports
// whether there was anything to cancel.
func (m *Machine) Cancel() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return false, nil
	}
	if err := m.st.ClearActiveTimer(); err != nil {
		return false, err
	}
	m.active = nil
	return true, nil
}

// Locked is the monk-mode gating predicate: with monk mode on and a session
// running, every task except the owning one is non-interactive.
func (m *Machine) Locked(settings store.Settings, taskID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return settings.MonkMode && m.active != nil && m.active.TaskID != taskID
}
