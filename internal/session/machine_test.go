package session

import (
	"errors"
	"testing"
	"time"

	"github.com/ecamli/monk/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestMachine pins the clock to noon on 2026-08-15, inside the range
// of tasks created by createTask.
func newTestMachine(t *testing.T, s *store.Store) *Machine {
	t.Helper()
	m, err := New(s)
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}
	m.now = func() time.Time {
		return time.Date(2026, 8, 15, 12, 0, 0, 0, time.Local)
	}
	return m
}

func createTask(t *testing.T, s *store.Store) *store.Task {
	t.Helper()
	task, err := s.CreateTask(store.Task{
		Name:              "Deep Work",
		StartDate:         "2026-08-01",
		EndDate:           "2026-08-31",
		SessionsPerDay:    3,
		MinutesPerSession: 25,
	})
	if err != nil {
		t.Fatal(err)
	}
	return task
}

// ============================================================
// Start
// ============================================================

func TestStartPersistsTimer(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)

	timer, err := m.Start(task.ID, "2026-08-15", 1)
	if err != nil {
		t.Fatal(err)
	}
	if timer.TaskID != task.ID || timer.SessionIndex != 1 {
		t.Fatalf("unexpected timer: %+v", timer)
	}
	if timer.DurationMinutes != 25 {
		t.Fatalf("expected 25 minute duration, got %d", timer.DurationMinutes)
	}
	if want := timer.StartedAt.Add(25 * time.Minute); !timer.ExpectedEnd.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, timer.ExpectedEnd)
	}

	persisted, err := s.ActiveTimer()
	if err != nil {
		t.Fatal(err)
	}
	if persisted == nil || persisted.TaskID != task.ID {
		t.Fatalf("timer not persisted: %+v", persisted)
	}
}

func TestStartConflictIsGlobal(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	a := createTask(t, s)
	b := createTask(t, s)

	if _, err := m.Start(a.ID, "2026-08-15", 1); err != nil {
		t.Fatal(err)
	}

	// A second start fails no matter which task or slot it targets.
	if _, err := m.Start(b.ID, "2026-08-15", 1); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("other task: expected ErrConflict, got %v", err)
	}
	if _, err := m.Start(a.ID, "2026-08-15", 2); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("other slot: expected ErrConflict, got %v", err)
	}
	if _, err := m.Start(a.ID, "2026-08-14", 1); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("other day: expected ErrConflict, got %v", err)
	}
}

func TestStartValidation(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)

	if _, err := m.Start("missing", "2026-08-15", 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing task: expected ErrNotFound, got %v", err)
	}
	if _, err := m.Start(task.ID, "2026-08-15", 0); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("index 0: expected ErrValidation, got %v", err)
	}
	if _, err := m.Start(task.ID, "2026-08-15", 4); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("index beyond quota: expected ErrValidation, got %v", err)
	}
	if _, err := m.Start(task.ID, "garbage", 1); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("bad day: expected ErrValidation, got %v", err)
	}
	if _, err := m.Start(task.ID, "2026-07-31", 1); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("before range: expected ErrValidation, got %v", err)
	}
	if _, err := m.Start(task.ID, "2026-09-01", 1); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("after range: expected ErrValidation, got %v", err)
	}
	// A past day inside the range is fine; a future one is not.
	if _, err := m.Start(task.ID, "2026-08-16", 1); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("future day: expected ErrValidation, got %v", err)
	}
	timer, err := m.Start(task.ID, "2026-08-10", 1)
	if err != nil {
		t.Fatalf("past day in range should work: %v", err)
	}
	if timer.Day != "2026-08-10" {
		t.Fatalf("unexpected day: %s", timer.Day)
	}
}

func TestStartArchivedTask(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)
	s.ArchiveTask(task.ID)

	if _, err := m.Start(task.ID, "2026-08-15", 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Countdown
// ============================================================

func TestRemainingAndExpired(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)

	if m.Remaining(time.Now()) != 0 {
		t.Fatal("idle machine should have zero remaining")
	}

	timer, err := m.Start(task.ID, "2026-08-15", 1)
	if err != nil {
		t.Fatal(err)
	}

	mid := timer.StartedAt.Add(10 * time.Minute)
	if got := m.Remaining(mid); got != 15*time.Minute {
		t.Fatalf("expected 15m remaining, got %v", got)
	}
	if m.Expired(mid) {
		t.Fatal("should not be expired mid-session")
	}

	past := timer.ExpectedEnd.Add(time.Second)
	if got := m.Remaining(past); got != 0 {
		t.Fatalf("remaining must clamp to zero, got %v", got)
	}
	if !m.Expired(past) {
		t.Fatal("should be expired past the end")
	}
	if !m.Expired(timer.ExpectedEnd) {
		t.Fatal("expired exactly at the end")
	}
}

// ============================================================
// Complete / Cancel
// ============================================================

func TestCompleteRecordsAndClears(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)

	if _, err := m.Start(task.ID, "2026-08-15", 2); err != nil {
		t.Fatal(err)
	}

	rec, err := m.Complete()
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.Day != "2026-08-15" || rec.Index != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if m.Active() != nil {
		t.Fatal("machine should be idle after complete")
	}
	if timer, _ := s.ActiveTimer(); timer != nil {
		t.Fatal("persisted timer should be cleared")
	}

	hist, _ := s.History(task.ID)
	if len(hist["2026-08-15"]) != 1 {
		t.Fatalf("expected 1 record, got %d", len(hist["2026-08-15"]))
	}
}

func TestCompleteIdleIsNoop(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)

	if _, err := m.Start(task.ID, "2026-08-15", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Complete(); err != nil {
		t.Fatal(err)
	}

	// Second complete finds the slot empty: nil record, nil error, and no
	// second history row.
	rec, err := m.Complete()
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
	hist, _ := s.History(task.ID)
	if len(hist["2026-08-15"]) != 1 {
		t.Fatalf("double-recorded: %d rows", len(hist["2026-08-15"]))
	}
}

func TestCancelLeavesNoHistory(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)

	if _, err := m.Start(task.ID, "2026-08-15", 1); err != nil {
		t.Fatal(err)
	}

	cancelled, err := m.Cancel()
	if err != nil {
		t.Fatal(err)
	}
	if !cancelled {
		t.Fatal("expected cancellation")
	}
	if m.Active() != nil {
		t.Fatal("machine should be idle after cancel")
	}

	hist, _ := s.History(task.ID)
	if len(hist) != 0 {
		t.Fatalf("cancel must not write history: %+v", hist)
	}

	// Cancelling when idle reports false without error.
	cancelled, err = m.Cancel()
	if err != nil {
		t.Fatal(err)
	}
	if cancelled {
		t.Fatal("nothing to cancel")
	}

	// The slot is free again.
	if _, err := m.Start(task.ID, "2026-08-15", 1); err != nil {
		t.Fatalf("restart after cancel: %v", err)
	}
}

// ============================================================
// Restart resume
// ============================================================

func TestNewResumesPersistedTimer(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)

	if _, err := m.Start(task.ID, "2026-08-15", 1); err != nil {
		t.Fatal(err)
	}

	// A fresh machine over the same store sees the running session.
	m2, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	active := m2.Active()
	if active == nil || active.TaskID != task.ID || active.SessionIndex != 1 {
		t.Fatalf("expected resumed timer, got %+v", active)
	}
	if _, err := m2.Start(task.ID, "2026-08-15", 2); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("resumed machine must still enforce exclusion, got %v", err)
	}
}

// ============================================================
// Monk mode
// ============================================================

func TestLocked(t *testing.T) {
	s := newTestStore(t)
	m := newTestMachine(t, s)
	task := createTask(t, s)
	other := createTask(t, s)

	on := store.Settings{MonkMode: true}
	off := store.Settings{MonkMode: false}

	// Idle: nothing is locked regardless of the setting.
	if m.Locked(on, other.ID) {
		t.Fatal("nothing should be locked while idle")
	}

	if _, err := m.Start(task.ID, "2026-08-15", 1); err != nil {
		t.Fatal(err)
	}

	if !m.Locked(on, other.ID) {
		t.Fatal("other task should be locked in monk mode")
	}
	if m.Locked(on, task.ID) {
		t.Fatal("owning task is never locked")
	}
	if m.Locked(off, other.ID) {
		t.Fatal("monk mode off locks nothing")
	}
}
