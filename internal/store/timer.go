package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ActiveTimer returns the persisted running session, or nil when idle.
func (s *Store) ActiveTimer() (*ActiveTimer, error) {
	t := &ActiveTimer{}
	var startedAt, expectedEnd string
	err := s.db.QueryRow(
		`SELECT task_id, day, session_index, started_at, duration_minutes, expected_end
		 FROM active_timer WHERE id = 1`,
	).Scan(&t.TaskID, &t.Day, &t.SessionIndex, &startedAt, &t.DurationMinutes, &expectedEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active timer: %w", err)
	}
	t.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	t.ExpectedEnd, _ = time.Parse(time.RFC3339, expectedEnd)
	return t, nil
}

// PutActiveTimer claims the singleton timer slot. Fails with ErrConflict
// when a timer is already set; the existing row is never overwritten.
func (s *Store) PutActiveTimer(t ActiveTimer) error {
	res, err := s.db.Exec(
		`INSERT INTO active_timer (id, task_id, day, session_index, started_at, duration_minutes, expected_end)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		t.TaskID, t.Day, t.SessionIndex,
		t.StartedAt.UTC().Format(time.RFC3339), t.DurationMinutes,
		t.ExpectedEnd.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("put active timer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ClearActiveTimer releases the timer slot. Clearing an empty slot is fine.
func (s *Store) ClearActiveTimer() error {
	if _, err := s.db.Exec(`DELETE FROM active_timer WHERE id = 1`); err != nil {
		return fmt.Errorf("clear active timer: %w", err)
	}
	return nil
}
