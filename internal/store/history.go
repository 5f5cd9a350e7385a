package store

import (
	"fmt"
	"time"

	"github.com/ecamli/monk/internal/dates"
)

// RecordCompletion upserts a completed session record. Re-completing the
// same (day, index) pair keeps a single record and advances completed_at.
// Fails with ErrNotFound when the task id does not resolve to a
// non-archived task, and ErrValidation for an out-of-range slot index.
func (s *Store) RecordCompletion(taskID, day string, index int) (*SessionRecord, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.Archived {
		return nil, fmt.Errorf("record completion for %s: %w", taskID, ErrNotFound)
	}
	if index < 1 || index > task.SessionsPerDay {
		return nil, fmt.Errorf("%w: session index %d out of 1..%d", ErrValidation, index, task.SessionsPerDay)
	}
	if _, err := dates.Parse(day); err != nil {
		return nil, fmt.Errorf("%w: bad day key %q", ErrValidation, day)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO session_records (task_id, day, session_index, completed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(task_id, day, session_index) DO UPDATE SET completed_at = excluded.completed_at`,
		taskID, day, index, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}

	return &SessionRecord{TaskID: taskID, Day: day, Index: index, CompletedAt: now}, nil
}

// History returns every completed record of a task keyed by day.
func (s *Store) History(taskID string) (History, error) {
	rows, err := s.db.Query(
		`SELECT task_id, day, session_index, completed_at
		 FROM session_records WHERE task_id = ? ORDER BY day, session_index`, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	hist := History{}
	for rows.Next() {
		var r SessionRecord
		var completedAt string
		if err := rows.Scan(&r.TaskID, &r.Day, &r.Index, &completedAt); err != nil {
			return nil, err
		}
		r.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		hist[r.Day] = append(hist[r.Day], r)
	}
	return hist, rows.Err()
}

// Histories returns the history of every task, keyed by task id.
func (s *Store) Histories() (map[string]History, error) {
	rows, err := s.db.Query(
		`SELECT task_id, day, session_index, completed_at
		 FROM session_records ORDER BY task_id, day, session_index`,
	)
	if err != nil {
		return nil, fmt.Errorf("load histories: %w", err)
	}
	defer rows.Close()

	all := map[string]History{}
	for rows.Next() {
		var r SessionRecord
		var completedAt string
		if err := rows.Scan(&r.TaskID, &r.Day, &r.Index, &completedAt); err != nil {
			return nil, err
		}
		r.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		hist, ok := all[r.TaskID]
		if !ok {
			hist = History{}
			all[r.TaskID] = hist
		}
		hist[r.Day] = append(hist[r.Day], r)
	}
	return all, rows.Err()
}
