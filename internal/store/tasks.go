package store

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecamli/monk/internal/dates"
)

// CreateTask validates and inserts a new task. A zero ID gets a fresh one;
// history starts empty and archived is false regardless of input.
func (s *Store) CreateTask(t Task) (*Task, error) {
	if err := validateTask(t); err != nil {
		return nil, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, name, color, icon, start_date, end_date, sessions_per_day, minutes_per_session, archived, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		t.ID, strings.TrimSpace(t.Name), t.Color, t.Icon, t.StartDate, t.EndDate,
		t.SessionsPerDay, t.MinutesPerSession, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(t.ID)
}

func validateTask(t Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if t.SessionsPerDay <= 0 {
		return fmt.Errorf("%w: sessions per day must be positive", ErrValidation)
	}
	if t.MinutesPerSession <= 0 {
		return fmt.Errorf("%w: minutes per session must be positive", ErrValidation)
	}
	if _, err := dates.Parse(t.StartDate); err != nil {
		return fmt.Errorf("%w: bad start date %q", ErrValidation, t.StartDate)
	}
	if _, err := dates.Parse(t.EndDate); err != nil {
		return fmt.Errorf("%w: bad end date %q", ErrValidation, t.EndDate)
	}
	if t.EndDate < t.StartDate {
		return fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	if t.Color != "" && !slices.Contains(Palette, t.Color) {
		return fmt.Errorf("%w: color %q not in palette", ErrValidation, t.Color)
	}
	return nil
}

func (s *Store) GetTask(id string) (*Task, error) {
	t := &Task{}
	var createdAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, color, icon, start_date, end_date, sessions_per_day, minutes_per_session, archived, created_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Color, &t.Icon, &t.StartDate, &t.EndDate,
		&t.SessionsPerDay, &t.MinutesPerSession, &archived, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	t.Archived = archived == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

func (s *Store) ListTasks(includeArchived bool) ([]Task, error) {
	query := `SELECT id, name, color, icon, start_date, end_date, sessions_per_day, minutes_per_session, archived, created_at FROM tasks`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var createdAt string
		var archived int
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Icon, &t.StartDate, &t.EndDate,
			&t.SessionsPerDay, &t.MinutesPerSession, &archived, &createdAt); err != nil {
			return nil, err
		}
		t.Archived = archived == 1
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask rewrites a task's editable attributes, with the same
// validation as CreateTask. The id, archive flag and history are untouched.
func (s *Store) UpdateTask(t Task) error {
	if err := validateTask(t); err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET name = ?, color = ?, icon = ?, start_date = ?, end_date = ?,
		 sessions_per_day = ?, minutes_per_session = ? WHERE id = ?`,
		strings.TrimSpace(t.Name), t.Color, t.Icon, t.StartDate, t.EndDate,
		t.SessionsPerDay, t.MinutesPerSession, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update task %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

// ArchiveTask soft-deletes a task. Re-archiving is a no-op, not an error.
func (s *Store) ArchiveTask(id string) error {
	res, err := s.db.Exec(`UPDATE tasks SET archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archive task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("archive task %s: %w", id, ErrNotFound)
	}
	return nil
}
