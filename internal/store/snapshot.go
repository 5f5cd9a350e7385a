package store

import (
	"fmt"

	"github.com/ecamli/monk/internal/auth"
)

// TaskState is a task together with its full completion history.
type TaskState struct {
	Task    Task    `json:"task"`
	History History `json:"history"`
}

// Snapshot is the whole persisted state in one value, used by the export
// artifact. Transient UI state has no persisted form and so never appears
// here.
type Snapshot struct {
	User        auth.Identity `json:"user"`
	Tasks       []TaskState   `json:"tasks"`
	ActiveTimer *ActiveTimer  `json:"active_timer"`
	Settings    Settings      `json:"settings"`
}

// Snapshot assembles the full state, archived tasks included.
func (s *Store) Snapshot() (*Snapshot, error) {
	user, err := s.Identity()
	if err != nil {
		return nil, err
	}
	tasks, err := s.ListTasks(true)
	if err != nil {
		return nil, err
	}
	hists, err := s.Histories()
	if err != nil {
		return nil, err
	}
	timer, err := s.ActiveTimer()
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings()
	if err != nil {
		return nil, fmt.Errorf("snapshot settings: %w", err)
	}

	snap := &Snapshot{
		User:        user,
		ActiveTimer: timer,
		Settings:    settings,
	}
	for _, t := range tasks {
		hist := hists[t.ID]
		if hist == nil {
			hist = History{}
		}
		snap.Tasks = append(snap.Tasks, TaskState{Task: t, History: hist})
	}
	return snap, nil
}
