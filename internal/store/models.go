package store

import "time"

// Palette is the fixed accent palette tasks can use.
var Palette = []string{"#00FFD1", "#BD00FF", "#42FF00", "#FF0055", "#007FFF"}

// Icons is the glyph set offered by the task creation flow.
var Icons = []string{"⚡", "📘", "🧠", "🔥", "💻", "🎨", "🏋️", "🧘", "🚀", "🛠️", "🎵", "📚"}

// Task is a tracked protocol: a date range with a per-day session quota.
type Task struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Color             string    `json:"color"`
	Icon              string    `json:"icon"`
	StartDate         string    `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate           string    `json:"end_date"`   // YYYY-MM-DD, inclusive
	SessionsPerDay    int       `json:"sessions_per_day"`
	MinutesPerSession int       `json:"minutes_per_session"`
	Archived          bool      `json:"archived"`
	CreatedAt         time.Time `json:"created_at"`
}

// SessionRecord is one completed session slot on one day. Only completed
// sessions are ever stored; idle and running are derived at read time.
type SessionRecord struct {
	TaskID      string    `json:"task_id"`
	Day         string    `json:"day"`
	Index       int       `json:"index"` // 1-based slot within the day
	CompletedAt time.Time `json:"completed_at"`
}

// History maps day keys to that day's records, ordered by index.
type History map[string][]SessionRecord

// ActiveTimer is the single running session. At most one exists.
type ActiveTimer struct {
	TaskID          string    `json:"task_id"`
	Day             string    `json:"day"`
	SessionIndex    int       `json:"session_index"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes int       `json:"duration_minutes"`
	ExpectedEnd     time.Time `json:"expected_end"`
}

// Settings is the typed view over the settings table.
type Settings struct {
	MonkMode             bool   `json:"monk_mode"`
	SoundEnabled         bool   `json:"sound_enabled"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	ThemeAccent          string `json:"theme_accent"`
	DailyGoalSessions    int    `json:"daily_goal_sessions"`
}

// DefaultSettings are the first-run values.
func DefaultSettings() Settings {
	return Settings{
		MonkMode:             false,
		SoundEnabled:         true,
		NotificationsEnabled: true,
		ThemeAccent:          Palette[0],
		DailyGoalSessions:    10,
	}
}
