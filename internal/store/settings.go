package store

import (
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Settings assembles the typed settings, falling back to defaults for any
// missing or unparseable key.
func (s *Store) Settings() (Settings, error) {
	out := DefaultSettings()

	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return out, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return out, err
		}
		switch key {
		case "monk_mode":
			out.MonkMode = value == "1"
		case "sound_enabled":
			out.SoundEnabled = value == "1"
		case "notifications_enabled":
			out.NotificationsEnabled = value == "1"
		case "theme_accent":
			if value != "" {
				out.ThemeAccent = value
			}
		case "daily_goal_sessions":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				out.DailyGoalSessions = n
			}
		}
	}
	return out, rows.Err()
}

// SaveSettings writes the full typed settings back to the table.
func (s *Store) SaveSettings(cfg Settings) error {
	pairs := map[string]string{
		"monk_mode":             boolValue(cfg.MonkMode),
		"sound_enabled":         boolValue(cfg.SoundEnabled),
		"notifications_enabled": boolValue(cfg.NotificationsEnabled),
		"theme_accent":          cfg.ThemeAccent,
		"daily_goal_sessions":   strconv.Itoa(cfg.DailyGoalSessions),
	}
	for key, value := range pairs {
		if err := s.SetSetting(key, value); err != nil {
			return fmt.Errorf("save setting %q: %w", key, err)
		}
	}
	return nil
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
