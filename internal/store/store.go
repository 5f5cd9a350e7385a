package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		color               TEXT NOT NULL DEFAULT '#00FFD1',
		icon                TEXT NOT NULL DEFAULT '⚡',
		start_date          TEXT NOT NULL,
		end_date            TEXT NOT NULL,
		sessions_per_day    INTEGER NOT NULL,
		minutes_per_session INTEGER NOT NULL,
		archived            INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS session_records (
		task_id       TEXT NOT NULL REFERENCES tasks(id),
		day           TEXT NOT NULL,
		session_index INTEGER NOT NULL,
		completed_at  TEXT NOT NULL,
		UNIQUE(task_id, day, session_index)
	);

	CREATE INDEX IF NOT EXISTS idx_records_task ON session_records(task_id);
	CREATE INDEX IF NOT EXISTS idx_records_day  ON session_records(day);

	CREATE TABLE IF NOT EXISTS active_timer (
		id               INTEGER PRIMARY KEY CHECK (id = 1),
		task_id          TEXT NOT NULL REFERENCES tasks(id),
		day              TEXT NOT NULL,
		session_index    INTEGER NOT NULL,
		started_at       TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		expected_end     TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS identity (
		id        INTEGER PRIMARY KEY CHECK (id = 1),
		user_id   TEXT NOT NULL,
		name      TEXT NOT NULL,
		email     TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('monk_mode',             '0'),
		('sound_enabled',         '1'),
		('notifications_enabled', '1'),
		('theme_accent',          '#00FFD1'),
		('daily_goal_sessions',   '10');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.local/share/monk/monk.db (or the XDG equivalent).
func DefaultDBPath() (string, error) {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "monk", "monk.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "monk", "monk.db"), nil
}
