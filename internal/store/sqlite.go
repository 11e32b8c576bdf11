package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// SQLiteStore keeps every table in one SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*SQLiteStore, error) {
	return New(":memory:")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
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

// Column names and text formats mirror the CSV tables.
func (s *SQLiteStore) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS projects (
		project_id        TEXT PRIMARY KEY,
		project_name      TEXT NOT NULL,
		customer          TEXT NOT NULL DEFAULT '',
		description       TEXT NOT NULL DEFAULT '',
		start_date        TEXT NOT NULL,
		expected_end_date TEXT NOT NULL,
		actual_end_date   TEXT,
		budget            REAL NOT NULL DEFAULT 0,
		status_project    TEXT NOT NULL,
		pm_id             TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS staff (
		staff_id          TEXT PRIMARY KEY,
		full_name         TEXT NOT NULL,
		role              TEXT NOT NULL DEFAULT '',
		management_title  TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS tasks (
		task_id        TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(project_id),
		task_name      TEXT NOT NULL,
		assignee_id    TEXT NOT NULL DEFAULT 'Unassigned',
		deadline       TEXT,
		completed_date TEXT,
		status_task    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);

	CREATE TABLE IF NOT EXISTS weekly_reports (
		report_id       TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL,
		period_start    TEXT NOT NULL,
		period_end      TEXT NOT NULL,
		total_tasks     INTEGER NOT NULL DEFAULT 0,
		completed_tasks INTEGER NOT NULL DEFAULT 0,
		overdue_tasks   INTEGER NOT NULL DEFAULT 0,
		progress        REAL NOT NULL DEFAULT 0,
		status          TEXT NOT NULL DEFAULT '',
		author_id       TEXT NOT NULL,
		created_date    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_weekly_project ON weekly_reports(project_id);

	CREATE TABLE IF NOT EXISTS final_reports (
		report_id          TEXT PRIMARY KEY,
		project_id         TEXT NOT NULL,
		author_id          TEXT NOT NULL,
		created_date       TEXT NOT NULL,
		project_name       TEXT NOT NULL DEFAULT '',
		customer           TEXT NOT NULL DEFAULT '',
		project_start_date TEXT,
		actual_end_date    TEXT,
		duration_days      INTEGER NOT NULL DEFAULT 0,
		total_tasks        INTEGER NOT NULL DEFAULT 0,
		completed_tasks    INTEGER NOT NULL DEFAULT 0,
		ontime_tasks       INTEGER NOT NULL DEFAULT 0,
		overdue_tasks      INTEGER NOT NULL DEFAULT 0,
		cancelled_tasks    INTEGER NOT NULL DEFAULT 0,
		overall_progress   REAL NOT NULL DEFAULT 0,
		project_status     TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// nullDate maps a blank wire date to SQL NULL.
func nullDate(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
