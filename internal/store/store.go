// Package store persists the planning records in a local SQLite database and
// exposes the repository operations the grid engines consume: windowed list
// queries plus the two task/telework updates. List columns (assignees,
// dependencies, memberships) are stored as JSON arrays; days are stored as
// "2006-01-02" text so range queries are plain string comparisons.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tmarchal/planboard/internal/calendar"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("store: not found")

// Range is an inclusive day window for list queries.
type Range struct {
	Start calendar.Day
	End   calendar.Day
}

// Contains reports whether day d falls inside the range.
func (r Range) Contains(d calendar.Day) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                  TEXT PRIMARY KEY,
	first_name          TEXT NOT NULL DEFAULT '',
	family_name         TEXT NOT NULL DEFAULT '',
	role                TEXT NOT NULL DEFAULT 'employee',
	service_ids         TEXT NOT NULL DEFAULT '[]',
	managed_service_ids TEXT NOT NULL DEFAULT '[]',
	department_id       TEXT NOT NULL DEFAULT '',
	manages_department  INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS services (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	department_id TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'not-started',
	priority        INTEGER NOT NULL DEFAULT 1,
	start_day       TEXT NOT NULL DEFAULT '',
	end_day         TEXT NOT NULL DEFAULT '',
	estimated_hours REAL NOT NULL DEFAULT 0,
	assignee_ids    TEXT NOT NULL DEFAULT '[]',
	depends_on      TEXT NOT NULL DEFAULT '[]',
	project_id      TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS leaves (
	id        TEXT PRIMARY KEY,
	user_id   TEXT NOT NULL,
	start_day TEXT NOT NULL,
	end_day   TEXT NOT NULL,
	type      TEXT NOT NULL DEFAULT '',
	status    TEXT NOT NULL DEFAULT 'pending'
);
CREATE TABLE IF NOT EXISTS telework (
	id       TEXT PRIMARY KEY,
	user_id  TEXT NOT NULL,
	day      TEXT NOT NULL,
	telework INTEGER NOT NULL DEFAULT 0,
	UNIQUE (user_id, day)
);
CREATE TABLE IF NOT EXISTS holidays (
	id          TEXT PRIMARY KEY,
	day         TEXT NOT NULL,
	name        TEXT NOT NULL,
	is_work_day INTEGER NOT NULL DEFAULT 0
);
`

// SQLite is the concrete repository backed by a local SQLite file.
type SQLite struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and ensures the schema
// exists. The caller is responsible for calling Close.
func Open(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SQLite) Close() error { return s.db.Close() }

func newID() string { return uuid.NewString() }

// parseDay reads a stored day column; empty text means unknown.
func parseDay(s string) (calendar.Day, error) {
	if s == "" {
		return calendar.Day{}, nil
	}
	return calendar.Parse(s)
}
