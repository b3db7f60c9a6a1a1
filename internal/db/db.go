package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps sqlite access for the recorded count history.
type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{sql: sqlDB}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) Ping() error {
	return d.sql.Ping()
}

func migrate(sqlDB *sql.DB) error {
	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer tx.Rollback()

	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	sequence INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	language TEXT NOT NULL,
	language_name TEXT NOT NULL,
	strict INTEGER NOT NULL DEFAULT 0,
	total_loc INTEGER NOT NULL DEFAULT 0,
	total_files INTEGER NOT NULL DEFAULT 0,
	failed_files INTEGER NOT NULL DEFAULT 0,
	dirs TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_files (
	run_id TEXT NOT NULL,
	path TEXT NOT NULL,
	loc INTEGER NOT NULL,
	size INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, path),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_language_sequence ON runs(language, sequence DESC);
CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
`
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("create base schema: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration tx: %w", err)
	}
	return nil
}

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous run id")
)
