package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const (
	defaultListLimit = 20
	dirSeparator     = "\n"
)

// Run is one recorded count.
type Run struct {
	ID           string
	Language     string
	LanguageName string
	Strict       bool
	TotalLOC     int
	TotalFiles   int
	FailedFiles  int
	Dirs         []string
	CreatedAt    string
}

// RunFile is the count of a single file within a run.
type RunFile struct {
	RunID string
	Path  string
	LOC   int
	Size  int64
}

func (d *DB) InsertRun(run Run, files []RunFile) error {
	if strings.TrimSpace(run.CreatedAt) == "" {
		run.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	strictInt := 0
	if run.Strict {
		strictInt = 1
	}
	_, err = tx.Exec(`
INSERT INTO runs (id, language, language_name, strict, total_loc, total_files, failed_files, dirs, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		run.ID,
		run.Language,
		run.LanguageName,
		strictInt,
		run.TotalLOC,
		run.TotalFiles,
		run.FailedFiles,
		strings.Join(run.Dirs, dirSeparator),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := insertRunFiles(tx, run.ID, files); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertRunFiles(tx *sql.Tx, runID string, files []RunFile) error {
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO run_files (run_id, path, loc, size) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare run file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		if _, err := stmt.Exec(runID, f.Path, f.LOC, f.Size); err != nil {
			return fmt.Errorf("insert run file %s: %w", f.Path, err)
		}
	}
	return nil
}

func (d *DB) GetRun(id string) (*Run, error) {
	row := d.sql.QueryRow(runSelect+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ResolveRun finds a run by full id or by a unique id prefix.
func (d *DB) ResolveRun(ref string) (*Run, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}
	if run, err := d.GetRun(ref); err != ErrNotFound {
		return run, err
	}

	rows, err := d.sql.Query(runSelect+` WHERE id LIKE ? ESCAPE '\' ORDER BY sequence DESC LIMIT 2`, escapeLike(ref)+"%")
	if err != nil {
		return nil, fmt.Errorf("resolve run %s: %w", ref, err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
	}
}

// LatestRun returns the newest run, optionally restricted to a language.
// It returns nil when there is none.
func (d *DB) LatestRun(language string) (*Run, error) {
	runs, err := d.ListRuns(language, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ListRuns returns runs newest first. An empty language lists every
// language.
func (d *DB) ListRuns(language string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := runSelect + ` ORDER BY sequence DESC LIMIT ?`
	args := []any{limit}
	if language = strings.TrimSpace(language); language != "" {
		query = runSelect + ` WHERE language = ? ORDER BY sequence DESC LIMIT ?`
		args = []any{language, limit}
	}

	rows, err := d.sql.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// LatestRuns returns the newest run of every recorded language, ordered by
// language key.
func (d *DB) LatestRuns() ([]Run, error) {
	rows, err := d.sql.Query(runSelect + ` WHERE sequence IN (SELECT MAX(sequence) FROM runs GROUP BY language) ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("latest runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

func (d *DB) CountRuns() (int, error) {
	var n int
	if err := d.sql.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func (d *DB) GetRunFiles(runID string) ([]RunFile, error) {
	rows, err := d.sql.Query(`SELECT run_id, path, loc, size FROM run_files WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("get run files %s: %w", runID, err)
	}
	defer rows.Close()

	var out []RunFile
	for rows.Next() {
		var f RunFile
		if err := rows.Scan(&f.RunID, &f.Path, &f.LOC, &f.Size); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
