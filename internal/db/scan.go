package db

import "strings"

type runScanner interface {
	Scan(dest ...any) error
}

const runSelect = `SELECT id, language, language_name, strict, total_loc, total_files, failed_files, dirs, created_at FROM runs`

func scanRun(row runScanner) (*Run, error) {
	var run Run
	var strictInt int
	var dirs string
	if err := row.Scan(
		&run.ID,
		&run.Language,
		&run.LanguageName,
		&strictInt,
		&run.TotalLOC,
		&run.TotalFiles,
		&run.FailedFiles,
		&dirs,
		&run.CreatedAt,
	); err != nil {
		return nil, err
	}
	run.Strict = strictInt == 1
	if dirs != "" {
		run.Dirs = strings.Split(dirs, dirSeparator)
	}
	return &run, nil
}
