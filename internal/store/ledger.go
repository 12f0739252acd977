// Package store provides a SQLite-backed ledger of statement processing runs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Ledger records which statement files were processed and when.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Ledger, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// FileInfo is the fingerprint of a statement file.
type FileInfo struct {
	MtimeNs   int64 `json:"mtimeNs"`
	SizeBytes int64 `json:"sizeBytes"`
}

// Run summarizes one invocation over a set of statements.
type Run struct {
	ID             string    `json:"runId"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
	Statements     int       `json:"statements"`
	Transactions   int       `json:"transactions"`
	SkippedRecords int       `json:"skippedRecords"`
	FileErrors     int       `json:"fileErrors"`
}

// StatementRun is the per-file part of a Run.
type StatementRun struct {
	FilePath       string    `json:"filePath"`
	File           FileInfo  `json:"file"`
	PeriodFrom     time.Time `json:"periodFrom"` // zero when the statement declared no period
	PeriodTo       time.Time `json:"periodTo"`
	Transactions   int       `json:"transactions"`
	SkippedRecords int       `json:"skippedRecords"`
}

// TrackedFiles returns a map of file_path -> FileInfo for every file seen so far.
func (l *Ledger) TrackedFiles() (map[string]FileInfo, error) {
	rows, err := l.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// RecordRun stores a run, its statements and refreshes the file tracker,
// all in one transaction.
func (l *Ledger) RecordRun(run Run, statements []StatementRun) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, started_at, finished_at, statements, transactions, skipped_records, file_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Statements, run.Transactions, run.SkippedRecords, run.FileErrors,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	now := formatTime(run.FinishedAt)
	for _, s := range statements {
		_, err = tx.Exec(`INSERT INTO statement_runs
			(run_id, file_path, mtime_ns, size_bytes, period_from, period_to, transactions, skipped_records)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, s.FilePath, s.File.MtimeNs, s.File.SizeBytes,
			nullableDate(s.PeriodFrom), nullableDate(s.PeriodTo),
			s.Transactions, s.SkippedRecords,
		)
		if err != nil {
			return fmt.Errorf("inserting statement %s: %w", s.FilePath, err)
		}

		_, err = tx.Exec(`INSERT INTO file_tracker (file_path, mtime_ns, size_bytes, first_seen, last_seen)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(file_path) DO UPDATE SET
				mtime_ns = excluded.mtime_ns,
				size_bytes = excluded.size_bytes,
				last_seen = excluded.last_seen`,
			s.FilePath, s.File.MtimeNs, s.File.SizeBytes, now, now,
		)
		if err != nil {
			return fmt.Errorf("tracking %s: %w", s.FilePath, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (l *Ledger) RecentRuns(limit int) ([]Run, error) {
	rows, err := l.db.Query(`SELECT
		run_id, started_at, finished_at, statements, transactions, skipped_records, file_errors
		FROM runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished,
			&r.Statements, &r.Transactions, &r.SkippedRecords, &r.FileErrors); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(timeLayout, started)
		r.FinishedAt, _ = time.Parse(timeLayout, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// StatementRuns returns the statements processed by one run, ordered by path.
func (l *Ledger) StatementRuns(runID string) ([]StatementRun, error) {
	rows, err := l.db.Query(`SELECT
		file_path, mtime_ns, size_bytes, period_from, period_to, transactions, skipped_records
		FROM statement_runs WHERE run_id = ? ORDER BY file_path`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []StatementRun
	for rows.Next() {
		var s StatementRun
		var from, to sql.NullString
		if err := rows.Scan(&s.FilePath, &s.File.MtimeNs, &s.File.SizeBytes,
			&from, &to, &s.Transactions, &s.SkippedRecords); err != nil {
			return nil, err
		}
		if from.Valid {
			s.PeriodFrom, _ = time.Parse(time.DateOnly, from.String)
		}
		if to.Valid {
			s.PeriodTo, _ = time.Parse(time.DateOnly, to.String)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ForgetFile removes a file from the tracker so the next run treats it as new.
func (l *Ledger) ForgetFile(filePath string) error {
	_, err := l.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

// RunCount returns the number of recorded runs.
func (l *Ledger) RunCount() (int, error) {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.DateOnly)
}
