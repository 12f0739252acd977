package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/stmtburn/internal/source"
	"github.com/theirongolddev/stmtburn/internal/store"
)

// LedgerLoadResult extends LoadResult with run ledger metadata.
type LedgerLoadResult struct {
	LoadResult
	RunID    string
	NewFiles int // not in the ledger, or changed since last seen
	Seen     int
	// LedgerErr is set when the run could not be recorded. The reports are
	// still complete.
	LedgerErr error
}

// LoadWithLedger processes files like Load, marks the reports the ledger
// already knew, and records the run. Parsed data is never written; every
// file is always parsed again.
func LoadWithLedger(ctx context.Context, files []source.DiscoveredFile, ledger *store.Ledger, opts Options) (*LedgerLoadResult, error) {
	started := time.Now()

	tracked, err := ledger.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	lr, err := Load(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	result := &LedgerLoadResult{
		LoadResult: *lr,
		RunID:      uuid.NewString(),
	}

	stmts := make([]store.StatementRun, 0, len(lr.Reports))
	for i := range result.Reports {
		r := &result.Reports[i]
		fi := store.FileInfo{MtimeNs: r.File.MtimeNs, SizeBytes: r.File.Size}
		if prev, ok := tracked[r.File.Path]; ok && prev == fi {
			r.Seen = true
			result.Seen++
		} else {
			result.NewFiles++
		}
		stmts = append(stmts, store.StatementRun{
			FilePath:       r.File.Path,
			File:           fi,
			PeriodFrom:     r.Statement.PeriodFrom,
			PeriodTo:       r.Statement.PeriodTo,
			Transactions:   len(r.Transactions),
			SkippedRecords: len(r.Statement.Skipped),
		})
	}

	run := store.Run{
		ID:             result.RunID,
		StartedAt:      started,
		FinishedAt:     time.Now(),
		Statements:     result.ParsedFiles,
		Transactions:   result.Transactions,
		SkippedRecords: result.SkippedRecords,
		FileErrors:     result.FileErrors,
	}
	if err := ledger.RecordRun(run, stmts); err != nil {
		result.LedgerErr = fmt.Errorf("recording run: %w", err)
	}

	return result, nil
}

// LedgerDir returns the platform-appropriate state directory.
func LedgerDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "stmtburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "stmtburn")
}

// LedgerPath returns the full path to the ledger database.
func LedgerPath() string {
	return filepath.Join(LedgerDir(), "ledger.db")
}
