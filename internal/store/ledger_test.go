package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedger_RecordAndTrack(t *testing.T) {
	l := openTestLedger(t)

	started := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	run := Run{
		ID:             "run-1",
		StartedAt:      started,
		FinishedAt:     started.Add(time.Second),
		Statements:     2,
		Transactions:   40,
		SkippedRecords: 1,
	}
	stmts := []StatementRun{
		{
			FilePath:     "/tmp/b.txt",
			File:         FileInfo{MtimeNs: 200, SizeBytes: 2048},
			PeriodFrom:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			PeriodTo:     time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
			Transactions: 25,
		},
		{
			FilePath:       "/tmp/a.txt",
			File:           FileInfo{MtimeNs: 100, SizeBytes: 1024},
			Transactions:   15,
			SkippedRecords: 1,
		},
	}
	if err := l.RecordRun(run, stmts); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	tracked, err := l.TrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(tracked) != 2 {
		t.Fatalf("len(tracked) = %d, want 2", len(tracked))
	}
	if got := tracked["/tmp/a.txt"]; got.MtimeNs != 100 || got.SizeBytes != 1024 {
		t.Errorf("tracked[a] = %+v", got)
	}

	got, err := l.StatementRuns("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].FilePath != "/tmp/a.txt" {
		t.Fatalf("StatementRuns = %+v", got)
	}
	if !got[0].PeriodFrom.IsZero() {
		t.Errorf("a.txt PeriodFrom = %v, want zero", got[0].PeriodFrom)
	}
	if !got[1].PeriodTo.Equal(stmts[0].PeriodTo) {
		t.Errorf("b.txt PeriodTo = %v, want %v", got[1].PeriodTo, stmts[0].PeriodTo)
	}
}

func TestLedger_RecentRunsNewestFirst(t *testing.T) {
	l := openTestLedger(t)

	base := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		start := base.Add(time.Duration(i) * time.Hour)
		run := Run{ID: id, StartedAt: start, FinishedAt: start}
		stmt := StatementRun{FilePath: "/tmp/x.txt", File: FileInfo{MtimeNs: int64(i), SizeBytes: 10}}
		if err := l.RecordRun(run, []StatementRun{stmt}); err != nil {
			t.Fatalf("RecordRun(%s): %v", id, err)
		}
	}

	runs, err := l.RecentRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "r3" || runs[1].ID != "r2" {
		t.Fatalf("RecentRuns = %+v", runs)
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("StartedAt = %v", runs[0].StartedAt)
	}

	n, err := l.RunCount()
	if err != nil || n != 3 {
		t.Errorf("RunCount = %d, %v; want 3", n, err)
	}

	// the tracker keeps only the latest fingerprint
	tracked, err := l.TrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if tracked["/tmp/x.txt"].MtimeNs != 2 {
		t.Errorf("MtimeNs = %d, want 2", tracked["/tmp/x.txt"].MtimeNs)
	}

	if err := l.ForgetFile("/tmp/x.txt"); err != nil {
		t.Fatal(err)
	}
	tracked, _ = l.TrackedFiles()
	if len(tracked) != 0 {
		t.Errorf("len(tracked) = %d after ForgetFile, want 0", len(tracked))
	}
}

func TestLedger_DuplicateRunRollsBack(t *testing.T) {
	l := openTestLedger(t)
	run := Run{ID: "dup", StartedAt: time.Now(), FinishedAt: time.Now()}
	if err := l.RecordRun(run, nil); err != nil {
		t.Fatal(err)
	}
	err := l.RecordRun(run, []StatementRun{{FilePath: "/tmp/new.txt"}})
	if err == nil {
		t.Fatal("expected error for duplicate run id")
	}
	tracked, _ := l.TrackedFiles()
	if _, ok := tracked["/tmp/new.txt"]; ok {
		t.Error("file tracked despite failed run")
	}
}

func TestOpen_MigratesOnceAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	v, err := l.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
	_ = l.Close()

	// second open finds nothing to migrate
	l, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()
	if n, err := l.RunCount(); err != nil || n != 0 {
		t.Errorf("RunCount = %d, %v", n, err)
	}
}
