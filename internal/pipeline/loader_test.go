package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/stmtburn/internal/model"
	"github.com/theirongolddev/stmtburn/internal/source"
	"github.com/theirongolddev/stmtburn/internal/store"
)

const octoberStatement = `Tatra banka, a.s.
Výpis z účtu
Obdobie od 01.10.2025 do 31.10.2025

01.10.2025 AP nákup POS 10.96-
Miesto platby: LIDL DAKUJEME ZA NAKUP

02.10.2025 Platba kartou
Miesto platby: NETFLIX.COM
Suma: 9.99- EUR

08.10.2025 Platba 1100/000000-2932559444
Odoslaná platba
Príjemca: Byt Kosice
Suma: 650.00 EUR

14.10.2025 Platba 0200/000000-4862337457
Prijatá platba
Platiteľ: ACME s.r.o. mzda
Suma: 2100,00 EUR

20.10.2025 Platba bez sumy
Nejaky popis

27.10.2025 Vklad hotovosti cez bankomat 100.00
`

func TestProcessText_EndToEnd(t *testing.T) {
	r := ProcessText(octoberStatement)

	require.Len(t, r.Transactions, 5)
	require.Len(t, r.Statement.Skipped, 1)
	assert.ErrorIs(t, r.Statement.Skipped[0], source.ErrUnparseableRecord)

	byCounterparty := make(map[string]model.Transaction)
	for _, tx := range r.Transactions {
		byCounterparty[tx.Counterparty] = tx
	}
	assert.Equal(t, model.FoodGroceries.Code, byCounterparty["LIDL DAKUJEME ZA NAKUP"].CategoryCode)
	assert.Equal(t, model.SubscriptionMedia.Code, byCounterparty["NETFLIX.COM"].CategoryCode)
	assert.Equal(t, model.IncomeSalary.Code, byCounterparty["ACME s.r.o. mzda"].CategoryCode)
	assertDecEqual(t, "-650.00", byCounterparty["Byt Kosice"].Amount)

	s := r.Summary
	assertDecEqual(t, "670.95", s.TotalExpenses)
	assertDecEqual(t, "2200.00", s.TotalIncome)
	assertDecEqual(t, "10.96", s.FoodExpenses)
	assertDecEqual(t, "9.99", s.SubscriptionsExpenses)
	assert.Empty(t, s.SubscriptionsTop, "a single charge is not recurring")

	// parsed fields survive classification untouched
	for i, tx := range r.Transactions {
		orig := r.Statement.Transactions[i]
		assert.True(t, orig.Amount.Equal(tx.Amount))
		assert.Equal(t, orig.Description, tx.Description)
		assert.Equal(t, orig.BookedAt, tx.BookedAt)
		assert.Empty(t, orig.CategoryCode)
	}
}

func TestAnalyze_RecurringAcrossStatementText(t *testing.T) {
	text := strings.Join([]string{
		"01.08.2025 AP nákup POS 9.99-",
		"Miesto platby: NETFLIX.COM",
		"31.08.2025 AP nákup POS 9.99-",
		"Miesto platby: NETFLIX.COM",
		"01.10.2025 AP nákup POS 9.99-",
		"Miesto platby: NETFLIX.COM",
	}, "\n")
	r := ProcessText(text)

	require.Len(t, r.Transactions, 3)
	for _, tx := range r.Transactions {
		assert.True(t, tx.Subscription)
		assert.True(t, tx.Regular)
	}
	require.Len(t, r.Summary.SubscriptionsTop, 1)
	top := r.Summary.SubscriptionsTop[0]
	assert.Equal(t, "NETFLIX.COM", top.Merchant)
	assert.Equal(t, 3, top.Occurrences)
	assert.Equal(t, "9.99", top.AvgAmount.StringFixed(2))
}

func writeStatements(t *testing.T, n int) []source.DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("vypis_%02d.txt", i))
		text := fmt.Sprintf("0%d.10.2025 AP nákup POS %d.50-\nMiesto platby: LIDL\n", 1+i%9, i+1)
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	}
	files, err := source.ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, files, n)
	return files
}

func TestLoad_ProcessesAllFilesInOrder(t *testing.T) {
	files := writeStatements(t, 12)
	files = append(files, source.DiscoveredFile{Path: filepath.Join(t.TempDir(), "missing.txt")})

	var calls atomic.Int64
	res, err := Load(context.Background(), files, Options{
		Workers:  3,
		Progress: func(current, total int) { calls.Add(1); assert.Equal(t, 13, total) },
	})
	require.NoError(t, err)

	assert.Equal(t, 13, res.TotalFiles)
	assert.Equal(t, 12, res.ParsedFiles)
	assert.Equal(t, 1, res.FileErrors)
	assert.Equal(t, 12, res.Transactions)
	assert.EqualValues(t, 13, calls.Load())

	require.Len(t, res.Reports, 12)
	for i, r := range res.Reports {
		assert.Equal(t, files[i].Path, r.File.Path)
		assertDecEqual(t, fmt.Sprintf("%d.50", i+1), r.Summary.TotalExpenses)
		assert.Equal(t, model.FoodGroceries.Code, r.Transactions[0].CategoryCode)
	}
}

func TestLoad_Empty(t *testing.T) {
	res, err := Load(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalFiles)
	assert.Empty(t, res.Reports)
}

func TestLoad_CancelledDiscardsPartialResult(t *testing.T) {
	files := writeStatements(t, 8)
	ctx, cancel := context.WithCancel(context.Background())

	res, err := Load(ctx, files, Options{
		Workers: 1,
		Progress: func(current, _ int) {
			if current == 2 {
				cancel()
			}
		},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestLoadWithLedger_MarksSeenFiles(t *testing.T) {
	files := writeStatements(t, 3)
	ledger, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer func() { _ = ledger.Close() }()

	first, err := LoadWithLedger(context.Background(), files, ledger, Options{Workers: 2})
	require.NoError(t, err)
	require.NoError(t, first.LedgerErr)
	assert.Equal(t, 3, first.NewFiles)
	assert.Equal(t, 0, first.Seen)
	assert.NotEmpty(t, first.RunID)

	// touch one file so its fingerprint changes
	require.NoError(t, os.WriteFile(files[1].Path, []byte("05.10.2025 AP nákup POS 1.00-\n05.10.2025 x 2.00-\n"), 0o600))
	changed, err := source.Discover(files[1].Path)
	require.NoError(t, err)
	files[1] = changed

	second, err := LoadWithLedger(context.Background(), files, ledger, Options{Workers: 2})
	require.NoError(t, err)
	require.NoError(t, second.LedgerErr)
	assert.Equal(t, 1, second.NewFiles)
	assert.Equal(t, 2, second.Seen)
	assert.True(t, second.Reports[0].Seen)
	assert.False(t, second.Reports[1].Seen)
	assert.NotEqual(t, first.RunID, second.RunID)

	runs, err := ledger.RecentRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	stmts, err := ledger.StatementRuns(second.RunID)
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, 2, stmts[1].Transactions)
}
